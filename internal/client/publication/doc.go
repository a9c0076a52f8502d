// Package publication implements the advisory lifecycle.
//
// An advisory moves between three states:
//
//	draft ──Publish──────────▶ published
//	draft ──Schedule─────────▶ scheduled ──PublishDue──▶ published
//	published ──Unpublish────▶ draft
//
// Save persists field edits in any state without changing it. The pure
// transition functions (Publish, Schedule, PublishDue, Unpublish, Touch) take
// an advisory and the current time and return the next advisory or an error;
// Machine runs them against a syncstore and writes the result back through
// Store.Update. Nothing in this package polls: a scheduled advisory becomes
// published only when someone calls PublishDue (see package scheduler).
package publication
