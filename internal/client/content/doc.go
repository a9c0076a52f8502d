// Package content prefills advisory drafts from built-in templates and
// renders authored text for preview.
//
// Both functions are pure: templates are loaded once from an embedded YAML
// document and never change, and RenderPreview depends only on its input.
package content
