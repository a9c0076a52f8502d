// Package cli is the drconsole command line.
//
// The root command carries the connection flags (see package config) and
// these subcommands:
//
//	shell                 interactive console over the advisory, incident,
//	                      evacuation center and resource stores
//	reconcile [--watch]   publish scheduled advisories that are due
//	register              create a staff account
//	preview FILE          render advisory markup to HTML
//	templates             list the built-in advisory templates
//
// The shell is a line REPL (see runREPL). After login it mirrors every
// collection and keeps one table view per collection; commands act on those
// views and write through the stores, so what is printed is always the
// server-confirmed state.
package cli
