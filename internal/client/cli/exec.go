package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/civicops/drconsole/internal/client/table"
)

var errUnknownCommand = errors.New("unknown command")

type usageError struct {
	usage string
}

func (e *usageError) Error() string { return "usage: " + e.usage }

type command struct {
	usage string
	help  string
	run   func(a *App, ctx context.Context, args []string) error
	// minArgs is checked before run.
	minArgs int
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"refresh":         {usage: "refresh", help: "reload every collection", run: (*App).cmdRefresh},
		"list":            {usage: "list [advisories|incidents|centers|resources]", help: "show a table view", run: (*App).cmdList},
		"filter":          {usage: "filter [view] status|category VALUE", help: "filter a view; 'all' clears", run: (*App).cmdFilter, minArgs: 2},
		"sort":            {usage: "sort [view] FIELD [asc|desc]", help: "sort a view; without direction toggles", run: (*App).cmdSort, minArgs: 1},
		"select":          {usage: "select ID...", help: "toggle advisory selection", run: (*App).cmdSelect, minArgs: 1},
		"selectall":       {usage: "selectall", help: "select every visible advisory", run: (*App).cmdSelectAll},
		"clear":           {usage: "clear", help: "clear the advisory selection", run: (*App).cmdClear},
		"bulk":            {usage: "bulk", help: "publish the selected drafts", run: (*App).cmdBulkPublish},
		"show":            {usage: "show ID", help: "show one advisory", run: (*App).cmdShow, minArgs: 1},
		"preview":         {usage: "preview ID", help: "render an advisory's content as HTML", run: (*App).cmdPreview, minArgs: 1},
		"new":             {usage: "new [TEMPLATE]", help: "write a new advisory", run: (*App).cmdNew},
		"edit":            {usage: "edit ID FIELD [VALUE...]", help: "change one advisory field", run: (*App).cmdEdit, minArgs: 2},
		"publish":         {usage: "publish ID", help: "publish a draft", run: (*App).cmdPublish, minArgs: 1},
		"schedule":        {usage: "schedule ID TIME", help: "schedule a draft (RFC 3339 or 'YYYY-MM-DD HH:MM' UTC)", run: (*App).cmdSchedule, minArgs: 2},
		"unpublish":       {usage: "unpublish ID", help: "return a published advisory to draft", run: (*App).cmdUnpublish, minArgs: 1},
		"reconcile":       {usage: "reconcile", help: "publish scheduled advisories that are due", run: (*App).cmdReconcile},
		"delete":          {usage: "delete [view] ID", help: "delete a record permanently", run: (*App).cmdDelete, minArgs: 1},
		"templates":       {usage: "templates", help: "list advisory templates", run: (*App).cmdTemplates},
		"incident":        {usage: "incident TITLE...", help: "report a new incident", run: (*App).cmdNewIncident, minArgs: 1},
		"incident-status": {usage: "incident-status ID open|monitoring|resolved", help: "change an incident's status", run: (*App).cmdIncidentStatus, minArgs: 2},
		"occupancy":       {usage: "occupancy ID N", help: "set an evacuation center's occupancy", run: (*App).cmdOccupancy, minArgs: 2},
		"attach":          {usage: "attach ID [FILE]", help: "upload FILE for a resource, or print an upload URL", run: (*App).cmdAttach, minArgs: 1},
		"download":        {usage: "download ID", help: "get a download URL for a resource's file", run: (*App).cmdDownload, minArgs: 1},
	}
}

// Exec runs one logged-in shell command.
func (a *App) Exec(ctx context.Context, name string, args []string) error {
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownCommand, name)
	}
	if len(args) < cmd.minArgs {
		return &usageError{usage: cmd.usage}
	}
	return cmd.run(a, ctx, args)
}

func printHelp(w io.Writer, loggedIn bool) {
	if !loggedIn {
		fmt.Fprintln(w, "Available commands: register, login, exit")
		return
	}
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := newTable(w)
	for _, name := range names {
		fmt.Fprintf(tw, "  %s\t%s\n", commands[name].usage, commands[name].help)
	}
	fmt.Fprintln(tw, "  logout\tforget the session")
	fmt.Fprintln(tw, "  exit\tleave the console")
	_ = tw.Flush()
}

// view is what every table controller offers regardless of row type.
type view interface {
	SetFilterStatus(string)
	SetFilterCategory(string)
	SetSort(string, table.Direction)
	ToggleSort(string)
}

const (
	viewAdvisories = "advisories"
	viewIncidents  = "incidents"
	viewCenters    = "centers"
	viewResources  = "resources"
)

// splitView takes an optional leading view name off args.
func splitView(args []string) (string, []string) {
	if len(args) > 0 {
		switch strings.ToLower(args[0]) {
		case viewAdvisories, viewIncidents, viewCenters, viewResources:
			return strings.ToLower(args[0]), args[1:]
		}
	}
	return viewAdvisories, args
}

func (a *App) viewFor(name string) (view, error) {
	switch name {
	case viewAdvisories:
		return a.console.AdvisoryView, nil
	case viewIncidents:
		return a.console.IncidentView, nil
	case viewCenters:
		return a.console.CenterView, nil
	default:
		return nil, fmt.Errorf("%s cannot be filtered or sorted", name)
	}
}
