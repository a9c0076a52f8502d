package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/civicops/drconsole/internal/client/models"
	"github.com/civicops/drconsole/internal/client/table"
)

const timeLayout = "2006-01-02 15:04"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.UTC().Format(timeLayout)
}

func mark(selected bool) string {
	if selected {
		return "*"
	}
	return " "
}

func renderViewState(w io.Writer, s table.ViewState) {
	fmt.Fprintf(w, "status=%s category=%s sort=%s %s selected=%d\n",
		s.FilterStatus, s.FilterCategory, s.SortField, s.SortDirection, len(s.Selected))
}

func renderAdvisories(w io.Writer, rows []models.Advisory, state table.ViewState) error {
	renderViewState(w, state)
	tw := newTable(w)
	fmt.Fprintln(tw, "\tID\tSTATUS\tPRIORITY\tCATEGORY\tTITLE\tPUBLISH AT\tUPDATED")
	for _, a := range rows {
		_, sel := state.Selected[a.ID]
		status := string(a.Status)
		if a.Archived {
			status += " (archived)"
		}
		title := a.Title
		if a.IsEmergency {
			title = "! " + title
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			mark(sel), a.ID, status, a.Priority, a.Category, title, formatTime(a.PublishAt), formatTime(&a.UpdatedAt))
	}
	return tw.Flush()
}

func renderAdvisory(w io.Writer, a models.Advisory) {
	fmt.Fprintf(w, "%s  [%s]\n", a.Title, a.Status)
	fmt.Fprintf(w, "id:        %s\n", a.ID)
	fmt.Fprintf(w, "category:  %s\n", a.Category)
	fmt.Fprintf(w, "priority:  %s\n", a.Priority)
	fmt.Fprintf(w, "emergency: %t\n", a.IsEmergency)
	fmt.Fprintf(w, "author:    %s\n", a.Author)
	fmt.Fprintf(w, "publishAt: %s\n", formatTime(a.PublishAt))
	fmt.Fprintf(w, "tags:      %s\n", strings.Join(a.Tags, ", "))
	fmt.Fprintf(w, "excerpt:   %s\n", a.Excerpt)
	fmt.Fprintln(w)
	fmt.Fprintln(w, a.Content)
}

func renderIncidents(w io.Writer, rows []models.Incident, state table.ViewState) error {
	renderViewState(w, state)
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tSTATUS\tSEVERITY\tTITLE\tLOCATION\tUPDATED")
	for _, i := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			i.ID, i.Status, i.Severity, i.Title, i.Location, formatTime(&i.UpdatedAt))
	}
	return tw.Flush()
}

func renderCenters(w io.Writer, rows []models.EvacuationCenter, state table.ViewState) error {
	renderViewState(w, state)
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tSTATUS\tNAME\tOCCUPANCY\tAVAILABLE\tPHONE")
	for _, c := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%d\t%s\n",
			c.ID, c.Status, c.Name, c.Occupancy, c.Capacity, c.Available(), c.ContactPhone)
	}
	return tw.Flush()
}

func renderDocuments(w io.Writer, rows []models.Document) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tFILE\tUPDATED")
	for _, d := range rows {
		file := "-"
		if d.Key != "" {
			file = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ID, d.Title, file, formatTime(&d.UpdatedAt))
	}
	return tw.Flush()
}
