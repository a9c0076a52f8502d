package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/civicops/drconsole/internal/client/models"
	"github.com/civicops/drconsole/internal/client/scheduler"
	"github.com/civicops/drconsole/internal/client/syncstore"
)

func (a *App) cmdDelete(ctx context.Context, args []string) error {
	name, rest := splitView(args)
	if len(rest) < 1 {
		return &usageError{usage: commands["delete"].usage}
	}
	id := rest[0]

	ok, err := Confirm(a.reader, fmt.Sprintf("Delete %s %s permanently?", name, id), a.out)
	if err != nil || !ok {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	switch name {
	case viewIncidents:
		err = a.console.Incidents.Delete(ctx, id)
	case viewCenters:
		err = a.console.Centers.Delete(ctx, id)
	case viewResources:
		err = a.console.Resources.Delete(ctx, id)
	default:
		err = a.console.Advisories.Delete(ctx, id)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", id)
	return nil
}

func (a *App) cmdNewIncident(ctx context.Context, args []string) error {
	inc := models.Incident{
		Title:    strings.Join(args, " "),
		Severity: models.PriorityMedium,
		Status:   models.IncidentOpen,
	}
	severity, err := GetTextDefault(a.reader, "Severity (low, medium, high, critical)", string(inc.Severity), a.out)
	if err != nil {
		return err
	}
	inc.Severity = models.Priority(severity)
	if inc.Location, err = GetSimpleText(a.reader, "Location", a.out); err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	created, err := a.console.Incidents.Create(ctx, inc)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created incident %s\n", created.ID)
	return nil
}

func (a *App) cmdIncidentStatus(ctx context.Context, args []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	inc, err := a.console.Incidents.Update(ctx, args[0], syncstore.Patch{models.IncidentStatus: args[1]})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Incident %s is %s\n", inc.ID, inc.Status)
	return nil
}

// cmdOccupancy records a head count. A center at capacity is marked full
// and one with room again is reopened; a closed center stays closed.
func (a *App) cmdOccupancy(ctx context.Context, args []string) error {
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 0 {
		return fmt.Errorf("occupancy %q: want a non-negative number", args[1])
	}
	c, ok := a.console.Centers.Get(args[0])
	if !ok {
		return fmt.Errorf("center %s not mirrored, run refresh", args[0])
	}

	patch := syncstore.Patch{models.CenterOccupancy: n}
	switch {
	case c.Status == models.CenterClosed:
	case c.Capacity > 0 && n >= c.Capacity:
		patch[models.CenterStatus] = models.CenterFull
	default:
		patch[models.CenterStatus] = models.CenterOpen
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	c, err = a.console.Centers.Update(ctx, c.ID, patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: %d/%d (%s)\n", c.Name, c.Occupancy, c.Capacity, c.Status)
	return nil
}

func (a *App) cmdAttach(ctx context.Context, args []string) error {
	if a.console.Documents == nil {
		return fmt.Errorf("documents are not available")
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if len(args) > 1 {
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		key, err := a.console.Documents.AttachFile(ctx, args[0], f)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Uploaded %s as %s.\n", args[1], key)
		return nil
	}

	url, err := a.console.Documents.Attach(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Upload the file with an HTTP PUT to:")
	fmt.Fprintln(a.out, url)
	return nil
}

func (a *App) cmdDownload(ctx context.Context, args []string) error {
	if a.console.Documents == nil {
		return fmt.Errorf("documents are not available")
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	url, err := a.console.Documents.DownloadURL(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, url)
	return nil
}

func printReport(w io.Writer, r scheduler.Report) {
	fmt.Fprintf(w, "published %d, failed %d\n", len(r.Published), len(r.Failed))
	for _, id := range r.Published {
		fmt.Fprintf(w, "  %s: published\n", id)
	}
	ids := make([]string, 0, len(r.Failed))
	for id := range r.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(w, "  %s: %v\n", id, r.Failed[id])
	}
}
