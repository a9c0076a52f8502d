package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/civicops/drconsole/internal/client/content"
	"github.com/civicops/drconsole/internal/client/models"
	"github.com/civicops/drconsole/internal/client/publication"
	"github.com/civicops/drconsole/internal/client/table"
	"github.com/civicops/drconsole/internal/common"
)

func (a *App) cmdRefresh(ctx context.Context, _ []string) error {
	if err := a.refresh(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d advisories, %d incidents, %d centers, %d resources\n",
		len(a.console.Advisories.Items()), len(a.console.Incidents.Items()),
		len(a.console.Centers.Items()), len(a.console.Resources.Items()))
	return nil
}

func (a *App) cmdList(_ context.Context, args []string) error {
	name, _ := splitView(args)
	switch name {
	case viewIncidents:
		return renderIncidents(a.out, a.console.IncidentView.Visible(), a.console.IncidentView.State())
	case viewCenters:
		return renderCenters(a.out, a.console.CenterView.Visible(), a.console.CenterView.State())
	case viewResources:
		return renderDocuments(a.out, a.console.Resources.Items())
	default:
		if err := a.console.Advisories.Err(); err != nil {
			fmt.Fprintln(a.out, "Last refresh failed:", err)
		}
		return renderAdvisories(a.out, a.console.AdvisoryView.Visible(), a.console.AdvisoryView.State())
	}
}

func (a *App) cmdFilter(_ context.Context, args []string) error {
	name, rest := splitView(args)
	if len(rest) < 2 {
		return &usageError{usage: commands["filter"].usage}
	}
	v, err := a.viewFor(name)
	if err != nil {
		return err
	}
	value := strings.Join(rest[1:], " ")
	switch rest[0] {
	case "status":
		v.SetFilterStatus(value)
	case "category", "severity":
		v.SetFilterCategory(value)
	default:
		return &usageError{usage: commands["filter"].usage}
	}
	return a.cmdList(context.Background(), []string{name})
}

func (a *App) cmdSort(_ context.Context, args []string) error {
	name, rest := splitView(args)
	if len(rest) < 1 {
		return &usageError{usage: commands["sort"].usage}
	}
	v, err := a.viewFor(name)
	if err != nil {
		return err
	}
	if len(rest) > 1 {
		v.SetSort(rest[0], table.Direction(strings.ToLower(rest[1])))
	} else {
		v.ToggleSort(rest[0])
	}
	return a.cmdList(context.Background(), []string{name})
}

func (a *App) cmdSelect(_ context.Context, args []string) error {
	for _, id := range args {
		if _, ok := a.console.Advisories.Get(id); !ok {
			return fmt.Errorf("advisory %s: %w", id, common.ErrorNotFound)
		}
		a.console.AdvisoryView.Toggle(id)
	}
	fmt.Fprintf(a.out, "%d selected\n", len(a.console.AdvisoryView.Selected()))
	return nil
}

func (a *App) cmdSelectAll(_ context.Context, _ []string) error {
	a.console.AdvisoryView.ToggleSelectAll()
	fmt.Fprintf(a.out, "%d selected\n", len(a.console.AdvisoryView.Selected()))
	return nil
}

func (a *App) cmdClear(_ context.Context, _ []string) error {
	a.console.AdvisoryView.ClearSelection()
	return nil
}

func (a *App) cmdBulkPublish(ctx context.Context, _ []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	report := a.console.AdvisoryView.PublishSelected(ctx, a.console.Machine)
	fmt.Fprintf(a.out, "published %d, skipped %d, failed %d\n",
		len(report.Published), len(report.Skipped), len(report.Failed))

	ids := make([]string, 0, len(report.Failed))
	for id := range report.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(a.out, "  %s: %v\n", id, report.Failed[id])
	}
	return nil
}

func (a *App) advisory(id string) (models.Advisory, error) {
	adv, ok := a.console.Advisories.Get(id)
	if !ok {
		return models.Advisory{}, fmt.Errorf("advisory %s: %w", id, common.ErrorNotFound)
	}
	return adv, nil
}

func (a *App) cmdShow(_ context.Context, args []string) error {
	adv, err := a.advisory(args[0])
	if err != nil {
		return err
	}
	renderAdvisory(a.out, adv)
	return nil
}

func (a *App) cmdPreview(_ context.Context, args []string) error {
	adv, err := a.advisory(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, content.RenderPreview(adv.Content))
	return nil
}

func (a *App) cmdTemplates(_ context.Context, _ []string) error {
	return renderTemplates(a.out)
}

func renderTemplates(w io.Writer) error {
	list, err := content.Templates()
	if err != nil {
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY")
	for _, t := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.ID, t.Name, t.Category)
	}
	return tw.Flush()
}

// cmdNew walks through the editor fields. With a template the content and
// category are prefilled and only confirmed.
func (a *App) cmdNew(ctx context.Context, args []string) error {
	d := publication.NewDraft()
	d.Author = a.auth.Username()
	if len(args) > 0 {
		if err := d.ApplyTemplate(args[0]); err != nil {
			return err
		}
	}

	var err error
	if d.Title, err = GetSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if d.Category, err = GetTextDefault(a.reader, "Category", d.Category, a.out); err != nil {
		return err
	}
	priority, err := GetTextDefault(a.reader, "Priority (low, medium, high, critical)", string(d.Priority), a.out)
	if err != nil {
		return err
	}
	d.Priority = models.Priority(priority)
	if d.Content == "" {
		if d.Content, err = GetMultiline(a.reader, "Content", a.out); err != nil {
			return err
		}
	}
	tags, err := GetSimpleText(a.reader, "Tags (comma separated)", a.out)
	if err != nil {
		return err
	}
	d.Tags = splitTags(tags)
	if d.IsEmergency, err = Confirm(a.reader, "Emergency?", a.out); err != nil {
		return err
	}

	mode := publication.SaveDraft
	publishNow, err := Confirm(a.reader, "Publish now?", a.out)
	if err != nil {
		return err
	}
	if publishNow {
		mode = publication.PublishNow
		if err := d.Validate(); err != nil {
			return err
		}
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	created, err := a.console.Machine.Create(ctx, d.Advisory, mode)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %s (%s)\n", created.ID, created.Status)
	return nil
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// cmdEdit changes one field and saves. Content without a value is read as
// multiline input.
func (a *App) cmdEdit(ctx context.Context, args []string) error {
	adv, err := a.advisory(args[0])
	if err != nil {
		return err
	}
	d := publication.EditDraft(adv)
	value := strings.Join(args[2:], " ")

	switch field := args[1]; field {
	case models.AdvisoryTitle:
		d.Title = value
	case models.AdvisoryCategory:
		d.Category = value
	case models.AdvisoryPriority:
		d.Priority = models.Priority(value)
	case models.AdvisoryExcerpt:
		d.Excerpt = value
	case models.AdvisoryTags:
		d.Tags = splitTags(value)
	case "emergency":
		if d.IsEmergency, err = strconv.ParseBool(value); err != nil {
			return fmt.Errorf("emergency: %w", err)
		}
	case models.AdvisoryContent:
		if value == "" {
			if value, err = GetMultiline(a.reader, "Content", a.out); err != nil {
				return err
			}
		}
		d.Content = value
	case "template":
		if err := d.ApplyTemplate(value); err != nil {
			return err
		}
	case models.AdvisoryPublishAt:
		at, err := parseTime(value)
		if err != nil {
			return err
		}
		d.PublishAt = &at
	default:
		return fmt.Errorf("field %q cannot be edited", field)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	saved, err := a.console.Machine.Save(ctx, d.Advisory)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %s\n", saved.ID)
	return nil
}

func (a *App) cmdPublish(ctx context.Context, args []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	adv, err := a.console.Machine.Publish(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Published %s\n", adv.ID)
	return nil
}

// parseTime accepts RFC 3339 or "YYYY-MM-DD HH:MM" in UTC.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q: want RFC 3339 or %q", s, timeLayout)
	}
	return t, nil
}

func (a *App) cmdSchedule(ctx context.Context, args []string) error {
	at, err := parseTime(strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	adv, err := a.console.Machine.Schedule(ctx, args[0], at)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Scheduled %s for %s\n", adv.ID, formatTime(adv.PublishAt))
	return nil
}

func (a *App) cmdUnpublish(ctx context.Context, args []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	adv, err := a.console.Machine.Unpublish(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Unpublished %s\n", adv.ID)
	return nil
}

func (a *App) cmdReconcile(ctx context.Context, _ []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	report, err := a.console.Reconciler.RunOnce(ctx)
	if err != nil {
		return err
	}
	printReport(a.out, report)
	return nil
}
