package publication

import (
	"errors"
	"strings"

	"github.com/civicops/drconsole/internal/client/content"
	"github.com/civicops/drconsole/internal/client/models"
)

// Draft is the editor buffer for a new or edited advisory. It is plain data
// until handed to Machine.Create or Machine.Save.
type Draft struct {
	models.Advisory
}

// NewDraft returns an empty buffer with the editor defaults.
func NewDraft() *Draft {
	return &Draft{Advisory: models.Advisory{
		Priority: models.PriorityMedium,
		Status:   models.StatusDraft,
		Category: models.CategoryGeneral,
	}}
}

// EditDraft starts a buffer from a stored advisory.
func EditDraft(a models.Advisory) *Draft {
	a.Tags = append([]string(nil), a.Tags...)
	return &Draft{Advisory: a}
}

// ApplyTemplate replaces content and category with the template's.
func (d *Draft) ApplyTemplate(id string) error {
	t, err := content.ApplyTemplate(id)
	if err != nil {
		return err
	}
	t.Apply(&d.Advisory)
	return nil
}

// Validate checks the buffer against the publish rules and the editor's own
// field constraints.
func (d *Draft) Validate() error {
	errs := fieldErrors{}
	if err := ValidateContent(d.Advisory); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			for k, v := range ve.Fields {
				errs[k] = v
			}
		}
	}
	if !d.Priority.Valid() {
		errs[models.AdvisoryPriority] = "is not a known priority"
	}
	for _, tag := range d.Tags {
		if strings.TrimSpace(tag) == "" {
			errs[models.AdvisoryTags] = "must not contain empty tags"
			break
		}
	}
	return errs.err()
}
