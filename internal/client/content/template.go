package content

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/civicops/drconsole/internal/client/models"
	"github.com/civicops/drconsole/internal/common"
)

//go:embed templates.yaml
var builtinYAML []byte

// Template is a named set of prefilled advisory fields.
type Template struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Content  string `yaml:"content"`
}

// Apply copies the template's content and category into a. No other field
// of the draft is touched.
func (t Template) Apply(a *models.Advisory) {
	a.Content = t.Content
	a.Category = t.Category
}

var (
	loadOnce  sync.Once
	templates []Template
	byID      map[string]Template
	loadErr   error
)

func load() {
	loadOnce.Do(func() {
		templates, byID, loadErr = parseTemplates(builtinYAML)
	})
}

func parseTemplates(data []byte) ([]Template, map[string]Template, error) {
	var list []Template
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, nil, fmt.Errorf("parse templates: %w", err)
	}
	index := make(map[string]Template, len(list))
	for _, t := range list {
		if t.ID == "" {
			return nil, nil, fmt.Errorf("parse templates: template without id")
		}
		if _, dup := index[t.ID]; dup {
			return nil, nil, fmt.Errorf("parse templates: duplicate id %q", t.ID)
		}
		if !models.IsCategory(t.Category) {
			return nil, nil, fmt.Errorf("parse templates: %s: unknown category %q", t.ID, t.Category)
		}
		index[t.ID] = t
	}
	return list, index, nil
}

// Templates lists the built-in templates in declaration order.
func Templates() ([]Template, error) {
	load()
	if loadErr != nil {
		return nil, loadErr
	}
	return append([]Template(nil), templates...), nil
}

// ApplyTemplate returns the prefilled fields for id.
func ApplyTemplate(id string) (Template, error) {
	load()
	if loadErr != nil {
		return Template{}, loadErr
	}
	t, ok := byID[id]
	if !ok {
		return Template{}, fmt.Errorf("template %q: %w", id, common.ErrorNotFound)
	}
	return t, nil
}
