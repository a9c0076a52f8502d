package content

import (
	"testing"

	"github.com/civicops/drconsole/internal/client/models"
	"github.com/civicops/drconsole/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyTemplate_EmergencyOnEmptyDraft(t *testing.T) {
	tpl, err := ApplyTemplate("emergency")
	require.NoError(t, err)

	var draft models.Advisory
	tpl.Apply(&draft)

	assert.Equal(t, models.CategoryEmergency, draft.Category)
	assert.NotEmpty(t, draft.Content)
	assert.Empty(t, draft.Title)
}

func TestApplyTemplate_TouchesOnlyContentAndCategory(t *testing.T) {
	tpl, err := ApplyTemplate("weather")
	require.NoError(t, err)

	draft := models.Advisory{
		Title:       "Storm",
		Priority:    models.PriorityHigh,
		IsEmergency: true,
		Tags:        []string{"coast"},
		Content:     "old",
		Category:    models.CategoryGeneral,
	}
	want := draft
	want.Content = tpl.Content
	want.Category = models.CategoryWeather

	tpl.Apply(&draft)
	assert.Equal(t, want, draft)
}

func TestApplyTemplate_Unknown(t *testing.T) {
	_, err := ApplyTemplate("volcano")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestTemplates_AllPublishable(t *testing.T) {
	list, err := Templates()
	require.NoError(t, err)

	var got []string
	for _, tpl := range list {
		got = append(got, tpl.ID)
		assert.GreaterOrEqual(t, len(tpl.Content), 50, tpl.ID)
		assert.True(t, models.IsCategory(tpl.Category), tpl.ID)
	}
	assert.Equal(t, []string{"emergency", "weather", "evacuation", "health", "infrastructure", "general"}, got)
}

func TestParseTemplates_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not a list", "id: x"},
		{"missing id", "- category: Infrastructure\n  content: x"},
		{"duplicate", "- id: a\n  category: Infrastructure\n- id: a\n  category: Infrastructure"},
		{"bad category", "- id: a\n  category: Nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseTemplates([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
