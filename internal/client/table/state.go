package table

// All is the wildcard filter value.
const All = "all"

// Direction of a sort.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ViewState is the UI-local view of one collection. It is never persisted.
type ViewState struct {
	SortField      string
	SortDirection  Direction
	FilterStatus   string
	FilterCategory string
	Selected       map[string]struct{}
}

// NewViewState returns the default view: newest first, no filters.
func NewViewState() *ViewState {
	return &ViewState{
		SortField:      "createdAt",
		SortDirection:  Desc,
		FilterStatus:   All,
		FilterCategory: All,
		Selected:       map[string]struct{}{},
	}
}

func (s *ViewState) isSelected(id string) bool {
	_, ok := s.Selected[id]
	return ok
}
