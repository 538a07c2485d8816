package viewer

import "github.com/Faultbox/prepview/pkg/annotation"

// Selection is a set of tooth identifiers for one side.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection creates a selection holding ids.
func NewSelection(ids ...string) *Selection {
	s := &Selection{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Toggle flips membership of id and reports whether it is now selected.
func (s *Selection) Toggle(id string) bool {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected identifiers.
func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected identifiers in annotation order.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	annotation.SortIDs(out)
	return out
}

// Retain drops identifiers for which keep returns false.
func (s *Selection) Retain(keep func(id string) bool) {
	for id := range s.ids {
		if !keep(id) {
			delete(s.ids, id)
		}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = make(map[string]struct{})
}
