package documents

import "sort"

// SelectionSet tracks which document ids are marked selected, scoped to the
// whole collection rather than the visible page. Select-all operates on the
// ids of one page at a time, so repeated select-all across pages accumulates
// into a cross-page set. The zero value is an empty, usable set.
type SelectionSet struct {
	ids map[string]struct{}
}

// NewSelectionSet returns an empty selection.
func NewSelectionSet() SelectionSet {
	return SelectionSet{ids: make(map[string]struct{})}
}

// Toggle adds or removes a single id. Re-toggling to the current state is a
// no-op, not an error.
func (s *SelectionSet) Toggle(id string, selected bool) {
	if selected {
		if s.ids == nil {
			s.ids = make(map[string]struct{})
		}
		s.ids[id] = struct{}{}
		return
	}
	delete(s.ids, id)
}

// SelectAll adds or removes exactly the given visible ids.
func (s *SelectionSet) SelectAll(visibleIDs []string, selected bool) {
	for _, id := range visibleIDs {
		s.Toggle(id, selected)
	}
}

// IsAllSelected reports whether every visible id is currently selected. An
// empty visible slice is never "all selected".
func (s SelectionSet) IsAllSelected(visibleIDs []string) bool {
	if len(visibleIDs) == 0 {
		return false
	}
	for _, id := range visibleIDs {
		if _, ok := s.ids[id]; !ok {
			return false
		}
	}
	return true
}

// Contains reports whether id is selected.
func (s SelectionSet) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Count returns the number of selected ids.
func (s SelectionSet) Count() int {
	return len(s.ids)
}

// IDs returns the selected ids in a stable order.
func (s SelectionSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clear empties the set.
func (s *SelectionSet) Clear() {
	for id := range s.ids {
		delete(s.ids, id)
	}
}

// Prune drops ids that no longer exist in the base collection and returns
// the ids that were removed. Stale ids never cause an error; they are
// reconciled lazily on the next membership query.
func (s *SelectionSet) Prune(existing []string) []string {
	live := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		live[id] = struct{}{}
	}
	var dropped []string
	for id := range s.ids {
		if _, ok := live[id]; !ok {
			dropped = append(dropped, id)
			delete(s.ids, id)
		}
	}
	sort.Strings(dropped)
	return dropped
}
