package app

import (
	"github.com/evanschultz/lasso/internal/domain"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// SelectionSet is the insertion-ordered set of selected ids.
// Order is the order in which items became selected.
type SelectionSet struct {
	ids *orderedmap.OrderedMap[domain.ItemID, struct{}]
}

// NewSelectionSet constructs a set seeded with ids in order.
func NewSelectionSet(ids ...domain.ItemID) *SelectionSet {
	s := &SelectionSet{ids: orderedmap.New[domain.ItemID, struct{}]()}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Contains reports membership.
func (s *SelectionSet) Contains(id domain.ItemID) bool {
	_, ok := s.ids.Get(id)
	return ok
}

// Add appends id if absent and reports whether it was added.
func (s *SelectionSet) Add(id domain.ItemID) bool {
	_, present := s.ids.Set(id, struct{}{})
	return !present
}

// Remove drops id and reports whether it was present.
func (s *SelectionSet) Remove(id domain.ItemID) bool {
	_, present := s.ids.Delete(id)
	return present
}

// Len returns the number of selected ids.
func (s *SelectionSet) Len() int {
	return s.ids.Len()
}

// IDs returns the ids in insertion order.
func (s *SelectionSet) IDs() []domain.ItemID {
	out := make([]domain.ItemID, 0, s.ids.Len())
	for pair := s.ids.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Clone returns an independent copy.
func (s *SelectionSet) Clone() *SelectionSet {
	return NewSelectionSet(s.IDs()...)
}
