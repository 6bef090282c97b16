package app

import (
	"slices"

	"github.com/evanschultz/lasso/internal/domain"
)

// registryEntry stores one live item.
type registryEntry struct {
	id       domain.ItemID
	handle   domain.Handle
	value    any
	selected bool
}

// item materializes the entry for callers.
func (e *registryEntry) item() domain.Item {
	return domain.Item{
		ID:       e.id,
		Selected: e.selected,
		Handle:   e.handle,
		Value:    e.value,
	}
}

// Registry tracks live items in registration order.
type Registry struct {
	entries []*registryEntry
	index   map[domain.ItemID]*registryEntry
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: map[domain.ItemID]*registryEntry{}}
}

// Register adds an item and assigns it the next process-wide identity.
func (r *Registry) Register(handle domain.Handle, value any) domain.ItemID {
	entry := &registryEntry{
		id:     domain.NextItemID(),
		handle: handle,
		value:  value,
	}
	r.entries = append(r.entries, entry)
	r.index[entry.id] = entry
	return entry.id
}

// Deregister removes an item. It reports whether the id was live.
func (r *Registry) Deregister(id domain.ItemID) bool {
	if _, ok := r.index[id]; !ok {
		return false
	}
	delete(r.index, id)
	r.entries = slices.DeleteFunc(r.entries, func(e *registryEntry) bool {
		return e.id == id
	})
	return true
}

// Get returns one live item.
func (r *Registry) Get(id domain.ItemID) (domain.Item, bool) {
	entry, ok := r.index[id]
	if !ok {
		return domain.Item{}, false
	}
	return entry.item(), true
}

// Has reports whether id is live.
func (r *Registry) Has(id domain.ItemID) bool {
	_, ok := r.index[id]
	return ok
}

// Items returns live items in registration order.
func (r *Registry) Items() []domain.Item {
	out := make([]domain.Item, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, entry.item())
	}
	return out
}

// IDs returns live ids in registration order.
func (r *Registry) IDs() []domain.ItemID {
	out := make([]domain.ItemID, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, entry.id)
	}
	return out
}

// Len returns the number of live items.
func (r *Registry) Len() int {
	return len(r.entries)
}

// setSelected updates the selected flag and reports whether it changed.
func (r *Registry) setSelected(id domain.ItemID, selected bool) bool {
	entry, ok := r.index[id]
	if !ok || entry.selected == selected {
		return false
	}
	entry.selected = selected
	return true
}
