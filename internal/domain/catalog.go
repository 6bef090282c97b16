package domain

import (
	"strings"
	"time"
)

// CatalogItem represents one persisted entry rendered as a selectable cell.
type CatalogItem struct {
	ID        string
	Label     string
	Kind      string
	Notes     string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCatalogItem constructs a validated catalog entry.
func NewCatalogItem(id, label, kind, notes string, position int, now time.Time) (CatalogItem, error) {
	id = strings.TrimSpace(id)
	label = strings.TrimSpace(label)
	kind = strings.ToLower(strings.TrimSpace(kind))
	if id == "" {
		return CatalogItem{}, ErrInvalidID
	}
	if label == "" {
		return CatalogItem{}, ErrInvalidLabel
	}
	if position < 0 {
		position = 0
	}
	if kind == "" {
		kind = "item"
	}
	return CatalogItem{
		ID:        id,
		Label:     label,
		Kind:      kind,
		Notes:     strings.TrimSpace(notes),
		Position:  position,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// Rename updates the display label.
func (c *CatalogItem) Rename(label string, now time.Time) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return ErrInvalidLabel
	}
	c.Label = label
	c.UpdatedAt = now.UTC()
	return nil
}
