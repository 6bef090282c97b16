package app

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/evanschultz/lasso/internal/domain"
)

// CatalogRepository persists catalog items.
type CatalogRepository interface {
	CreateItem(context.Context, domain.CatalogItem) error
	UpdateItem(context.Context, domain.CatalogItem) error
	GetItem(context.Context, string) (domain.CatalogItem, error)
	ListItems(context.Context) ([]domain.CatalogItem, error)
	DeleteItem(context.Context, string) error
}

// IDGenerator returns unique identifiers for new entities.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Catalog manages the persisted items a workspace lays out for selection.
type Catalog struct {
	repo  CatalogRepository
	idGen IDGenerator
	clock Clock
}

// NewCatalog constructs a catalog service.
func NewCatalog(repo CatalogRepository, idGen IDGenerator, clock Clock) *Catalog {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	return &Catalog{repo: repo, idGen: idGen, clock: clock}
}

// AddItemInput holds input values for add item operations.
type AddItemInput struct {
	Label string
	Kind  string
	Notes string
}

// AddItem appends a new item after every existing one.
func (c *Catalog) AddItem(ctx context.Context, in AddItemInput) (domain.CatalogItem, error) {
	items, err := c.repo.ListItems(ctx)
	if err != nil {
		return domain.CatalogItem{}, fmt.Errorf("list catalog items: %w", err)
	}
	position := 0
	for _, item := range items {
		position = max(position, item.Position+1)
	}
	item, err := domain.NewCatalogItem(c.idGen(), in.Label, in.Kind, in.Notes, position, c.clock())
	if err != nil {
		return domain.CatalogItem{}, err
	}
	if err := c.repo.CreateItem(ctx, item); err != nil {
		return domain.CatalogItem{}, fmt.Errorf("create catalog item: %w", err)
	}
	return item, nil
}

// RenameItem updates one item's label.
func (c *Catalog) RenameItem(ctx context.Context, id, label string) (domain.CatalogItem, error) {
	item, err := c.repo.GetItem(ctx, id)
	if err != nil {
		return domain.CatalogItem{}, err
	}
	if err := item.Rename(label, c.clock()); err != nil {
		return domain.CatalogItem{}, err
	}
	if err := c.repo.UpdateItem(ctx, item); err != nil {
		return domain.CatalogItem{}, err
	}
	return item, nil
}

// RemoveItem deletes one item.
func (c *Catalog) RemoveItem(ctx context.Context, id string) error {
	return c.repo.DeleteItem(ctx, strings.TrimSpace(id))
}

// GetItem returns one item.
func (c *Catalog) GetItem(ctx context.Context, id string) (domain.CatalogItem, error) {
	return c.repo.GetItem(ctx, strings.TrimSpace(id))
}

// ListItems returns every item in layout order.
func (c *Catalog) ListItems(ctx context.Context) ([]domain.CatalogItem, error) {
	items, err := c.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(items, func(a, b domain.CatalogItem) int {
		if a.Position != b.Position {
			return a.Position - b.Position
		}
		return strings.Compare(a.ID, b.ID)
	})
	return items, nil
}

// CatalogQuery selects catalog items by id, kind or label substring.
// Empty fields match everything; set fields must all match.
type CatalogQuery struct {
	IDs           []string `json:"ids,omitempty"`
	Kind          string   `json:"kind,omitempty"`
	LabelContains string   `json:"label_contains,omitempty"`
}

// IsZero reports whether the query has no criteria.
func (q CatalogQuery) IsZero() bool {
	return len(q.IDs) == 0 && strings.TrimSpace(q.Kind) == "" && strings.TrimSpace(q.LabelContains) == ""
}

// Matches reports whether item satisfies the query.
func (q CatalogQuery) Matches(item domain.CatalogItem) bool {
	if len(q.IDs) > 0 && !slices.Contains(q.IDs, item.ID) {
		return false
	}
	if kind := strings.ToLower(strings.TrimSpace(q.Kind)); kind != "" && item.Kind != kind {
		return false
	}
	if needle := strings.ToLower(strings.TrimSpace(q.LabelContains)); needle != "" && !strings.Contains(strings.ToLower(item.Label), needle) {
		return false
	}
	return true
}

// Predicate adapts the query to engine items whose value is a catalog item.
func (q CatalogQuery) Predicate() func(domain.Item) bool {
	return func(item domain.Item) bool {
		entry, ok := item.Value.(domain.CatalogItem)
		return ok && q.Matches(entry)
	}
}

// RegisterCatalog registers items with the engine in order. Each handle is the
// item's grid slot, so a GridLayout can resolve it.
func RegisterCatalog(e *Engine, items []domain.CatalogItem) []domain.ItemID {
	out := make([]domain.ItemID, 0, len(items))
	for slot, item := range items {
		out = append(out, e.Register(slot, item))
	}
	return out
}

// ReloadCatalog replaces every registered item with items, resizing layout
// when given. Catalog entries that were selected before and still exist stay
// selected, in the order they were selected. It returns the new engine ids in
// item order.
func ReloadCatalog(e *Engine, layout *GridLayout, items []domain.CatalogItem) []domain.ItemID {
	kept := CatalogValues(e.SelectedValues())
	for _, item := range e.Items() {
		e.Deregister(item.ID)
	}
	if layout != nil {
		layout.Count = len(items)
	}
	e.InvalidateBoundingBoxes()
	ids := RegisterCatalog(e, items)
	if len(kept) == 0 {
		return ids
	}
	byCatalogID := make(map[string]domain.ItemID, len(items))
	for idx, item := range items {
		byCatalogID[item.ID] = ids[idx]
	}
	restore := make([]domain.ItemID, 0, len(kept))
	for _, item := range kept {
		if id, ok := byCatalogID[item.ID]; ok {
			restore = append(restore, id)
		}
	}
	e.SetSelection(restore...)
	return ids
}

// CatalogValues converts selection values back into catalog items.
func CatalogValues(values []any) []domain.CatalogItem {
	out := make([]domain.CatalogItem, 0, len(values))
	for _, v := range values {
		if item, ok := v.(domain.CatalogItem); ok {
			out = append(out, item)
		}
	}
	return out
}
