package app

import (
	"fmt"

	"github.com/evanschultz/lasso/internal/domain"
)

// cachedBox stores one computed box and its validity.
type cachedBox struct {
	box   domain.Rect
	valid bool
}

// BoundingBoxCache indexes computed boxes by item id.
//
// A box is computed on first use and reused until Invalidate marks it stale.
// A stale box is never used for hit-testing: the next lookup recomputes it
// synchronously.
type BoundingBoxCache struct {
	provider  BoundingBoxProvider
	logger    Logger
	boxes     map[domain.ItemID]cachedBox
	container cachedBox
	recovered int
}

// NewBoundingBoxCache constructs a cache over provider.
func NewBoundingBoxCache(provider BoundingBoxProvider, logger Logger) *BoundingBoxCache {
	if logger == nil {
		logger = nopLogger{}
	}
	return &BoundingBoxCache{
		provider: provider,
		logger:   logger,
		boxes:    map[domain.ItemID]cachedBox{},
	}
}

// Box returns the box for one item, recomputing it when absent or stale.
func (c *BoundingBoxCache) Box(item domain.Item) (domain.Rect, error) {
	entry, ok := c.boxes[item.ID]
	if ok && entry.valid {
		return entry.box, nil
	}
	if ok {
		c.recovered++
		c.logger.Debug("recomputing invalidated bounding box", "item_id", item.ID, "err", domain.ErrStaleBoundingBox)
	}
	if c.provider == nil {
		return domain.Rect{}, ErrNilProvider
	}
	box, err := c.provider.BoundingBox(item.Handle)
	if err != nil {
		return domain.Rect{}, fmt.Errorf("bounding box for item %s: %w", item.ID, err)
	}
	c.boxes[item.ID] = cachedBox{box: box, valid: true}
	return box, nil
}

// Container returns the container box, recomputing it when stale.
func (c *BoundingBoxCache) Container() (domain.Rect, error) {
	if c.container.valid {
		return c.container.box, nil
	}
	if c.provider == nil {
		return domain.Rect{}, ErrNilProvider
	}
	box, err := c.provider.ContainerBox()
	if err != nil {
		return domain.Rect{}, fmt.Errorf("container bounding box: %w", err)
	}
	c.container = cachedBox{box: box, valid: true}
	return box, nil
}

// Invalidate marks every cached box stale.
func (c *BoundingBoxCache) Invalidate() {
	for id, entry := range c.boxes {
		entry.valid = false
		c.boxes[id] = entry
	}
	c.container.valid = false
}

// InvalidateItem marks one item's box stale.
func (c *BoundingBoxCache) InvalidateItem(id domain.ItemID) {
	if entry, ok := c.boxes[id]; ok {
		entry.valid = false
		c.boxes[id] = entry
	}
}

// Forget drops the entry of a deregistered item.
func (c *BoundingBoxCache) Forget(id domain.ItemID) {
	delete(c.boxes, id)
}

// Valid reports whether id has a usable cached box.
func (c *BoundingBoxCache) Valid(id domain.ItemID) bool {
	entry, ok := c.boxes[id]
	return ok && entry.valid
}

// Recovered returns how many stale boxes were recomputed.
func (c *BoundingBoxCache) Recovered() int {
	return c.recovered
}
