package app

import "github.com/evanschultz/lasso/internal/domain"

// HitTester partitions items by overlap with a selection rectangle.
type HitTester struct {
	cache  *BoundingBoxCache
	logger Logger
}

// NewHitTester constructs a hit tester reading boxes from cache.
func NewHitTester(cache *BoundingBoxCache, logger Logger) *HitTester {
	if logger == nil {
		logger = nopLogger{}
	}
	return &HitTester{cache: cache, logger: logger}
}

// Partition splits items into hit and missed, preserving input order in both.
// Items whose box cannot be computed count as missed.
func (h *HitTester) Partition(rect domain.Rect, items []domain.Item) (hit, miss []domain.Item) {
	for _, item := range items {
		box, err := h.cache.Box(item)
		if err != nil {
			h.logger.Warn("hit test skipped item", "item_id", item.ID, "err", err)
			miss = append(miss, item)
			continue
		}
		if rect.Intersects(box) {
			hit = append(hit, item)
			continue
		}
		miss = append(miss, item)
	}
	return hit, miss
}

// ItemAt returns the first item whose box contains p.
func (h *HitTester) ItemAt(p domain.Point, items []domain.Item) (domain.Item, bool) {
	hit, _ := h.Partition(domain.Rect{Left: p.X, Top: p.Y, Right: p.X, Bottom: p.Y}, items)
	if len(hit) == 0 {
		return domain.Item{}, false
	}
	return hit[0], true
}

// ids returns item ids in order.
func ids(items []domain.Item) []domain.ItemID {
	out := make([]domain.ItemID, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}
