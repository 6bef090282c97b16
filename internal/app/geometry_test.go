package app

import (
	"errors"
	"slices"
	"testing"

	"github.com/evanschultz/lasso/internal/domain"
)

// TestBuildSelectBox verifies drag states map onto normalized boxes.
func TestBuildSelectBox(t *testing.T) {
	cases := []struct {
		name  string
		state domain.DragState
		want  domain.SelectBox
	}{
		{name: "idle", state: domain.DragState{}, want: domain.SelectBox{}},
		{name: "start", state: domain.DragStart(domain.Point{X: 4, Y: 6}), want: domain.SelectBox{Left: 4, Top: 6}},
		{
			name:  "down right",
			state: domain.DragMove(domain.Point{X: 2, Y: 3}, domain.Point{X: 10, Y: 7}),
			want:  domain.SelectBox{Left: 2, Top: 3, Width: 8, Height: 4, Visible: true},
		},
		{
			name:  "up left",
			state: domain.DragMove(domain.Point{X: 10, Y: 7}, domain.Point{X: 2, Y: 3}),
			want:  domain.SelectBox{Left: 2, Top: 3, Width: 8, Height: 4, Visible: true},
		},
		{name: "end", state: domain.DragEnd(), want: domain.SelectBox{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BuildSelectBox(tc.state); got != tc.want {
				t.Fatalf("BuildSelectBox() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

// TestHitTesterPartition verifies order-preserving partitioning and failed lookups.
func TestHitTesterPartition(t *testing.T) {
	provider := &gridProvider{boxes: map[string]domain.Rect{
		"a": {Left: 0, Top: 0, Right: 3, Bottom: 1},
		"b": {Left: 5, Top: 0, Right: 8, Bottom: 1},
		"c": {Left: 4, Top: 0, Right: 4, Bottom: 0},
	}}
	cache := NewBoundingBoxCache(provider, nil)
	hits := NewHitTester(cache, nil)
	items := []domain.Item{
		{ID: 10, Handle: "b"},
		{ID: 11, Handle: "missing"},
		{ID: 12, Handle: "a"},
		{ID: 13, Handle: "c"},
	}

	hit, miss := hits.Partition(domain.Rect{Left: 3, Top: 1, Right: 5, Bottom: 1}, items)
	if got := ids(hit); !slices.Equal(got, []domain.ItemID{10, 12}) {
		t.Fatalf("hit = %v, want [10 12]", got)
	}
	if got := ids(miss); !slices.Equal(got, []domain.ItemID{11, 13}) {
		t.Fatalf("miss = %v, want [11 13]", got)
	}

	item, ok := hits.ItemAt(domain.Point{X: 4, Y: 0}, items)
	if !ok || item.ID != 13 {
		t.Fatalf("ItemAt() = %+v, %t, want 13", item, ok)
	}
	if _, ok := hits.ItemAt(domain.Point{X: 40, Y: 0}, items); ok {
		t.Fatal("ItemAt() outside every box reported a hit")
	}
}

// TestBoundingBoxCacheInvalidation verifies caching, staleness and forgetting.
func TestBoundingBoxCacheInvalidation(t *testing.T) {
	provider := &gridProvider{
		boxes:     map[string]domain.Rect{"a": {Right: 2, Bottom: 2}},
		container: domain.Rect{Right: 80, Bottom: 24},
	}
	cache := NewBoundingBoxCache(provider, nil)
	item := domain.Item{ID: 1, Handle: "a"}

	for range 3 {
		if _, err := cache.Box(item); err != nil {
			t.Fatalf("Box() error = %v", err)
		}
	}
	if provider.calls != 1 {
		t.Fatalf("provider calls = %d, want 1", provider.calls)
	}

	provider.boxes["a"] = domain.Rect{Left: 5, Right: 7, Bottom: 2}
	cache.InvalidateItem(1)
	if cache.Valid(1) {
		t.Fatal("Valid() = true after InvalidateItem")
	}
	box, _ := cache.Box(item)
	if box.Left != 5 || cache.Recovered() != 1 {
		t.Fatalf("Box() = %+v recovered = %d, want fresh box", box, cache.Recovered())
	}

	container, err := cache.Container()
	if err != nil || container.Right != 80 {
		t.Fatalf("Container() = %+v, %v", container, err)
	}

	cache.Forget(1)
	if cache.Valid(1) {
		t.Fatal("Valid() = true after Forget")
	}
	if _, err := cache.Box(domain.Item{ID: 2, Handle: "missing"}); err == nil {
		t.Fatal("Box() for unknown handle error = nil")
	}
}

// TestBoundingBoxCacheWrapsProviderErrors verifies failures keep their cause.
func TestBoundingBoxCacheWrapsProviderErrors(t *testing.T) {
	cause := errors.New("detached")
	cache := NewBoundingBoxCache(failingProvider{err: cause}, nil)
	if _, err := cache.Box(domain.Item{ID: 3}); !errors.Is(err, cause) {
		t.Fatalf("Box() error = %v, want wrapped %v", err, cause)
	}
	if _, err := cache.Container(); !errors.Is(err, cause) {
		t.Fatalf("Container() error = %v, want wrapped %v", err, cause)
	}
}

// failingProvider fails every query.
type failingProvider struct {
	err error
}

func (p failingProvider) BoundingBox(domain.Handle) (domain.Rect, error) { return domain.Rect{}, p.err }
func (p failingProvider) ContainerBox() (domain.Rect, error)             { return domain.Rect{}, p.err }

// TestSelectionSetOrder verifies insertion order and membership operations.
func TestSelectionSetOrder(t *testing.T) {
	s := NewSelectionSet(3, 1)
	if !s.Add(2) || s.Add(3) {
		t.Fatal("Add() reported wrong insertion results")
	}
	if !slices.Equal(s.IDs(), []domain.ItemID{3, 1, 2}) {
		t.Fatalf("IDs() = %v, want [3 1 2]", s.IDs())
	}
	clone := s.Clone()
	if !s.Remove(1) || s.Remove(1) {
		t.Fatal("Remove() reported wrong presence results")
	}
	if s.Contains(1) || !clone.Contains(1) {
		t.Fatal("Clone() shares state with its source")
	}
	if s.Len() != 2 || clone.Len() != 3 {
		t.Fatalf("Len() = %d/%d, want 2/3", s.Len(), clone.Len())
	}
}

// TestRegistryLifecycle verifies identity assignment and deregistration.
func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()
	a := r.Register("a", 1)
	b := r.Register("b", 2)
	if a == 0 || b <= a {
		t.Fatalf("Register() ids = %s, %s, want increasing non-zero", a, b)
	}
	if !r.setSelected(a, true) || r.setSelected(a, true) {
		t.Fatal("setSelected() reported wrong change results")
	}
	item, ok := r.Get(a)
	if !ok || !item.Selected || item.Value != 1 {
		t.Fatalf("Get() = %+v, %t", item, ok)
	}
	if !r.Deregister(a) || r.Deregister(a) {
		t.Fatal("Deregister() reported wrong results")
	}
	if r.Has(a) || r.Len() != 1 || !slices.Equal(r.IDs(), []domain.ItemID{b}) {
		t.Fatalf("registry after Deregister = %v", r.IDs())
	}
	if c := r.Register("c", 3); c <= b {
		t.Fatalf("Register() reused identity %s", c)
	}
}
