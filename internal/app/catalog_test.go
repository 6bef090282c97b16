package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/evanschultz/lasso/internal/domain"
)

// fakeCatalogRepo stores catalog items in memory.
type fakeCatalogRepo struct {
	items map[string]domain.CatalogItem
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{items: map[string]domain.CatalogItem{}}
}

func (f *fakeCatalogRepo) CreateItem(_ context.Context, item domain.CatalogItem) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeCatalogRepo) UpdateItem(_ context.Context, item domain.CatalogItem) error {
	if _, ok := f.items[item.ID]; !ok {
		return ErrNotFound
	}
	f.items[item.ID] = item
	return nil
}

func (f *fakeCatalogRepo) GetItem(_ context.Context, id string) (domain.CatalogItem, error) {
	item, ok := f.items[id]
	if !ok {
		return domain.CatalogItem{}, ErrNotFound
	}
	return item, nil
}

func (f *fakeCatalogRepo) ListItems(context.Context) ([]domain.CatalogItem, error) {
	out := make([]domain.CatalogItem, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeCatalogRepo) DeleteItem(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return ErrNotFound
	}
	delete(f.items, id)
	return nil
}

// sequentialIDs returns c1, c2, ...
func sequentialIDs() IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("c%d", n)
	}
}

// TestCatalogLifecycle verifies add, list ordering, rename and removal.
func TestCatalogLifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	catalog := NewCatalog(newFakeCatalogRepo(), sequentialIDs(), func() time.Time { return now })

	for _, label := range []string{"alpha", "beta", "gamma"} {
		if _, err := catalog.AddItem(ctx, AddItemInput{Label: label, Kind: "Note"}); err != nil {
			t.Fatalf("AddItem(%q) error = %v", label, err)
		}
	}
	items, err := catalog.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	var labels []string
	for _, item := range items {
		labels = append(labels, item.Label)
	}
	if !slices.Equal(labels, []string{"alpha", "beta", "gamma"}) || items[2].Position != 2 || items[0].Kind != "note" {
		t.Fatalf("ListItems() = %+v", items)
	}

	renamed, err := catalog.RenameItem(ctx, "c2", "bravo")
	if err != nil || renamed.Label != "bravo" {
		t.Fatalf("RenameItem() = %+v, %v", renamed, err)
	}
	if _, err := catalog.AddItem(ctx, AddItemInput{Label: " "}); !errors.Is(err, domain.ErrInvalidLabel) {
		t.Fatalf("AddItem(blank) error = %v, want ErrInvalidLabel", err)
	}
	if err := catalog.RemoveItem(ctx, "c1"); err != nil {
		t.Fatalf("RemoveItem() error = %v", err)
	}
	if _, err := catalog.GetItem(ctx, "c1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetItem(removed) error = %v, want ErrNotFound", err)
	}
	next, err := catalog.AddItem(ctx, AddItemInput{Label: "delta"})
	if err != nil || next.Position != 3 {
		t.Fatalf("AddItem(delta) = %+v, %v, want position 3", next, err)
	}
}

// TestCatalogQueryMatches verifies each criterion and their conjunction.
func TestCatalogQueryMatches(t *testing.T) {
	item := domain.CatalogItem{ID: "c1", Label: "Quarterly Report", Kind: "doc"}
	cases := []struct {
		q    CatalogQuery
		want bool
	}{
		{q: CatalogQuery{}, want: true},
		{q: CatalogQuery{IDs: []string{"c2", "c1"}}, want: true},
		{q: CatalogQuery{IDs: []string{"c2"}}, want: false},
		{q: CatalogQuery{Kind: "DOC"}, want: true},
		{q: CatalogQuery{LabelContains: "report"}, want: true},
		{q: CatalogQuery{Kind: "doc", LabelContains: "memo"}, want: false},
	}
	for _, tc := range cases {
		if got := tc.q.Matches(item); got != tc.want {
			t.Fatalf("%+v.Matches() = %t, want %t", tc.q, got, tc.want)
		}
	}
	if !(CatalogQuery{}).IsZero() || (CatalogQuery{Kind: "x"}).IsZero() {
		t.Fatal("IsZero() mismatch")
	}
	pred := CatalogQuery{Kind: "doc"}.Predicate()
	if !pred(domain.Item{Value: item}) || pred(domain.Item{Value: "doc"}) {
		t.Fatal("Predicate() mismatch")
	}
}

// TestRegisterCatalogOnGrid verifies catalog items become hit-testable grid cells.
func TestRegisterCatalogOnGrid(t *testing.T) {
	items := []domain.CatalogItem{
		{ID: "c1", Label: "a", Kind: "item"},
		{ID: "c2", Label: "b", Kind: "item"},
		{ID: "c3", Label: "c", Kind: "doc"},
	}
	layout := &GridLayout{Columns: 2, CellWidth: 4, CellHeight: 2, GapX: 1, GapY: 1, Count: len(items)}
	engine := NewEngine(layout, nil, WithInitialMode(domain.ModeDrag))
	ids := RegisterCatalog(engine, items)
	if len(ids) != 3 {
		t.Fatalf("RegisterCatalog() = %v", ids)
	}

	engine.HandlePointerEvent(domain.PointerEvent{Kind: domain.PointerDown, Position: domain.Point{X: 0, Y: 3}})
	engine.HandlePointerEvent(domain.PointerEvent{Kind: domain.PointerMove, Position: domain.Point{X: 1, Y: 4}})
	engine.HandlePointerEvent(domain.PointerEvent{Kind: domain.PointerUp, Position: domain.Point{X: 1, Y: 4}})

	got := CatalogValues(engine.SelectedValues())
	if len(got) != 1 || got[0].ID != "c3" {
		t.Fatalf("selected = %+v, want c3", got)
	}

	engine.SelectWhere(CatalogQuery{IDs: []string{"c1"}}.Predicate())
	if got := CatalogValues(engine.SelectedValues()); len(got) != 2 || got[1].ID != "c1" {
		t.Fatalf("selected = %+v, want c3 then c1", got)
	}
}

// TestGridLayoutGeometry verifies slot placement and container sizing.
func TestGridLayoutGeometry(t *testing.T) {
	g := &GridLayout{Columns: 3, CellWidth: 5, CellHeight: 2, GapX: 2, GapY: 1, Origin: domain.Point{X: 1, Y: 4}, Count: 4}
	if got := g.Slot(4); got != (domain.Rect{Left: 7, Top: 3, Right: 11, Bottom: 4}) {
		t.Fatalf("Slot(4) = %+v", got)
	}
	if g.Rows() != 2 {
		t.Fatalf("Rows() = %d, want 2", g.Rows())
	}
	box, err := g.ContainerBox()
	if err != nil || box != (domain.Rect{Left: 1, Top: 4, Right: 19, Bottom: 8}) {
		t.Fatalf("ContainerBox() = %+v, %v", box, err)
	}
	if got := g.Relative(domain.Point{X: 3, Y: 6}); got != (domain.Point{X: 2, Y: 2}) {
		t.Fatalf("Relative() = %+v", got)
	}
	if got := g.FitColumns(20); got != 3 {
		t.Fatalf("FitColumns(20) = %d, want 3", got)
	}
	if got := g.FitColumns(3); got != 1 {
		t.Fatalf("FitColumns(3) = %d, want 1", got)
	}
	if _, err := g.BoundingBox("x"); !errors.Is(err, domain.ErrUnknownItem) {
		t.Fatalf("BoundingBox(string) error = %v", err)
	}
	if _, err := g.BoundingBox(9); !errors.Is(err, domain.ErrUnknownItem) {
		t.Fatalf("BoundingBox(9) error = %v", err)
	}
}

// TestReloadCatalogKeepsSurvivingSelection verifies reloads resize the grid and
// keep selected entries that still exist.
func TestReloadCatalogKeepsSurvivingSelection(t *testing.T) {
	layout := &GridLayout{Columns: 2, CellWidth: 4, CellHeight: 1}
	engine := NewEngine(layout, nil)
	first := []domain.CatalogItem{{ID: "c1", Label: "a"}, {ID: "c2", Label: "b"}, {ID: "c3", Label: "c"}}
	if ids := ReloadCatalog(engine, layout, first); len(ids) != 3 || layout.Count != 3 {
		t.Fatalf("ReloadCatalog(first) = %v, count %d", ids, layout.Count)
	}
	engine.SelectWhere(CatalogQuery{IDs: []string{"c2", "c3"}}.Predicate())

	second := []domain.CatalogItem{{ID: "c3", Label: "c"}, {ID: "c4", Label: "d"}}
	ids := ReloadCatalog(engine, layout, second)
	if len(ids) != 2 || layout.Count != 2 || len(engine.Items()) != 2 {
		t.Fatalf("ReloadCatalog(second) = %v, count %d, items %d", ids, layout.Count, len(engine.Items()))
	}
	got := CatalogValues(engine.SelectedValues())
	if len(got) != 1 || got[0].ID != "c3" {
		t.Fatalf("selected = %+v, want c3", got)
	}
	if !slices.Equal(engine.SelectedIDs(), []domain.ItemID{ids[0]}) {
		t.Fatalf("SelectedIDs() = %v, want %v", engine.SelectedIDs(), ids[:1])
	}

	ReloadCatalog(engine, nil, nil)
	if len(engine.Items()) != 0 || len(engine.SelectedIDs()) != 0 || layout.Count != 2 {
		t.Fatalf("expected empty engine with untouched layout, items %d count %d", len(engine.Items()), layout.Count)
	}
}

// TestReloadCatalogKeepsSelectionOrder verifies a reload keeps the order items were selected in.
func TestReloadCatalogKeepsSelectionOrder(t *testing.T) {
	layout := &GridLayout{Columns: 3, CellWidth: 4, CellHeight: 1}
	engine := NewEngine(layout, nil)
	items := []domain.CatalogItem{{ID: "a", Label: "a"}, {ID: "b", Label: "b"}, {ID: "c", Label: "c"}}
	ids := ReloadCatalog(engine, layout, items)
	engine.SetSelection(ids[2], ids[0])

	catalogIDs := func() string {
		var out []string
		for _, item := range CatalogValues(engine.SelectedValues()) {
			out = append(out, item.ID)
		}
		return strings.Join(out, ",")
	}
	if got := catalogIDs(); got != "c,a" {
		t.Fatalf("selected before reload = %q, want c,a", got)
	}

	ReloadCatalog(engine, layout, items)
	if got := catalogIDs(); got != "c,a" {
		t.Fatalf("selected after reload = %q, want c,a", got)
	}

	ReloadCatalog(engine, layout, append([]domain.CatalogItem{{ID: "z", Label: "z"}}, items[:2]...))
	if got := catalogIDs(); got != "a" {
		t.Fatalf("selected after dropping c = %q, want a", got)
	}
}
