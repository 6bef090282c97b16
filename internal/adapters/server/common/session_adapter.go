package common

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/evanschultz/lasso/internal/app"
	"github.com/evanschultz/lasso/internal/domain"
)

// SessionAdapter maps transport contracts onto one app.Session and its item catalog.
type SessionAdapter struct {
	session *app.Session
	catalog *app.Catalog
	layout  *app.GridLayout
}

// NewSessionAdapter builds one adapter. layout must be the engine's BoundingBoxProvider;
// it is only touched from the session goroutine.
func NewSessionAdapter(session *app.Session, catalog *app.Catalog, layout *app.GridLayout) *SessionAdapter {
	return &SessionAdapter{session: session, catalog: catalog, layout: layout}
}

// Sync reloads the catalog and re-registers it with the engine, keeping the
// selection of items that survive.
func (a *SessionAdapter) Sync(ctx context.Context) error {
	if a == nil || a.session == nil || a.catalog == nil {
		return fmt.Errorf("session adapter is not configured: %w", ErrUnavailable)
	}
	items, err := a.catalog.ListItems(ctx)
	if err != nil {
		return mapAppError("list catalog", err)
	}
	err = a.session.Do(ctx, func(e *app.Engine) error {
		app.ReloadCatalog(e, a.layout, items)
		return nil
	})
	return mapAppError("sync engine", err)
}

// State returns the current selection snapshot.
func (a *SessionAdapter) State(ctx context.Context) (SelectionState, error) {
	return a.do(ctx, "capture state", func(*app.Engine) error { return nil })
}

// SetMode switches the interaction mode by name.
func (a *SessionAdapter) SetMode(ctx context.Context, mode string) (SelectionState, error) {
	parsed, err := domain.ParseMode(mode)
	if err != nil {
		return SelectionState{}, fmt.Errorf("set mode: %w", errors.Join(ErrInvalidRequest, err))
	}
	return a.do(ctx, "set mode", func(e *app.Engine) error {
		e.SetMode(parsed)
		return nil
	})
}

// SelectAll selects every registered item unless the engine is disabled.
func (a *SessionAdapter) SelectAll(ctx context.Context) (SelectionState, error) {
	return a.do(ctx, "select all", func(e *app.Engine) error {
		e.SelectAll()
		return nil
	})
}

// ClearSelection empties the selection.
func (a *SessionAdapter) ClearSelection(ctx context.Context) (SelectionState, error) {
	return a.do(ctx, "clear selection", func(e *app.Engine) error {
		e.ClearSelection()
		return nil
	})
}

// ApplyQuery changes the selection by catalog criteria.
func (a *SessionAdapter) ApplyQuery(ctx context.Context, in QueryRequest) (SelectionState, error) {
	op := strings.TrimSpace(strings.ToLower(in.Op))
	if op == "" {
		op = QueryOpSelect
	}
	if !slices.Contains(supportedQueryOps, op) {
		return SelectionState{}, fmt.Errorf("unsupported op %q: %w", in.Op, ErrInvalidRequest)
	}
	query := app.CatalogQuery{
		IDs:           trimAll(in.IDs),
		Kind:          strings.TrimSpace(in.Kind),
		LabelContains: strings.TrimSpace(in.LabelContains),
	}
	if query.IsZero() && op != QueryOpReplace {
		return SelectionState{}, fmt.Errorf("query needs ids, kind or label_contains: %w", ErrInvalidRequest)
	}
	pred := query.Predicate()
	return a.do(ctx, op+" by query", func(e *app.Engine) error {
		switch op {
		case QueryOpSelect:
			e.SelectWhere(pred)
		case QueryOpDeselect:
			e.DeselectWhere(pred)
		case QueryOpToggle:
			e.ToggleWhere(pred)
		case QueryOpReplace:
			ids := []domain.ItemID{}
			if !query.IsZero() {
				for _, item := range e.Items() {
					if pred(item) {
						ids = append(ids, item.ID)
					}
				}
			}
			e.SetSelection(ids...)
		}
		return nil
	})
}

// Pointer feeds one pointer occurrence to the engine.
func (a *SessionAdapter) Pointer(ctx context.Context, in PointerRequest) (SelectionState, error) {
	evt, err := pointerEvent(in)
	if err != nil {
		return SelectionState{}, fmt.Errorf("pointer: %w", err)
	}
	target := strings.TrimSpace(in.TargetID)
	return a.do(ctx, "pointer", func(e *app.Engine) error {
		if target != "" {
			id, ok := engineID(e, target)
			if !ok {
				return fmt.Errorf("target %q: %w", target, ErrNotFound)
			}
			evt.Target = id
		}
		e.HandlePointerEvent(evt)
		return nil
	})
}

// Key feeds one key transition to the engine.
func (a *SessionAdapter) Key(ctx context.Context, in KeyRequest) (SelectionState, error) {
	code := strings.TrimSpace(strings.ToLower(in.Code))
	if code == "" {
		return SelectionState{}, fmt.Errorf("key code is required: %w", ErrInvalidRequest)
	}
	evt := domain.KeyEvent{Code: code}
	switch strings.TrimSpace(strings.ToLower(in.Type)) {
	case "", "down", "keydown":
		evt.Type = domain.KeyDown
	case "up", "keyup":
		evt.Type = domain.KeyUp
	default:
		return SelectionState{}, fmt.Errorf("unsupported key type %q: %w", in.Type, ErrInvalidRequest)
	}
	mods, err := parseMods(in.Modifiers)
	if err != nil {
		return SelectionState{}, fmt.Errorf("key: %w", err)
	}
	evt.Mods = mods
	return a.do(ctx, "key", func(e *app.Engine) error {
		e.HandleKeyEvent(evt)
		return nil
	})
}

// ListItems returns every registered item in registration order.
func (a *SessionAdapter) ListItems(ctx context.Context) ([]ItemView, error) {
	if a == nil || a.session == nil {
		return nil, fmt.Errorf("session adapter is not configured: %w", ErrUnavailable)
	}
	var out []ItemView
	err := a.session.Do(ctx, func(e *app.Engine) error {
		items := e.Items()
		out = make([]ItemView, 0, len(items))
		for _, item := range items {
			if view, ok := a.itemView(item); ok {
				out = append(out, view)
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapAppError("list items", err)
	}
	return out, nil
}

// AddItem stores one catalog item and registers it with the engine.
func (a *SessionAdapter) AddItem(ctx context.Context, in AddItemRequest) (ItemView, error) {
	if a == nil || a.catalog == nil {
		return ItemView{}, fmt.Errorf("session adapter is not configured: %w", ErrUnavailable)
	}
	item, err := a.catalog.AddItem(ctx, app.AddItemInput{Label: in.Label, Kind: in.Kind, Notes: in.Notes})
	if err != nil {
		return ItemView{}, mapAppError("add item", err)
	}
	if err := a.Sync(ctx); err != nil {
		return ItemView{}, err
	}
	items, err := a.ListItems(ctx)
	if err != nil {
		return ItemView{}, err
	}
	for _, view := range items {
		if view.ID == item.ID {
			return view, nil
		}
	}
	return ItemView{}, fmt.Errorf("added item %q not registered: %w", item.ID, ErrNotFound)
}

// RemoveItem deletes one catalog item and deregisters it.
func (a *SessionAdapter) RemoveItem(ctx context.Context, id string) error {
	if a == nil || a.catalog == nil {
		return fmt.Errorf("session adapter is not configured: %w", ErrUnavailable)
	}
	if err := a.catalog.RemoveItem(ctx, strings.TrimSpace(id)); err != nil {
		return mapAppError("remove item", err)
	}
	return a.Sync(ctx)
}

// do runs fn on the session and snapshots the engine in the same call.
func (a *SessionAdapter) do(ctx context.Context, op string, fn func(*app.Engine) error) (SelectionState, error) {
	if a == nil || a.session == nil {
		return SelectionState{}, fmt.Errorf("session adapter is not configured: %w", ErrUnavailable)
	}
	var out SelectionState
	err := a.session.Do(ctx, func(e *app.Engine) error {
		if err := fn(e); err != nil {
			return err
		}
		out = a.snapshot(e)
		return nil
	})
	if err != nil {
		return SelectionState{}, mapAppError(op, err)
	}
	return out, nil
}

// snapshot renders the engine's observable state.
func (a *SessionAdapter) snapshot(e *app.Engine) SelectionState {
	out := SelectionState{
		Mode:      e.Mode().String(),
		State:     e.StateString(),
		Selected:  []ItemView{},
		ItemCount: len(e.Items()),
	}
	if mods := e.Modifiers(); mods.Any() {
		out.Modifiers = mods.String()
	}
	if box := e.SelectBox(); box.Visible {
		out.SelectBox = &SelectBoxView{
			Left:    box.Left,
			Top:     box.Top,
			Width:   box.Width,
			Height:  box.Height,
			Corners: box.Corners(),
		}
	}
	for _, item := range e.SelectedItems() {
		if view, ok := a.itemView(item); ok {
			out.Selected = append(out.Selected, view)
		}
	}
	out.SelectedCount = len(out.Selected)
	return out
}

// itemView converts one engine item carrying a catalog value.
func (a *SessionAdapter) itemView(item domain.Item) (ItemView, bool) {
	entry, ok := item.Value.(domain.CatalogItem)
	if !ok {
		return ItemView{}, false
	}
	view := ItemView{
		ID:       entry.ID,
		EngineID: uint64(item.ID),
		Label:    entry.Label,
		Kind:     entry.Kind,
		Notes:    entry.Notes,
		Position: entry.Position,
		Selected: item.Selected,
	}
	if !entry.UpdatedAt.IsZero() {
		updated := entry.UpdatedAt
		view.Updated = &updated
	}
	if a.layout != nil {
		if rect, err := a.layout.BoundingBox(item.Handle); err == nil {
			view.Box = &BoxView{Left: rect.Left, Top: rect.Top, Right: rect.Right, Bottom: rect.Bottom}
		}
	}
	return view, true
}

// engineID finds the engine id registered for a catalog id.
func engineID(e *app.Engine, catalogID string) (domain.ItemID, bool) {
	for _, item := range e.Items() {
		if entry, ok := item.Value.(domain.CatalogItem); ok && entry.ID == catalogID {
			return item.ID, true
		}
	}
	return 0, false
}

// pointerEvent validates and converts one pointer request.
func pointerEvent(in PointerRequest) (domain.PointerEvent, error) {
	evt := domain.PointerEvent{Position: domain.Point{X: in.X, Y: in.Y}}
	switch strings.TrimSpace(strings.ToLower(in.Kind)) {
	case "down":
		evt.Kind = domain.PointerDown
	case "move":
		evt.Kind = domain.PointerMove
	case "up":
		evt.Kind = domain.PointerUp
	case "click":
		evt.Kind = domain.PointerClick
	default:
		return domain.PointerEvent{}, fmt.Errorf("unsupported pointer kind %q: %w", in.Kind, ErrInvalidRequest)
	}
	switch strings.TrimSpace(strings.ToLower(in.Button)) {
	case "", "primary", "left":
		evt.Button = domain.ButtonPrimary
	case "secondary", "right":
		evt.Button = domain.ButtonSecondary
	case "middle":
		evt.Button = domain.ButtonMiddle
	case "none":
		evt.Button = domain.ButtonNone
	default:
		return domain.PointerEvent{}, fmt.Errorf("unsupported button %q: %w", in.Button, ErrInvalidRequest)
	}
	mods, err := parseMods(in.Modifiers)
	if err != nil {
		return domain.PointerEvent{}, err
	}
	evt.Mods = mods
	return evt, nil
}

// parseMods converts modifier names into held-key flags.
func parseMods(tokens []string) (domain.KeyMods, error) {
	var mods domain.KeyMods
	for _, raw := range tokens {
		switch strings.TrimSpace(strings.ToLower(raw)) {
		case "ctrl", "control":
			mods.Ctrl = true
		case "alt", "option":
			mods.Alt = true
		case "shift":
			mods.Shift = true
		case "meta", "cmd", "super":
			mods.Meta = true
		default:
			return domain.KeyMods{}, fmt.Errorf("unsupported modifier %q: %w", raw, ErrInvalidRequest)
		}
	}
	return mods, nil
}

// trimAll trims entries and drops blanks.
func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// mapAppError maps app and domain errors onto transport sentinels.
func mapAppError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrNotFound), errors.Is(err, ErrUnavailable):
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, app.ErrNotFound), errors.Is(err, domain.ErrUnknownItem):
		return fmt.Errorf("%s: %w", op, errors.Join(ErrNotFound, err))
	case errors.Is(err, app.ErrSessionClosed):
		return fmt.Errorf("%s: %w", op, errors.Join(ErrUnavailable, err))
	case errors.Is(err, domain.ErrInvalidLabel),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidValue),
		errors.Is(err, domain.ErrInvalidModeTransition):
		return fmt.Errorf("%s: %w", op, errors.Join(ErrInvalidRequest, err))
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
