package app

import (
	"github.com/evanschultz/lasso/internal/domain"
)

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger routes engine diagnostics to logger.
func WithLogger(logger Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithOptions sets the selection policy.
func WithOptions(opts Options) EngineOption {
	return func(e *Engine) {
		e.options = opts
	}
}

// WithInitialMode starts the engine in mode instead of Click.
func WithInitialMode(mode domain.InteractionMode) EngineOption {
	return func(e *Engine) {
		e.initialMode = mode
	}
}

// WithNativeSelectionClearer installs the hook run when a drag starts so the
// host can drop any text selection of its own.
func WithNativeSelectionClearer(fn func()) EngineOption {
	return func(e *Engine) {
		e.clearNative = fn
	}
}

// dragCoords holds the raw corners of the active drag.
type dragCoords struct {
	x1, y1, x2, y2 int
}

// actionContext carries the values one transition's actions read.
type actionContext struct {
	drag      domain.DragState
	modifiers domain.SelectionModifier
	target    domain.ItemID
	ids       []domain.ItemID
}

// subscription is one registered callback.
type subscription[T any] struct {
	id int
	fn func(T)
}

// subscribers is an ordered callback list.
type subscribers[T any] struct {
	next int
	subs []subscription[T]
}

// add registers fn and returns its unsubscribe func.
func (s *subscribers[T]) add(fn func(T)) func() {
	s.next++
	id := s.next
	s.subs = append(s.subs, subscription[T]{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// emit calls every subscriber in registration order.
func (s *subscribers[T]) emit(v T) {
	for _, sub := range append([]subscription[T](nil), s.subs...) {
		sub.fn(v)
	}
}

// Engine is the synchronous selection dispatch core.
//
// Every public method runs on the caller's goroutine and completes one full
// tick (modifiers, hit test, reconcile, effects, notification) before
// returning. Calls made from inside a subscriber are queued and run after the
// current tick. Engine is not safe for concurrent use; see Session.
type Engine struct {
	logger      Logger
	options     Options
	initialMode domain.InteractionMode
	clearNative func()

	registry   *Registry
	cache      *BoundingBoxCache
	hits       *HitTester
	normalizer *Normalizer
	machine    *Machine
	selection  *SelectionSet

	baseline  []domain.ItemID
	coords    dragCoords
	dragRect  domain.Rect
	dragMoved bool
	box       domain.SelectBox
	evaluated bool

	onChanged subscribers[[]any]
	onBox     subscribers[domain.SelectBox]
	onEffect  subscribers[domain.Effect]

	dispatching bool
	queue       []func()
	destroyed   bool
}

// NewEngine constructs an engine over the host's geometry and shortcut collaborators.
func NewEngine(provider BoundingBoxProvider, mapper ModifierMapper, opts ...EngineOption) *Engine {
	e := &Engine{
		logger:    nopLogger{},
		options:   DefaultOptions(),
		registry:  NewRegistry(),
		machine:   NewMachine(),
		selection: NewSelectionSet(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	e.cache = NewBoundingBoxCache(provider, e.logger)
	e.hits = NewHitTester(e.cache, e.logger)
	e.normalizer = NewNormalizer(mapper)
	if e.initialMode != domain.ModeClick {
		if evt, ok := ModeCommand(e.initialMode); ok {
			e.machine.Send(evt, GuardContext{})
		}
	}
	return e
}

// Register adds an item and returns its identity.
func (e *Engine) Register(handle domain.Handle, value any) domain.ItemID {
	return e.registry.Register(handle, value)
}

// Deregister removes an item. A selected id is pruned on the next reconciliation.
func (e *Engine) Deregister(id domain.ItemID) bool {
	e.cache.Forget(id)
	return e.registry.Deregister(id)
}

// Items returns live items in registration order.
func (e *Engine) Items() []domain.Item {
	return e.registry.Items()
}

// Item returns one live item.
func (e *Engine) Item(id domain.ItemID) (domain.Item, bool) {
	return e.registry.Get(id)
}

// OnSelectionChanged subscribes to materialized selection values.
func (e *Engine) OnSelectionChanged(fn func(values []any)) func() {
	return e.onChanged.add(fn)
}

// OnSelectBoxChanged subscribes to render rectangle updates.
func (e *Engine) OnSelectBoxChanged(fn func(domain.SelectBox)) func() {
	return e.onBox.add(fn)
}

// OnItemEffect subscribes to per-item select/deselect effects.
func (e *Engine) OnItemEffect(fn func(domain.Effect)) func() {
	return e.onEffect.add(fn)
}

// Mode returns the active interaction mode.
func (e *Engine) Mode() domain.InteractionMode {
	return e.machine.State().Mode
}

// State returns the full machine state.
func (e *Engine) State() MachineState {
	return e.machine.State()
}

// StateString renders the machine state for status displays, e.g. "drag.dragging".
func (e *Engine) StateString() string {
	return e.machine.State().String()
}

// Options returns the selection policy.
func (e *Engine) Options() Options {
	return e.options
}

// Modifiers returns the flags derived from held keys.
func (e *Engine) Modifiers() domain.SelectionModifier {
	return e.normalizer.Modifiers()
}

// SelectBox returns the current render rectangle.
func (e *Engine) SelectBox() domain.SelectBox {
	return e.box
}

// SelectedIDs returns the selection in insertion order.
func (e *Engine) SelectedIDs() []domain.ItemID {
	return e.selection.IDs()
}

// SelectedItems returns live selected items in insertion order.
func (e *Engine) SelectedItems() []domain.Item {
	out := make([]domain.Item, 0, e.selection.Len())
	for _, id := range e.selection.IDs() {
		if item, ok := e.registry.Get(id); ok {
			out = append(out, item)
		}
	}
	return out
}

// SelectedValues returns the values of live selected items in insertion order.
func (e *Engine) SelectedValues() []any {
	items := e.SelectedItems()
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, item.Value)
	}
	return out
}

// ContainerBox returns the cached container geometry.
func (e *Engine) ContainerBox() (domain.Rect, error) {
	return e.cache.Container()
}

// InvalidateBoundingBoxes marks every cached box stale. Call it on resize or scroll.
func (e *Engine) InvalidateBoundingBoxes() {
	e.cache.Invalidate()
}

// RecomputeBoundingBoxes eagerly refreshes every stale box.
func (e *Engine) RecomputeBoundingBoxes() {
	for _, item := range e.registry.Items() {
		if _, err := e.cache.Box(item); err != nil {
			e.logger.Warn("bounding box recompute failed", "item_id", item.ID, "err", err)
		}
	}
}

// SetMode switches the interaction mode. An in-progress drag is cancelled.
func (e *Engine) SetMode(mode domain.InteractionMode) {
	e.run(func() {
		evt, ok := ModeCommand(mode)
		if !ok {
			e.logger.Warn("mode switch rejected", "mode", mode, "err", domain.ErrInvalidModeTransition)
			return
		}
		e.send(evt, &actionContext{})
	})
}

// SetModeByName switches mode by name. Unknown names leave the mode unchanged
// and return an error wrapping domain.ErrInvalidModeTransition.
func (e *Engine) SetModeByName(name string) error {
	mode, err := domain.ParseMode(name)
	if err != nil {
		e.logger.Warn("mode switch rejected", "mode", name, "err", err)
		return err
	}
	e.SetMode(mode)
	return nil
}

// HandleKeyEvent folds one key transition into the modifier state.
func (e *Engine) HandleKeyEvent(evt domain.KeyEvent) {
	e.run(func() {
		mods, changed := e.normalizer.Key(evt)
		if changed {
			e.logger.Debug("selection modifiers changed", "modifiers", mods.String(), "key", evt.String(), "type", evt.Type)
		}
	})
}

// HandlePointerEvent processes one pointer occurrence.
func (e *Engine) HandlePointerEvent(evt domain.PointerEvent) {
	e.run(func() {
		e.handlePointer(evt)
	})
}

// SelectAll selects every registered item in registration order. It is a
// no-op in Disabled mode.
func (e *Engine) SelectAll() {
	e.run(func() {
		if e.Mode() == domain.ModeDisabled {
			e.logger.Debug("select all ignored while disabled")
			e.coldStart()
			return
		}
		e.send(EventSelectItems, &actionContext{ids: e.registry.IDs()})
	})
}

// ClearSelection deselects every item.
func (e *Engine) ClearSelection() {
	e.run(func() {
		e.send(EventClearAll, &actionContext{})
	})
}

// SetSelection replaces the selection with ids.
func (e *Engine) SetSelection(ids ...domain.ItemID) {
	e.run(func() {
		e.send(EventSelectItems, &actionContext{ids: ids})
	})
}

// SelectWhere adds every item matching pred.
func (e *Engine) SelectWhere(pred func(domain.Item) bool) {
	e.run(func() {
		e.send(EventSelectItems, &actionContext{ids: union(e.selection.IDs(), e.matching(pred))})
	})
}

// DeselectWhere removes every item matching pred.
func (e *Engine) DeselectWhere(pred func(domain.Item) bool) {
	e.run(func() {
		e.send(EventSelectItems, &actionContext{ids: subtract(e.selection.IDs(), e.matching(pred))})
	})
}

// ToggleWhere flips every item matching pred.
func (e *Engine) ToggleWhere(pred func(domain.Item) bool) {
	e.run(func() {
		e.send(EventSelectItems, &actionContext{ids: toggle(e.selection.IDs(), e.matching(pred))})
	})
}

// Destroy cancels any drag, drops subscribers and turns later calls into no-ops.
func (e *Engine) Destroy() {
	e.run(func() {
		if e.machine.State() == stateDragDragging {
			ctx := &actionContext{}
			e.exec(ActionCancelDrag, ctx)
			e.exec(ActionDrawSelectBox, ctx)
			e.machine.state = stateDragIdle
		}
		e.destroyed = true
		e.queue = nil
		e.onChanged = subscribers[[]any]{}
		e.onBox = subscribers[domain.SelectBox]{}
		e.onEffect = subscribers[domain.Effect]{}
	})
}

// Destroyed reports whether Destroy ran.
func (e *Engine) Destroyed() bool {
	return e.destroyed
}

// matching returns ids of live items satisfying pred.
func (e *Engine) matching(pred func(domain.Item) bool) []domain.ItemID {
	if pred == nil {
		return nil
	}
	var out []domain.ItemID
	for _, item := range e.registry.Items() {
		if pred(item) {
			out = append(out, item.ID)
		}
	}
	return out
}

// run executes fn as one tick, or queues it when called re-entrantly.
func (e *Engine) run(fn func()) {
	if e.destroyed {
		return
	}
	if e.dispatching {
		e.queue = append(e.queue, fn)
		return
	}
	e.dispatching = true
	defer func() {
		e.dispatching = false
	}()
	fn()
	for len(e.queue) > 0 && !e.destroyed {
		next := e.queue[0]
		e.queue = e.queue[1:]
		next()
	}
	e.queue = nil
}

// handlePointer routes one pointer occurrence through the normalizer and machine.
func (e *Engine) handlePointer(evt domain.PointerEvent) {
	ctx := &actionContext{modifiers: e.normalizer.PointerModifiers(evt.Mods)}
	state := e.machine.State()

	if evt.Kind == domain.PointerClick {
		if evt.Button != domain.ButtonPrimary {
			return
		}
		ctx.target = evt.Target
		if ctx.target == 0 {
			item, ok := e.hits.ItemAt(evt.Position, e.registry.Items())
			if !ok {
				return
			}
			ctx.target = item.ID
		}
		e.send(EventClick, ctx)
		return
	}

	var machineEvt EventType
	switch evt.Kind {
	case domain.PointerDown:
		machineEvt = EventPointerDown
	case domain.PointerMove:
		machineEvt = EventPointerMove
	case domain.PointerUp:
		machineEvt = EventPointerUp
	default:
		return
	}
	if _, ok := e.machine.Resolve(state, machineEvt, GuardContext{Modifiers: ctx.modifiers}); !ok {
		return
	}
	drag, ok := e.normalizer.Pointer(evt)
	if !ok {
		return
	}
	ctx.drag = drag
	e.send(machineEvt, ctx)
}

// send feeds evt to the machine and runs the resulting actions in order.
func (e *Engine) send(evt EventType, ctx *actionContext) {
	step, ok := e.machine.Send(evt, GuardContext{Modifiers: ctx.modifiers})
	if !ok {
		return
	}
	if step.Changed() {
		e.logger.Debug("interaction state changed", "from", step.From, "to", step.To, "event", evt)
	}
	for _, action := range step.Actions {
		e.exec(action, ctx)
	}
}

// exec runs one named action.
func (e *Engine) exec(action Action, ctx *actionContext) {
	switch action {
	case ActionClearNativeSelection:
		if e.clearNative != nil {
			e.clearNative()
		}
	case ActionStartDrag:
		origin := ctx.drag.Origin
		e.coords = dragCoords{x1: origin.X, y1: origin.Y, x2: origin.X, y2: origin.Y}
		e.dragRect = domain.RectFromPoints(origin, origin)
		e.dragMoved = false
		e.baseline = e.selection.IDs()
	case ActionDrag:
		e.coords.x2, e.coords.y2 = ctx.drag.Current.X, ctx.drag.Current.Y
		e.dragRect = domain.RectFromPoints(ctx.drag.Origin, ctx.drag.Current)
		e.dragMoved = true
	case ActionDrawSelectBox:
		box := BuildSelectBox(ctx.drag)
		if box == e.box {
			return
		}
		e.box = box
		e.onBox.emit(box)
	case ActionUpdateSelectedItems:
		gesture := domain.GestureInProgress
		if ctx.drag.Phase == domain.DragPhaseEnd {
			if !e.dragMoved {
				return
			}
			gesture = domain.GestureEnded
		}
		hit, _ := e.hits.Partition(e.dragRect, e.registry.Items())
		e.reconcile(e.baseline, ids(hit), ctx.modifiers, gesture)
	case ActionResetDrag, ActionCancelDrag:
		if action == ActionCancelDrag {
			e.normalizer.Cancel()
			ctx.drag = domain.DragEnd()
		}
		e.coords = dragCoords{}
		e.dragRect = domain.Rect{}
		e.dragMoved = false
		e.baseline = nil
	case ActionClickItem, ActionClickItemAppend:
		if !e.registry.Has(ctx.target) {
			return
		}
		current := e.selection.IDs()
		e.reconcile(current, []domain.ItemID{ctx.target}, ctx.modifiers, domain.GestureEnded)
	case ActionSelectItems:
		e.reconcile(nil, ctx.ids, ctx.modifiers, domain.GestureForced)
	case ActionClearAll:
		e.reconcile(nil, nil, ctx.modifiers, domain.GestureForced)
	}
}

// reconcile computes and applies one tick's selection change.
func (e *Engine) reconcile(baseline, hits []domain.ItemID, mods domain.SelectionModifier, gesture domain.GestureState) {
	res := Reconcile(ReconcileInput{
		Baseline:  baseline,
		Current:   e.selection.IDs(),
		Hits:      hits,
		Modifiers: mods,
		Mode:      e.Mode(),
		Gesture:   gesture,
		Options:   e.options,
		Live:      e.registry.Has,
	})
	e.apply(res, gesture)
}

// apply commits a reconciliation result, then emits effects and at most one
// change notification.
func (e *Engine) apply(res ReconcileResult, gesture domain.GestureState) {
	for _, id := range res.Pruned {
		e.logger.Debug("pruned selection entry", "item_id", id, "err", domain.ErrOrphanedItem)
	}
	effects := make([]domain.Effect, 0, len(res.Deselected)+len(res.Selected))
	for _, id := range res.Deselected {
		e.registry.setSelected(id, false)
		effects = append(effects, domain.Effect{ID: id, Selected: false})
	}
	for _, id := range res.Selected {
		e.registry.setSelected(id, true)
		effects = append(effects, domain.Effect{ID: id, Selected: true})
	}
	e.selection = NewSelectionSet(res.Next...)

	first := !e.evaluated
	e.evaluated = true
	for _, effect := range effects {
		e.onEffect.emit(effect)
	}
	if res.Changed() || first {
		if res.Changed() {
			e.logger.Debug("selection changed", "gesture", gesture, "selected", len(res.Selected), "deselected", len(res.Deselected), "size", e.selection.Len())
		}
		e.onChanged.emit(e.SelectedValues())
	}
}

// coldStart emits the first-evaluation notification when nothing else will.
func (e *Engine) coldStart() {
	if e.evaluated {
		return
	}
	e.evaluated = true
	e.onChanged.emit(e.SelectedValues())
}
