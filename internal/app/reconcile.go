package app

import "github.com/evanschultz/lasso/internal/domain"

// Options tune selection policy.
type Options struct {
	// SelectOnDrag applies hits while the pointer is still moving. When false
	// only the final hit set of a drag counts.
	SelectOnDrag bool
	// SelectWithShortcut gates every gesture on a held shortcut modifier.
	SelectWithShortcut bool
}

// DefaultOptions returns the default selection policy.
func DefaultOptions() Options {
	return Options{SelectOnDrag: true}
}

// ReconcileInput is everything one reconciliation tick reads.
type ReconcileInput struct {
	// Baseline is the selection the gesture started from.
	Baseline []domain.ItemID
	// Current is the selection as it stands now; effects are diffed against it.
	Current   []domain.ItemID
	Hits      []domain.ItemID
	Modifiers domain.SelectionModifier
	Mode      domain.InteractionMode
	Gesture   domain.GestureState
	Options   Options
	// Live reports whether an id is still registered. Nil treats every id as live.
	Live func(domain.ItemID) bool
}

// ReconcileResult is the computed next selection and its effects.
type ReconcileResult struct {
	Next       []domain.ItemID
	Selected   []domain.ItemID
	Deselected []domain.ItemID
	Pruned     []domain.ItemID
	Gated      bool
}

// Changed reports whether membership changed.
func (r ReconcileResult) Changed() bool {
	return len(r.Selected) > 0 || len(r.Deselected) > 0 || len(r.Pruned) > 0
}

// Reconcile computes the next selection for one tick.
func Reconcile(in ReconcileInput) ReconcileResult {
	live := in.Live
	if live == nil {
		live = func(domain.ItemID) bool { return true }
	}
	if in.Gesture != domain.GestureForced && gated(in) {
		return diff(in.Current, in.Current, live, true)
	}

	var target []domain.ItemID
	switch {
	case in.Gesture == domain.GestureForced:
		target = in.Hits
	case in.Modifiers.ToggleSingle || in.Mode == domain.ModeSelect || in.Mode == domain.ModeShortcut:
		target = toggle(in.Baseline, in.Hits)
	case in.Modifiers.Add || in.Modifiers.Extend:
		target = union(in.Baseline, in.Hits)
	case in.Modifiers.Remove:
		target = subtract(in.Baseline, in.Hits)
	default:
		target = in.Hits
	}
	res := diff(in.Current, target, live, false)
	if in.Gesture == domain.GestureForced {
		res.Next = liveOrder(target, live)
	}
	return res
}

// liveOrder returns the live ids of target in target order.
func liveOrder(target []domain.ItemID, live func(domain.ItemID) bool) []domain.ItemID {
	out := make([]domain.ItemID, 0, len(target))
	for _, id := range dedupe(target) {
		if live(id) {
			out = append(out, id)
		}
	}
	return out
}

// gated applies the policy steps that leave the selection untouched.
func gated(in ReconcileInput) bool {
	if in.Mode == domain.ModeDisabled || in.Modifiers.Disable {
		return true
	}
	if (in.Options.SelectWithShortcut || in.Mode == domain.ModeShortcut) && !in.Modifiers.AllowsShortcutSelection() {
		return true
	}
	if !in.Options.SelectOnDrag && in.Gesture == domain.GestureInProgress {
		return true
	}
	if in.Mode == domain.ModeSelect && in.Gesture == domain.GestureInProgress {
		return true
	}
	return false
}

// toggle flips membership of every hit.
func toggle(base, hits []domain.ItemID) []domain.ItemID {
	members := idSet(base)
	out := append([]domain.ItemID(nil), base...)
	for _, id := range dedupe(hits) {
		if _, ok := members[id]; ok {
			delete(members, id)
			continue
		}
		members[id] = struct{}{}
		out = append(out, id)
	}
	return keep(out, members)
}

// union appends hits missing from base.
func union(base, hits []domain.ItemID) []domain.ItemID {
	members := idSet(base)
	out := append([]domain.ItemID(nil), base...)
	for _, id := range hits {
		if _, ok := members[id]; ok {
			continue
		}
		members[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// subtract drops hits from base.
func subtract(base, hits []domain.ItemID) []domain.ItemID {
	drop := idSet(hits)
	out := make([]domain.ItemID, 0, len(base))
	for _, id := range base {
		if _, ok := drop[id]; ok {
			continue
		}
		out = append(out, id)
	}
	return out
}

// diff turns a target membership into an ordered next set and exhaustive
// effects relative to current. Ids kept from current keep their position;
// new ids follow in target order. Dead ids are pruned without an effect.
// Forced calls replace the order afterwards: their target is the whole set.
func diff(current, target []domain.ItemID, live func(domain.ItemID) bool, gated bool) ReconcileResult {
	res := ReconcileResult{Gated: gated}
	want := map[domain.ItemID]struct{}{}
	for _, id := range target {
		if live(id) {
			want[id] = struct{}{}
		}
	}
	had := map[domain.ItemID]struct{}{}
	for _, id := range current {
		had[id] = struct{}{}
		if !live(id) {
			res.Pruned = append(res.Pruned, id)
			continue
		}
		if _, ok := want[id]; ok {
			res.Next = append(res.Next, id)
			continue
		}
		res.Deselected = append(res.Deselected, id)
	}
	for _, id := range dedupe(target) {
		if _, ok := want[id]; !ok {
			continue
		}
		if _, ok := had[id]; ok {
			continue
		}
		res.Next = append(res.Next, id)
		res.Selected = append(res.Selected, id)
	}
	return res
}

// idSet indexes ids.
func idSet(in []domain.ItemID) map[domain.ItemID]struct{} {
	out := make(map[domain.ItemID]struct{}, len(in))
	for _, id := range in {
		out[id] = struct{}{}
	}
	return out
}

// keep filters in to members, preserving order.
func keep(in []domain.ItemID, members map[domain.ItemID]struct{}) []domain.ItemID {
	out := make([]domain.ItemID, 0, len(members))
	for _, id := range in {
		if _, ok := members[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// dedupe drops repeated ids, keeping first occurrences.
func dedupe(in []domain.ItemID) []domain.ItemID {
	seen := make(map[domain.ItemID]struct{}, len(in))
	out := make([]domain.ItemID, 0, len(in))
	for _, id := range in {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
