// Package common provides transport-agnostic server contracts used by HTTP and MCP adapters.
package common

import (
	"context"
	"errors"
	"time"
)

// Query operations accepted by selection requests.
const (
	QueryOpSelect   = "select"
	QueryOpDeselect = "deselect"
	QueryOpToggle   = "toggle"
	QueryOpReplace  = "replace"
)

// supportedQueryOps stores every accepted op in canonical order.
var supportedQueryOps = []string{QueryOpSelect, QueryOpDeselect, QueryOpToggle, QueryOpReplace}

// SupportedQueryOps returns every op accepted by ApplyQuery.
func SupportedQueryOps() []string {
	return append([]string(nil), supportedQueryOps...)
}

// supportedPointerKinds stores every accepted pointer kind in canonical order.
var supportedPointerKinds = []string{"down", "move", "up", "click"}

// SupportedPointerKinds returns every pointer kind accepted by Pointer.
func SupportedPointerKinds() []string {
	return append([]string(nil), supportedPointerKinds...)
}

// ErrInvalidRequest reports malformed transport input.
var ErrInvalidRequest = errors.New("invalid request")

// ErrNotFound reports missing transport-visible resources.
var ErrNotFound = errors.New("not found")

// ErrUnavailable reports a closed or unconfigured selection session.
var ErrUnavailable = errors.New("selection session unavailable")

// BoxView is the wire form of a rectangle in container coordinates.
type BoxView struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// ItemView describes one catalog item as registered with the engine.
type ItemView struct {
	ID       string     `json:"id"`
	EngineID uint64     `json:"engine_id"`
	Label    string     `json:"label"`
	Kind     string     `json:"kind"`
	Notes    string     `json:"notes,omitempty"`
	Position int        `json:"position"`
	Selected bool       `json:"selected"`
	Box      *BoxView   `json:"box,omitempty"`
	Updated  *time.Time `json:"updated_at,omitempty"`
}

// SelectBoxView describes the visible rubber-band box.
type SelectBoxView struct {
	Left    int            `json:"left"`
	Top     int            `json:"top"`
	Width   int            `json:"width"`
	Height  int            `json:"height"`
	Corners map[string]int `json:"corners"`
}

// SelectionState is the snapshot returned after every selection call.
type SelectionState struct {
	Mode          string         `json:"mode"`
	State         string         `json:"state"`
	Modifiers     string         `json:"modifiers,omitempty"`
	SelectBox     *SelectBoxView `json:"select_box,omitempty"`
	Selected      []ItemView     `json:"selected"`
	SelectedCount int            `json:"selected_count"`
	ItemCount     int            `json:"item_count"`
}

// QueryRequest selects, deselects, toggles or replaces by catalog criteria.
type QueryRequest struct {
	Op            string   `json:"op"`
	IDs           []string `json:"ids,omitempty"`
	Kind          string   `json:"kind,omitempty"`
	LabelContains string   `json:"label_contains,omitempty"`
}

// PointerRequest carries one pointer occurrence in container coordinates.
type PointerRequest struct {
	Kind      string   `json:"kind"`
	X         int      `json:"x"`
	Y         int      `json:"y"`
	Button    string   `json:"button,omitempty"`
	Modifiers []string `json:"modifiers,omitempty"`
	TargetID  string   `json:"target_id,omitempty"`
}

// KeyRequest carries one key transition, e.g. {"code":"shift","type":"down"}.
type KeyRequest struct {
	Code      string   `json:"code"`
	Type      string   `json:"type,omitempty"`
	Modifiers []string `json:"modifiers,omitempty"`
}

// AddItemRequest captures input for one new catalog item.
type AddItemRequest struct {
	Label string `json:"label"`
	Kind  string `json:"kind,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// SelectionService is the engine surface exposed to transports.
type SelectionService interface {
	State(context.Context) (SelectionState, error)
	SetMode(context.Context, string) (SelectionState, error)
	SelectAll(context.Context) (SelectionState, error)
	ClearSelection(context.Context) (SelectionState, error)
	ApplyQuery(context.Context, QueryRequest) (SelectionState, error)
	Pointer(context.Context, PointerRequest) (SelectionState, error)
	Key(context.Context, KeyRequest) (SelectionState, error)
}

// CatalogService is the item catalog surface exposed to transports.
type CatalogService interface {
	ListItems(context.Context) ([]ItemView, error)
	AddItem(context.Context, AddItemRequest) (ItemView, error)
	RemoveItem(context.Context, string) error
}
