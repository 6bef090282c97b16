package domain

import (
	"strconv"
	"sync/atomic"
)

// ItemID is a stable item identity. Zero is never assigned.
type ItemID uint64

// String returns the decimal id.
func (id ItemID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// itemSeq is the process-wide identity counter.
var itemSeq atomic.Uint64

// NextItemID returns the next identity. Ids are monotonic and never reused
// for the lifetime of the process.
func NextItemID() ItemID {
	return ItemID(itemSeq.Add(1))
}

// Handle is an opaque host reference to an item's rendered element.
type Handle any

// Item is a selectable unit as seen by callers.
type Item struct {
	ID       ItemID
	Selected bool
	Handle   Handle
	Value    any
}

// Effect is one per-item selection side effect.
type Effect struct {
	ID       ItemID
	Selected bool
}
