package core

import (
	"time"

	"github.com/google/uuid"
)

// LineItemList owns the ordered collection of line-item drafts. Items are
// stored in an arena map keyed by opaque identifier with a separate ordered
// key list, so identity survives removal and reordering — array-index
// identity would shift under deletion.
//
// The list is not safe for concurrent use; the draft session serializes
// access at the adapter boundary.
type LineItemList struct {
	requireProof bool
	items        map[string]*LineItem
	order        []string
}

// NewLineItemList creates a collection for a draft. When the draft does not
// require proof files, the collection is auto-seeded with one placeholder
// item so the user always has a row to type into.
func NewLineItemList(requireProof bool) *LineItemList {
	l := &LineItemList{
		requireProof: requireProof,
		items:        make(map[string]*LineItem),
	}
	l.seed()
	return l
}

// seed appends exactly one empty item, but only when the collection is empty
// and proof is not required. An empty collection with proof required is a
// valid (if incomplete) state: the UI shows an upload prompt instead.
func (l *LineItemList) seed() {
	if len(l.order) == 0 && !l.requireProof {
		l.Append(LineItem{})
	}
}

// Append adds a line item with a freshly generated unique key and returns the
// key so the caller can focus the new row. IncurredAt defaults to the current
// date when not provided.
func (l *LineItemList) Append(partial LineItem) string {
	partial.Key = uuid.NewString()
	if partial.IncurredAt == "" {
		partial.IncurredAt = time.Now().Format(DateLayout)
	}
	l.items[partial.Key] = &partial
	l.order = append(l.order, partial.Key)
	return partial.Key
}

// Remove deletes the item with the given key. Unknown keys are a no-op, so
// removal is idempotent. After removal the seed rule re-fires: an emptied
// collection regains its single placeholder unless proof is required.
func (l *LineItemList) Remove(key string) {
	if _, ok := l.items[key]; !ok {
		return
	}
	delete(l.items, key)
	for i, k := range l.order {
		if k == key {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	l.seed()
}

// Get returns the item for key, or false when absent. The returned pointer
// is live; callers mutate it through the controller only.
func (l *LineItemList) Get(key string) (*LineItem, bool) {
	item, ok := l.items[key]
	return item, ok
}

// Len returns the number of items in the collection.
func (l *LineItemList) Len() int {
	return len(l.order)
}

// Keys returns the item keys in display order.
func (l *LineItemList) Keys() []string {
	keys := make([]string, len(l.order))
	copy(keys, l.order)
	return keys
}

// Items returns an ordered snapshot of the collection.
func (l *LineItemList) Items() []LineItem {
	out := make([]LineItem, 0, len(l.order))
	for _, k := range l.order {
		out = append(out, *l.items[k])
	}
	return out
}

// TotalMinorUnits sums the amounts across all items as a pure fold over the
// current snapshot: editing one item never forces sibling recomputation.
func (l *LineItemList) TotalMinorUnits() int64 {
	var total int64
	for _, item := range l.items {
		total += item.AmountMinorUnits
	}
	return total
}

// SetRequireProof updates the proof requirement, re-running the seed rule.
// Existing items are never destroyed by a requirement change; seeding only
// fires on an empty collection.
func (l *LineItemList) SetRequireProof(required bool) {
	l.requireProof = required
	l.seed()
}

// RequireProof reports whether items need an uploaded proof reference.
func (l *LineItemList) RequireProof() bool {
	return l.requireProof
}
