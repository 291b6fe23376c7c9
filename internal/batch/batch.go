// Package batch holds drawables of one category until they are flushed.
package batch

import "github.com/robotcontrol/vispub/pkg/core"

// Batch is an append-only collection of drawables awaiting a single
// publish. Ids run 0..NextID()-1 in insertion order. A Batch is owned by
// one publisher and is not safe for concurrent use.
type Batch struct {
	items  []core.Drawable
	nextID int
}

// New creates an empty batch.
func New() *Batch {
	return &Batch{}
}

// Add stamps d with the next id, appends it and returns the id.
func (b *Batch) Add(d core.Drawable) int {
	d.ID = b.nextID
	b.items = append(b.items, d)
	b.nextID++
	return d.ID
}

// IsEmpty returns true if the batch has no items.
func (b *Batch) IsEmpty() bool {
	return len(b.items) == 0
}

// Len returns the number of items in the batch.
func (b *Batch) Len() int {
	return len(b.items)
}

// NextID returns the id the next Add will assign.
func (b *Batch) NextID() int {
	return b.nextID
}

// Flush moves all items out and resets the batch. The returned slice is
// never reused for later additions.
func (b *Batch) Flush() []core.Drawable {
	result := b.items
	b.items = make([]core.Drawable, 0, cap(result))
	b.nextID = 0
	return result
}
