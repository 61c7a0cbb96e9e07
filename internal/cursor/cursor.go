// Package cursor holds the browsable list of retrieved records and the
// position of the record currently on display.
package cursor

import "fmt"

// Listener receives cursor notifications. Notifications are delivered
// synchronously, after the state change they describe. A listener must not
// call back into SetList or the navigation methods.
type Listener interface {
	// IndexChanged reports that the position moved from prior to index.
	IndexChanged(index, prior int)

	// ListChanged reports that the list contents changed. size is the new length.
	ListChanged(size int)
}

// Cursor is an ordered, never-empty list of records with a current position.
//
// A Cursor is not safe for concurrent use.
type Cursor[R any] struct {
	items     []R
	index     int
	newBlank  func() R
	idOf      func(R) int
	listeners []Listener
}

// New creates a cursor holding a single blank record.
// idOf returns a record's identity, with 0 meaning "not yet persisted".
func New[R any](newBlank func() R, idOf func(R) int) *Cursor[R] {
	if newBlank == nil || idOf == nil {
		panic("cursor: newBlank and idOf are required")
	}
	return &Cursor[R]{
		items:    []R{newBlank()},
		newBlank: newBlank,
		idOf:     idOf,
	}
}

// AddListener registers l for notifications.
func (c *Cursor[R]) AddListener(l Listener) {
	c.listeners = append(c.listeners, l)
}

// RemoveListener unregisters l. It is a no-op if l was never added.
func (c *Cursor[R]) RemoveListener(l Listener) {
	for i, existing := range c.listeners {
		if existing == l {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			return
		}
	}
}

// Index returns the current position.
func (c *Cursor[R]) Index() int { return c.index }

// Len returns the number of records, which is always at least one.
func (c *Cursor[R]) Len() int { return len(c.items) }

// NewBlank returns a fresh blank record. It does not add it to the list.
func (c *Cursor[R]) NewBlank() R { return c.newBlank() }

// Records returns a copy of the records in display order.
func (c *Cursor[R]) Records() []R {
	out := make([]R, len(c.items))
	copy(out, c.items)
	return out
}

// RecordAt returns the record at index i. It panics if i is out of range.
func (c *Cursor[R]) RecordAt(i int) R {
	return c.items[i]
}

// Current returns the record at the current position.
func (c *Cursor[R]) Current() R {
	c.checkInvariant()
	return c.items[c.index]
}

// SetList replaces the list with records.
//
// If the previously selected record (by identity) is present in the new list,
// the position follows it. An empty list is replaced by a single blank record.
// ListChanged always fires.
func (c *Cursor[R]) SetList(records []R) {
	priorID := 0
	if c.index < len(c.items) {
		priorID = c.idOf(c.items[c.index])
	}

	c.items = make([]R, len(records), len(records)+1)
	copy(c.items, records)

	// Listeners may read Current() from IndexChanged, so the blank goes in first.
	hasRecords := len(c.items) > 0
	if !hasRecords {
		c.items = append(c.items, c.newBlank())
	}

	if c.index >= len(c.items) {
		c.setIndex(0)
	}

	if hasRecords && priorID != 0 {
		if i, ok := c.IndexOfID(priorID); ok {
			c.setIndex(i)
		}
	}

	c.fireListChanged()
}

// Next moves to the following record, wrapping to the first.
func (c *Cursor[R]) Next() {
	c.checkInvariant()
	next := c.index + 1
	if next >= len(c.items) {
		next = 0
	}
	c.setIndex(next)
}

// Previous moves to the preceding record, wrapping to the last.
func (c *Cursor[R]) Previous() {
	c.checkInvariant()
	prev := c.index - 1
	if prev < 0 {
		prev = len(c.items) - 1
	}
	c.setIndex(prev)
}

// First moves to the first record.
func (c *Cursor[R]) First() {
	c.checkInvariant()
	c.setIndex(0)
}

// Last moves to the last record.
func (c *Cursor[R]) Last() {
	c.checkInvariant()
	c.setIndex(len(c.items) - 1)
}

// MoveTo moves to index i. It panics if i is out of range.
func (c *Cursor[R]) MoveTo(i int) {
	if i < 0 || i >= len(c.items) {
		panic(fmt.Sprintf("cursor: cannot move to %d in list of %d records", i, len(c.items)))
	}
	c.setIndex(i)
}

// Append adds r to the end of the list and moves to it.
func (c *Cursor[R]) Append(r R) {
	newIndex := len(c.items)
	c.items = append(c.items, r)
	c.setIndex(newIndex)
	c.fireListChanged()
}

// DeleteAt removes the record at index from the list only. A negative index is
// ignored. If the list becomes empty a blank record takes its place. When
// notify is set, listeners hear about the position change (if the position had
// to move) and the list change.
func (c *Cursor[R]) DeleteAt(index int, notify bool) {
	if index < 0 {
		return
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
	if len(c.items) == 0 {
		c.items = append(c.items, c.newBlank())
	}
	if c.index >= len(c.items) {
		prior := c.index
		c.index--
		if c.index < 0 {
			panic(fmt.Sprintf("cursor: position went negative after deleting index %d", index))
		}
		if notify {
			c.fireIndexChanged(c.index, prior)
		}
	}
	if notify {
		c.fireListChanged()
	}
}

// IndexOfID returns the index of the first record whose identity is id.
func (c *Cursor[R]) IndexOfID(id int) (int, bool) {
	for i, r := range c.items {
		if c.idOf(r) == id {
			return i, true
		}
	}
	return -1, false
}

func (c *Cursor[R]) setIndex(i int) {
	if i == c.index {
		return
	}
	prior := c.index
	c.index = i
	c.fireIndexChanged(i, prior)
}

func (c *Cursor[R]) fireIndexChanged(index, prior int) {
	for _, l := range c.listeners {
		l.IndexChanged(index, prior)
	}
}

func (c *Cursor[R]) fireListChanged() {
	size := len(c.items)
	for _, l := range c.listeners {
		l.ListChanged(size)
	}
}

func (c *Cursor[R]) checkInvariant() {
	if len(c.items) == 0 || c.index < 0 || c.index >= len(c.items) {
		panic(fmt.Sprintf("cursor: position %d outside list of %d records", c.index, len(c.items)))
	}
}
