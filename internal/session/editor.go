package session

import (
	"fmt"
	"slices"

	"github.com/aidanlsb/rolo/internal/model"
)

// Editor holds the card on display and the field edits typed since it was
// shown. Edits stay pending until Flush writes them into the card.
type Editor struct {
	card    *model.Card
	pending map[model.Field]string

	// dirty is set when flushed edits have not been saved yet.
	dirty bool

	onEdit func()
}

// NewEditor returns an Editor with no card. onEdit, if not nil, runs after
// every accepted edit.
func NewEditor(onEdit func()) *Editor {
	return &Editor{
		pending: make(map[model.Field]string),
		onEdit:  onEdit,
	}
}

// CurrentRecord implements controller.EditState.
func (e *Editor) CurrentRecord() *model.Card { return e.card }

// IsRecordDataModified implements controller.EditState. A card that was
// never saved counts as modified as soon as any field holds text.
func (e *Editor) IsRecordDataModified() bool {
	if len(e.pending) > 0 || e.dirty {
		return true
	}
	return e.card != nil && e.card.ID == 0 && !e.card.IsBlank()
}

// Show replaces the card on display, discarding pending edits.
func (e *Editor) Show(c *model.Card) {
	e.card = c
	clear(e.pending)
	e.dirty = false
}

// Text returns what field f shows: the pending edit if there is one.
func (e *Editor) Text(f model.Field) string {
	if v, ok := e.pending[f]; ok {
		return v
	}
	if e.card == nil {
		return ""
	}
	return model.Value(e.card, f)
}

// Edit records v as the new text of field f.
func (e *Editor) Edit(f model.Field, v string) error {
	if !f.IsField() {
		return fmt.Errorf("cannot edit %s", f)
	}
	if e.card == nil {
		return fmt.Errorf("no card on display")
	}
	if v == model.Value(e.card, f) {
		delete(e.pending, f)
	} else {
		e.pending[f] = v
	}
	if e.onEdit != nil {
		e.onEdit()
	}
	return nil
}

// Pending returns the fields with unflushed edits, in display order.
func (e *Editor) Pending() []model.Field {
	var fields []model.Field
	for _, f := range model.Fields() {
		if _, ok := e.pending[f]; ok {
			fields = append(fields, f)
		}
	}
	return fields
}

// Flush writes pending edits into the card.
func (e *Editor) Flush() {
	if e.card == nil || len(e.pending) == 0 {
		return
	}
	fields := make([]model.Field, 0, len(e.pending))
	for f := range e.pending {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	for _, f := range fields {
		// Pending edits only ever hold real fields.
		_ = model.SetValue(e.card, f, e.pending[f])
	}
	clear(e.pending)
	e.dirty = true
}

// markSaved clears the dirty flag once c has been written to storage.
func (e *Editor) markSaved(c *model.Card) {
	if c == e.card {
		e.dirty = false
	}
}
