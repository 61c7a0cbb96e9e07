// Package controller coordinates the record cursor with the persistence
// gateway and the on-screen edit state.
//
// The rule it enforces: the displayed record never changes before an attempt
// has been made to save the record being left. Searches also flush pending
// edits first, because they read from storage and not from the screen.
//
// A Controller runs on a single goroutine. None of its methods may be called
// concurrently.
package controller

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aidanlsb/rolo/internal/cursor"
)

// Config holds the collaborators a Controller needs.
type Config[R comparable, PK comparable, F Field] struct {
	Gateway   Gateway[R, PK, F]
	EditState EditState[R]
	Sink      Sink[R]
	Reporter  ErrorReporter

	// Order is the initial sort field for searches.
	Order F

	// NewBlank constructs an empty record.
	NewBlank func() R

	// IDOf returns a record's identity, 0 when not yet persisted.
	IDOf func(R) int

	// Logger is optional; slog.Default() is used when nil.
	Logger *slog.Logger
}

// Controller mediates between user requests, the edit state, storage and the
// record cursor.
type Controller[R comparable, PK comparable, F Field] struct {
	order    F
	gateway  Gateway[R, PK, F]
	edits    EditState[R]
	sink     Sink[R]
	reporter ErrorReporter
	cursor   *cursor.Cursor[R]
	logger   *slog.Logger
}

// New builds a Controller and registers it with its own cursor.
func New[R comparable, PK comparable, F Field](cfg Config[R, PK, F]) (*Controller[R, PK, F], error) {
	if cfg.Gateway == nil {
		return nil, errors.New("gateway is required")
	}
	if cfg.EditState == nil {
		return nil, errors.New("edit state is required")
	}
	if cfg.Sink == nil {
		return nil, errors.New("sink is required")
	}
	if cfg.NewBlank == nil || cfg.IDOf == nil {
		return nil, errors.New("record constructor and id function are required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reporter := cfg.Reporter
	if reporter == nil {
		reporter = ErrorReporterFunc(func(operation string, err error) {
			logger.Error("operation failed", slog.String("operation", operation), slog.Any("error", err))
		})
	}

	c := &Controller[R, PK, F]{
		order:    cfg.Order,
		gateway:  cfg.Gateway,
		edits:    cfg.EditState,
		sink:     cfg.Sink,
		reporter: reporter,
		cursor:   cursor.New(cfg.NewBlank, cfg.IDOf),
		logger:   logger,
	}
	c.cursor.AddListener(c)
	return c, nil
}

// Cursor returns the controller's record cursor.
func (c *Controller[R, PK, F]) Cursor() *cursor.Cursor[R] { return c.cursor }

// Gateway returns the persistence gateway.
func (c *Controller[R, PK, F]) Gateway() Gateway[R, PK, F] { return c.gateway }

// SpecifyOrder sets the field results are sorted by.
func (c *Controller[R, PK, F]) SpecifyOrder(order F) { c.order = order }

// Order returns the field results are sorted by.
func (c *Controller[R, PK, F]) Order() F { return c.order }

// LoadNewRecord saves the record being edited and then announces record.
func (c *Controller[R, PK, F]) LoadNewRecord(record R) {
	c.SaveCurrentRecord()
	c.sink.RecordSelected(record)
}

// SaveCurrentRecord writes the edited record to storage if it was modified.
// A storage failure is reported, not returned; the cursor keeps its state.
func (c *Controller[R, PK, F]) SaveCurrentRecord() {
	if !c.edits.IsRecordDataModified() {
		return
	}
	c.sink.FlushRequested()
	if err := c.gateway.InsertOrUpdate(c.edits.CurrentRecord()); err != nil {
		c.reporter.Report("Insert", err)
		return
	}
	c.logger.Debug("saved record")
}

// IndexChanged implements cursor.Listener. Moving to another row always
// saves the row being left.
func (c *Controller[R, PK, F]) IndexChanged(index, prior int) {
	c.sink.PositionChanged(index, prior)
	c.LoadNewRecord(c.cursor.Current())
}

// ListChanged implements cursor.Listener.
func (c *Controller[R, PK, F]) ListChanged(size int) {
	c.sink.ListChanged(size)
}

// SetFoundRecords installs search results in the cursor and announces the
// selected record if it is not the one already being edited.
func (c *Controller[R, PK, F]) SetFoundRecords(records []R) {
	c.cursor.SetList(records)
	if c.cursor.Len() > 0 {
		selected := c.cursor.Current()
		if selected != c.edits.CurrentRecord() {
			c.LoadNewRecord(selected)
		}
	}
}

// AddBlankRecord moves to a new blank record. If the cursor already sits on
// an unsaved, unmodified blank at the end of the list, that one is reused.
func (c *Controller[R, PK, F]) AddBlankRecord() {
	lastIndex := c.cursor.Len() - 1
	last := c.cursor.RecordAt(lastIndex)

	if c.cursor.Index() == lastIndex && !c.isPersisted(last) && !c.edits.IsRecordDataModified() {
		c.LoadNewRecord(last)
		return
	}

	blank := c.cursor.NewBlank()
	c.cursor.Append(blank)
	c.LoadNewRecord(blank)
}

func (c *Controller[R, PK, F]) isPersisted(record R) bool {
	pk, ok := c.gateway.PrimaryKey(record)
	if !ok {
		return false
	}
	var zero PK
	return pk != zero
}

// CopyCurrentRecord creates a blank record and copies the given fields into
// it from the record that was current.
func (c *Controller[R, PK, F]) CopyCurrentRecord(fields []FieldCopier[R]) {
	original := c.cursor.RecordAt(c.cursor.Index())
	c.AddBlankRecord()
	copied := c.cursor.Current()
	for _, f := range fields {
		f.CopyValue(original, copied)
	}
	c.sink.RecordSelected(copied)
}

// Delete removes record from storage. Unlike saves and searches, the error is
// returned: the caller must know whether the deletion happened.
func (c *Controller[R, PK, F]) Delete(record R) error {
	if err := c.gateway.Delete(record); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// DeleteCurrentRecord deletes the displayed record from storage (if it was
// ever stored) and from the cursor, then announces the record that takes its
// place. The deleted record is not saved on the way out.
func (c *Controller[R, PK, F]) DeleteCurrentRecord() error {
	index := c.cursor.Index()
	record := c.cursor.Current()
	if c.isPersisted(record) {
		if err := c.Delete(record); err != nil {
			return err
		}
	}

	c.cursor.DeleteAt(index, false)
	if c.cursor.Index() != index {
		c.sink.PositionChanged(c.cursor.Index(), index)
	}
	c.sink.ListChanged(c.cursor.Len())
	c.sink.RecordSelected(c.cursor.Current())
	return nil
}
