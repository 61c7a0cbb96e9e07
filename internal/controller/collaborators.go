package controller

import "fmt"

// Field names a searchable, sortable record field. IsField reports false for
// the pseudo-field meaning "any field".
type Field interface {
	comparable
	fmt.Stringer
	IsField() bool
}

// Gateway is the persistence layer the controller saves to and searches.
// Every method may fail with a storage error.
type Gateway[R any, PK comparable, F Field] interface {
	InsertOrUpdate(record R) error
	Delete(record R) error

	// PrimaryKey returns the record's key, or false if it has none yet.
	PrimaryKey(record R) (PK, bool)

	All(order F) ([]R, error)
	Find(text string, order F) ([]R, error)
	FindAll(order F, terms ...string) ([]R, error)
	FindAny(order F, terms ...string) ([]R, error)
	FindInField(text string, field F, order F) ([]R, error)
	FindAllInField(field F, order F, terms ...string) ([]R, error)
	FindAnyInField(field F, order F, terms ...string) ([]R, error)
}

// EditState exposes the record currently being edited on screen.
type EditState[R any] interface {
	IsRecordDataModified() bool
	CurrentRecord() R
}

// Sink receives the notifications the controller produces for the
// presentation layer. Calls are synchronous.
type Sink[R any] interface {
	// PositionChanged reports a cursor move from prior to index.
	PositionChanged(index, prior int)

	// ListChanged reports new list contents of the given size.
	ListChanged(size int)

	// RecordSelected announces the record that should now be displayed.
	RecordSelected(record R)

	// FlushRequested asks the presentation layer to write on-screen edits
	// back into the current record before it is saved. It must finish the
	// flush before returning.
	FlushRequested()
}

// ErrorReporter shows a failed operation to the user. Report must not panic.
type ErrorReporter interface {
	Report(operation string, err error)
}

// ErrorReporterFunc adapts a function to ErrorReporter.
type ErrorReporterFunc func(operation string, err error)

// Report calls f(operation, err).
func (f ErrorReporterFunc) Report(operation string, err error) { f(operation, err) }
