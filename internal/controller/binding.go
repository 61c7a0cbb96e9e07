package controller

// FieldCopier copies one field's value between records.
type FieldCopier[R any] interface {
	CopyValue(from, to R)
}

// Binding reads and writes one field of a record.
type Binding[R any, V any] struct {
	Name string
	Get  func(R) V
	Set  func(R, V)
}

// CopyValue implements FieldCopier.
func (b Binding[R, V]) CopyValue(from, to R) {
	b.Set(to, b.Get(from))
}
