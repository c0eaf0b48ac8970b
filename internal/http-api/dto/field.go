package dto

// Field is a tri-state optional value used for partial writes:
//
//	Present == false            field was not submitted, leave as is
//	Present && Value == nil     field was submitted empty, clear it
//	Present && Value != nil     field was submitted with a value
type Field[T any] struct {
	Present bool
	Value   *T
}

// Set returns a present field holding v.
func Set[T any](v T) Field[T] {
	return Field[T]{Present: true, Value: &v}
}

// Null returns a present, explicitly empty field.
func Null[T any]() Field[T] {
	return Field[T]{Present: true}
}

// Get returns the value and whether one is held.
func (f Field[T]) Get() (T, bool) {
	if f.Value == nil {
		var zero T
		return zero, false
	}
	return *f.Value, true
}

// IsNull reports a present field without a value.
func (f Field[T]) IsNull() bool {
	return f.Present && f.Value == nil
}

// Or returns the held value or def.
func (f Field[T]) Or(def T) T {
	if v, ok := f.Get(); ok {
		return v
	}
	return def
}

// FieldOf builds a present field from a nullable pointer, copying the value.
func FieldOf[T any](p *T) Field[T] {
	if p == nil {
		return Null[T]()
	}
	return Set(*p)
}

// Overlay returns f when present, otherwise base.
func Overlay[T any](base, f Field[T]) Field[T] {
	if f.Present {
		return f
	}
	return base
}
