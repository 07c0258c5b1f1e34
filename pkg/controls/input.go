package controls

import (
	"reflect"
	"strconv"
)

// Value constrains the values an InputControl can hold
type Value interface {
	~float64 | ~string
}

// InputOptions configures a new InputControl
type InputOptions[T Value] struct {
	Initial  T
	Readonly bool

	// Change is invoked with the new value on every SetValue
	Change func(value T)
}

// InputControl holds a single editable value
type InputControl[T Value] struct {
	base
	value    T
	readonly bool
	change   func(T)
}

// NewInputControl creates an input control from options
func NewInputControl[T Value](opts InputOptions[T]) *InputControl[T] {
	return &InputControl[T]{
		base:     newBase(),
		value:    opts.Initial,
		readonly: opts.Readonly,
		change:   opts.Change,
	}
}

// Kind reports KindNumericInput for numbers and KindTextInput otherwise
func (c *InputControl[T]) Kind() Kind {
	var zero T
	if reflect.TypeOf(zero).Kind() == reflect.Float64 {
		return KindNumericInput
	}
	return KindTextInput
}

// Value returns the current value
func (c *InputControl[T]) Value() T { return c.value }

// Text formats the value for display. Numbers use the shortest
// representation that round-trips.
func (c *InputControl[T]) Text() string {
	rv := reflect.ValueOf(c.value)
	if rv.Kind() == reflect.Float64 {
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	}
	return rv.String()
}

// Readonly reports whether user edits are disabled in views
func (c *InputControl[T]) Readonly() bool { return c.readonly }

// SetValue stores v and invokes the change hook with it.
// No range or type validation is performed.
func (c *InputControl[T]) SetValue(v T) {
	c.value = v
	if c.change != nil {
		c.change(v)
	}
}

// Store writes v without invoking the change hook
func (c *InputControl[T]) Store(v T) {
	c.value = v
}
