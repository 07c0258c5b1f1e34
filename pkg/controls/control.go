// Package controls holds the node controls and the contract that keeps a
// number input and its progress indicator in sync.
package controls

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind identifies the visual variant of a control. Renderers dispatch on
// the kind instead of inspecting concrete types.
type Kind uint8

const (
	// KindTextInput is a free-form text input
	KindTextInput Kind = iota
	// KindNumericInput is a number input
	KindNumericInput
	// KindProgress is a read-only percentage bar
	KindProgress
	// KindButton is a labelled button with an action
	KindButton
)

// String returns a human-readable name for the kind
func (k Kind) String() string {
	switch k {
	case KindTextInput:
		return "text"
	case KindNumericInput:
		return "number"
	case KindProgress:
		return "progress"
	case KindButton:
		return "button"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Control is a named, independently addressable piece of node state
type Control interface {
	ID() string
	Kind() Kind
}

// Target says what kind of element a redraw request addresses
type Target uint8

const (
	TargetControl Target = iota
	TargetNode
)

func (t Target) String() string {
	if t == TargetNode {
		return "node"
	}
	return "control"
}

// Area receives redraw requests. Implementations look the element up by id
// and refresh its view from the current value.
type Area interface {
	Update(target Target, id string)
}

// AreaFunc adapts a function to the Area interface
type AreaFunc func(target Target, id string)

// Update calls f(target, id)
func (f AreaFunc) Update(target Target, id string) { f(target, id) }

// base carries the identity shared by every control
type base struct {
	id string
}

func newBase() base {
	return base{id: uuid.NewString()}
}

// ID returns the control's unique identifier
func (b base) ID() string { return b.id }
