// Package builder provides a fluent API for constructing vdom trees.
package builder

import (
	"strings"

	"github.com/recera/nodeditor/pkg/vdom"
)

// ElementBuilder accumulates props and children for one element
type ElementBuilder struct {
	tag      string
	props    vdom.Props
	children []*vdom.VNode
	classes  []string
}

// El starts an element with an arbitrary tag
func El(tag string) *ElementBuilder {
	return &ElementBuilder{tag: tag, props: vdom.Props{}}
}

func Div() *ElementBuilder    { return El("div") }
func Span() *ElementBuilder   { return El("span") }
func Button() *ElementBuilder { return El("button") }
func Input() *ElementBuilder  { return El("input") }
func Label() *ElementBuilder  { return El("label") }

// Class appends one or more class names
func (b *ElementBuilder) Class(names ...string) *ElementBuilder {
	for _, n := range names {
		if n != "" {
			b.classes = append(b.classes, n)
		}
	}
	return b
}

// ID sets the id attribute
func (b *ElementBuilder) ID(id string) *ElementBuilder {
	b.props["id"] = id
	return b
}

// Style sets the inline style
func (b *ElementBuilder) Style(style string) *ElementBuilder {
	b.props["style"] = style
	return b
}

// Type sets the type attribute
func (b *ElementBuilder) Type(t string) *ElementBuilder {
	b.props["type"] = t
	return b
}

// Value sets the value attribute
func (b *ElementBuilder) Value(value string) *ElementBuilder {
	b.props["value"] = value
	return b
}

// Disabled sets the disabled attribute
func (b *ElementBuilder) Disabled(disabled bool) *ElementBuilder {
	if disabled {
		b.props["disabled"] = true
	}
	return b
}

// ReadOnly sets the readonly attribute
func (b *ElementBuilder) ReadOnly(readonly bool) *ElementBuilder {
	if readonly {
		b.props["readonly"] = true
	}
	return b
}

// Data sets a data-* attribute
func (b *ElementBuilder) Data(key, value string) *ElementBuilder {
	b.props["data-"+key] = value
	return b
}

// Attr sets an arbitrary attribute
func (b *ElementBuilder) Attr(key string, value any) *ElementBuilder {
	b.props[key] = value
	return b
}

// Text appends a text child
func (b *ElementBuilder) Text(text string) *ElementBuilder {
	b.children = append(b.children, vdom.NewText(text))
	return b
}

// Children appends child nodes
func (b *ElementBuilder) Children(children ...*vdom.VNode) *ElementBuilder {
	b.children = append(b.children, children...)
	return b
}

// Build returns the finished node
func (b *ElementBuilder) Build() *vdom.VNode {
	props := b.props
	if len(b.classes) > 0 {
		props["class"] = strings.Join(b.classes, " ")
	}
	if len(props) == 0 {
		props = nil
	}
	return vdom.NewElement(b.tag, props, b.children...)
}
