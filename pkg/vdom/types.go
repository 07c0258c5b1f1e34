// Package vdom is the virtual tree control views are rendered into.
package vdom

import (
	"fmt"
	"sort"
)

// VKind represents the type of virtual node
type VKind uint8

const (
	// KindElement represents a DOM element node
	KindElement VKind = iota
	// KindText represents a text node
	KindText
)

// Props holds element attributes. Values are stringified with %v when
// rendered; bool values toggle boolean attributes.
type Props map[string]any

// VNode is an immutable virtual DOM node
type VNode struct {
	Kind  VKind
	Tag   string
	Props Props
	Kids  []VNode
	Text  string
}

// NewElement creates a new element VNode. Nil children are skipped.
func NewElement(tag string, props Props, children ...*VNode) *VNode {
	kids := make([]VNode, 0, len(children))
	for _, child := range children {
		if child != nil {
			kids = append(kids, *child)
		}
	}
	return &VNode{
		Kind:  KindElement,
		Tag:   tag,
		Props: props,
		Kids:  kids,
	}
}

// NewText creates a new text VNode
func NewText(text string) *VNode {
	return &VNode{Kind: KindText, Text: text}
}

// IsElement returns true if this is an element node
func (v VNode) IsElement() bool { return v.Kind == KindElement }

// IsText returns true if this is a text node
func (v VNode) IsText() bool { return v.Kind == KindText }

// Attr returns the string form of a prop, or "" if absent
func (v VNode) Attr(key string) string {
	if val, ok := v.Props[key]; ok {
		return PropString(val)
	}
	return ""
}

// Find returns the first node in depth-first order for which match is true
func (v *VNode) Find(match func(*VNode) bool) *VNode {
	if match(v) {
		return v
	}
	for i := range v.Kids {
		if found := v.Kids[i].Find(match); found != nil {
			return found
		}
	}
	return nil
}

// TextContent concatenates every text node under v
func (v VNode) TextContent() string {
	if v.Kind == KindText {
		return v.Text
	}
	s := ""
	for _, k := range v.Kids {
		s += k.TextContent()
	}
	return s
}

// SortedKeys returns the prop keys in a stable order
func (p Props) SortedKeys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PropString renders a prop value the way it appears in markup
func PropString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
