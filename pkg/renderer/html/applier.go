// Package html serializes vdom trees to HTML markup.
package html

import (
	"html"
	"io"
	"strings"

	"github.com/recera/nodeditor/pkg/vdom"
)

// voidElements are HTML elements that cannot have children
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// booleanAttributes are HTML attributes that are boolean flags
var booleanAttributes = map[string]bool{
	"checked":   true,
	"disabled":  true,
	"readonly":  true,
	"required":  true,
	"selected":  true,
	"defer":     true,
	"async":     true,
	"multiple":  true,
	"autofocus": true,
}

// HTMLApplier renders VNodes to HTML
type HTMLApplier struct {
	w   io.Writer
	err error
}

// NewHTMLApplier creates a new HTML applier
func NewHTMLApplier(w io.Writer) *HTMLApplier {
	return &HTMLApplier{w: w}
}

// Apply writes node and returns the first write error
func (a *HTMLApplier) Apply(node *vdom.VNode) error {
	if node != nil {
		a.renderNode(node, false)
	}
	return a.err
}

// write helper that tracks errors
func (a *HTMLApplier) write(s string) {
	if a.err != nil {
		return
	}
	_, a.err = io.WriteString(a.w, s)
}

func (a *HTMLApplier) renderNode(node *vdom.VNode, raw bool) {
	if a.err != nil {
		return
	}
	switch node.Kind {
	case vdom.KindText:
		if raw {
			a.write(node.Text)
		} else {
			a.write(html.EscapeString(node.Text))
		}
	case vdom.KindElement:
		a.renderElement(node)
	}
}

func (a *HTMLApplier) renderElement(node *vdom.VNode) {
	a.write("<")
	a.write(node.Tag)

	for _, key := range node.Props.SortedKeys() {
		value := node.Props[key]

		if booleanAttributes[key] {
			if v, ok := value.(bool); ok && v {
				a.write(" ")
				a.write(key)
			}
			continue
		}

		valueStr := vdom.PropString(value)
		if (key == "href" || key == "src") && strings.HasPrefix(strings.ToLower(valueStr), "javascript:") {
			valueStr = "#"
		}

		a.write(" ")
		a.write(key)
		a.write(`="`)
		a.write(html.EscapeString(valueStr))
		a.write(`"`)
	}
	a.write(">")

	if voidElements[node.Tag] {
		return
	}

	// script and style content is not escaped
	raw := node.Tag == "script" || node.Tag == "style"
	for i := range node.Kids {
		a.renderNode(&node.Kids[i], raw)
	}

	a.write("</")
	a.write(node.Tag)
	a.write(">")
}

// RenderToString is a convenience function to render a VNode to a string
func RenderToString(node *vdom.VNode) (string, error) {
	var buf strings.Builder
	if err := NewHTMLApplier(&buf).Apply(node); err != nil {
		return "", err
	}
	return buf.String(), nil
}
