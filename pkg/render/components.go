package render

import (
	"strconv"

	"github.com/recera/nodeditor/pkg/controls"
	"github.com/recera/nodeditor/pkg/vdom"
	"github.com/recera/nodeditor/pkg/vdom/builder"
)

// Attributes the live client relies on
const (
	AttrControlID = "control-id"
	AttrNodeID    = "node-id"
	AttrEvent     = "event"
)

// Component renders one control into a view whose root carries the
// control's id
type Component func(c controls.Control) *vdom.VNode

// inputView is what ClassicControl needs from an input of any value type
type inputView interface {
	controls.Control
	Text() string
	Readonly() bool
}

// ClassicControl renders inputs as plain <input> elements
func ClassicControl(c controls.Control) *vdom.VNode {
	in, ok := c.(inputView)
	if !ok {
		return unsupported(c)
	}

	typ := "text"
	if c.Kind() == controls.KindNumericInput {
		typ = "number"
	}

	return builder.Input().
		Class("input").
		Type(typ).
		Value(in.Text()).
		ReadOnly(in.Readonly()).
		Data(AttrControlID, c.ID()).
		Data(AttrEvent, "change").
		Build()
}

// CustomButton renders a button control
func CustomButton(c controls.Control) *vdom.VNode {
	btn, ok := c.(*controls.ButtonControl)
	if !ok {
		return unsupported(c)
	}

	return builder.Button().
		Class("btn", "btn-primary").
		Type("button").
		Data(AttrControlID, c.ID()).
		Data(AttrEvent, "click").
		Text(btn.Label).
		Build()
}

// CustomProgress renders a progress control as a bar plus a label.
// The percent is shown as given, including values outside [0, 100].
func CustomProgress(c controls.Control) *vdom.VNode {
	p, ok := c.(*controls.ProgressControl)
	if !ok {
		return unsupported(c)
	}

	pct := strconv.FormatFloat(p.Percent, 'f', -1, 64)

	return builder.Div().
		Class("progress").
		Data(AttrControlID, c.ID()).
		Attr("role", "progressbar").
		Attr("aria-valuenow", pct).
		Children(
			builder.Div().
				Class("progress-bar").
				Style("width:"+pct+"%").
				Build(),
			builder.Span().
				Class("progress-label").
				Text(pct+"%").
				Build(),
		).
		Build()
}

func unsupported(c controls.Control) *vdom.VNode {
	return builder.Div().
		Class("control-unsupported").
		Data(AttrControlID, c.ID()).
		Text(c.Kind().String()).
		Build()
}
