// Package render turns nodes and controls into vdom trees.
//
// Views are chosen per control by presets. A preset's Customize function
// looks at Control.Kind and returns the component to use, or nil to let the
// next preset decide.
package render

import (
	"errors"
	"fmt"

	"github.com/recera/nodeditor/pkg/controls"
	"github.com/recera/nodeditor/pkg/editor"
	"github.com/recera/nodeditor/pkg/styling"
	"github.com/recera/nodeditor/pkg/vdom"
	"github.com/recera/nodeditor/pkg/vdom/builder"
)

// ErrNoComponent is returned when no preset can render a control
var ErrNoComponent = errors.New("no component for control")

// Preset maps controls to components. Style is the CSS its components
// rely on.
type Preset struct {
	Name      string
	Customize func(c controls.Control) Component
	Style     string
}

const classicStyle = `
.input{width:100%;box-sizing:border-box;padding:4px 6px;border-radius:30px;border:1px solid #999}
.progress{position:relative;background:#e0e0e0;border-radius:4px;height:20px;overflow:hidden}
.progress-bar{background:#52c41a;height:100%}
.progress-label{position:absolute;inset:0;text-align:center;color:#222;font-size:12px;line-height:20px}
.btn{width:100%;padding:4px;border-radius:4px;border:none;cursor:pointer}
.btn-primary{background:#1677ff;color:#fff}
`

// Classic returns the default preset: custom button and progress views,
// plain inputs for everything else.
func Classic() *Preset {
	return &Preset{Name: "classic", Customize: ClassicCustomize, Style: classicStyle}
}

// ClassicCustomize dispatches on the control's kind
func ClassicCustomize(c controls.Control) Component {
	switch c.Kind() {
	case controls.KindButton:
		return CustomButton
	case controls.KindProgress:
		return CustomProgress
	case controls.KindNumericInput, controls.KindTextInput:
		return ClassicControl
	default:
		return nil
	}
}

// Plugin renders through an ordered list of presets
type Plugin struct {
	presets []*Preset
}

// New creates a render plugin with no presets
func New() *Plugin {
	return &Plugin{}
}

// AddPreset appends a preset. Earlier presets win.
func (p *Plugin) AddPreset(preset *Preset) {
	p.presets = append(p.presets, preset)
}

// Stylesheet returns the CSS of every preset. Earlier presets come last so
// their rules win, matching the order views are chosen in.
func (p *Plugin) Stylesheet() string {
	sheet := styling.NewSheet()
	for i := len(p.presets) - 1; i >= 0; i-- {
		sheet.Add(p.presets[i].Style)
	}
	return sheet.CSS()
}

// Control renders a single control
func (p *Plugin) Control(c controls.Control) (*vdom.VNode, error) {
	for _, preset := range p.presets {
		if preset.Customize == nil {
			continue
		}
		if comp := preset.Customize(c); comp != nil {
			return comp(c), nil
		}
	}
	return nil, fmt.Errorf("control %s (%s): %w", c.ID(), c.Kind(), ErrNoComponent)
}

// Node renders a node with its title, outputs, controls and inputs
func (p *Plugin) Node(n *editor.Node) (*vdom.VNode, error) {
	var kids []*vdom.VNode

	kids = append(kids, builder.Div().Class("title").Text(n.Label).Build())

	for _, out := range n.Outputs() {
		kids = append(kids, port("output", out))
	}

	keys := n.ControlKeys()
	for i, c := range n.Controls() {
		view, err := p.Control(c)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.Label, err)
		}
		kids = append(kids, builder.Div().
			Class("control").
			Data("control-key", keys[i]).
			Children(view).
			Build())
	}

	for _, in := range n.Inputs() {
		kids = append(kids, port("input", in))
	}

	return builder.Div().
		Class("node").
		Data(AttrNodeID, n.ID).
		Children(kids...).
		Build(), nil
}

func port(side string, p *editor.Port) *vdom.VNode {
	label := p.Label
	if label == "" {
		label = p.Key
	}
	socket := ""
	if p.Socket != nil {
		socket = p.Socket.Name
	}
	return builder.Div().
		Class(side).
		Data(side, p.Key).
		Children(
			builder.Span().Class(side+"-title").Text(label).Build(),
			builder.Span().Class("socket").Attr("title", socket).Build(),
		).
		Build()
}
