// Package environment composes the editor, area and render plugins into one
// value and builds the example node on top of it.
package environment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/recera/nodeditor/pkg/area"
	"github.com/recera/nodeditor/pkg/controls"
	"github.com/recera/nodeditor/pkg/editor"
	"github.com/recera/nodeditor/pkg/render"
)

// Options configures composition and the example node
type Options struct {
	Logger *slog.Logger

	// Sink receives frames produced by redraws
	Sink area.Sink

	// Presets are tried before the classic preset
	Presets []*render.Preset

	NodeLabel    string
	ButtonLabel  string
	InitialValue float64

	// RandSource overrides the randomize action's [0, 1) source
	RandSource func() float64
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.NodeLabel == "" {
		o.NodeLabel = "A"
	}
	if o.ButtonLabel == "" {
		o.ButtonLabel = "Randomize"
	}
	return o
}

// Environment is the composed set of plugins. It is not modified after
// Compose returns.
type Environment struct {
	editor *editor.NodeEditor
	area   *area.Area
	render *render.Plugin
}

// Editor returns the node editor
func (e *Environment) Editor() *editor.NodeEditor { return e.editor }

// Area returns the area plugin
func (e *Environment) Area() *area.Area { return e.area }

// Render returns the render plugin
func (e *Environment) Render() *render.Plugin { return e.render }

// Compose wires render into area and area into a fresh editor
func Compose(opts Options) *Environment {
	opts = opts.withDefaults()

	r := render.New()
	for _, p := range opts.Presets {
		r.AddPreset(p)
	}
	r.AddPreset(render.Classic())

	a := area.New(r, area.WithSink(opts.Sink), area.WithLogger(opts.Logger))

	ed := editor.New(opts.Logger)
	ed.Use(a)

	return &Environment{editor: ed, area: a, render: r}
}

// Example is the demonstration node and handles to its controls
type Example struct {
	Node      *editor.Node
	Input     *controls.InputControl[float64]
	Progress  *controls.ProgressControl
	Button    *controls.ButtonControl
	Randomize *controls.RandomizeAction
}

// Control keys of the example node
const (
	KeyInput    = "input"
	KeyProgress = "progress"
	KeyButton   = "button"
	KeyOutput   = "a"
)

// CreateEditor composes an environment and adds the example node to it.
// The returned func tears the area down.
func CreateEditor(ctx context.Context, opts Options) (*Environment, *Example, func(), error) {
	opts = opts.withDefaults()
	env := Compose(opts)

	ex, err := newExample(env.area, opts)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := env.editor.AddNode(ctx, ex.Node); err != nil {
		return nil, nil, nil, fmt.Errorf("create editor: %w", err)
	}

	opts.Logger.Debug("editor created",
		"node", ex.Node.ID,
		"input", ex.Input.ID(),
		"progress", ex.Progress.ID(),
		"button", ex.Button.ID())

	return env, ex, env.area.Destroy, nil
}

func newExample(a controls.Area, opts Options) (*Example, error) {
	socket := editor.NewSocket("socket")
	node := editor.NewNode(opts.NodeLabel)
	if err := node.AddOutput(KeyOutput, socket, ""); err != nil {
		return nil, err
	}

	progress := controls.NewProgressControl(opts.InitialValue)
	input := controls.NewInputControl(controls.InputOptions[float64]{
		Initial: opts.InitialValue,
		Change:  controls.SyncProgress(progress, a),
	})

	var randOpts []controls.RandomizeOption
	if opts.RandSource != nil {
		randOpts = append(randOpts, controls.WithRandSource(opts.RandSource))
	}
	randomize := controls.NewRandomize(input, progress, a, randOpts...)
	button := controls.NewButtonControl(opts.ButtonLabel, randomize.Execute)

	for _, c := range []struct {
		key     string
		control controls.Control
	}{
		{KeyInput, input},
		{KeyProgress, progress},
		{KeyButton, button},
	} {
		if err := node.AddControl(c.key, c.control); err != nil {
			return nil, err
		}
	}

	return &Example{
		Node:      node,
		Input:     input,
		Progress:  progress,
		Button:    button,
		Randomize: randomize,
	}, nil
}

// ControlByID finds one of the example's controls by id
func (ex *Example) ControlByID(id string) (controls.Control, bool) {
	return ex.Node.ControlByID(id)
}
