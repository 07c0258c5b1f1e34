// Package area keeps the rendered view of every control on the board and
// turns redraw requests into patch frames.
package area

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/recera/nodeditor/pkg/controls"
	"github.com/recera/nodeditor/pkg/editor"
	"github.com/recera/nodeditor/pkg/render"
	"github.com/recera/nodeditor/pkg/renderer/html"
	"github.com/recera/nodeditor/pkg/vdom"
)

// ErrUnknownControl is reported when a redraw names a control the area
// has never rendered
var ErrUnknownControl = errors.New("unknown control")

// Frame carries the patches for one control view. Paths are relative to
// the element carrying the control's data-control-id.
type Frame struct {
	ControlID string
	Patches   []vdom.Patch
}

// Sink receives frames produced by redraws
type Sink func(Frame)

type view struct {
	control controls.Control
	nodeID  string
	vnode   *vdom.VNode
}

// Area implements controls.Area and editor.Plugin
type Area struct {
	mu        sync.Mutex
	render    *render.Plugin
	views     map[string]*view
	nodes     map[string]*editor.Node
	order     []string
	sink      Sink
	logger    *slog.Logger
	destroyed bool
}

// Option customizes an Area
type Option func(*Area)

// WithSink sets where frames are delivered
func WithSink(sink Sink) Option {
	return func(a *Area) { a.sink = sink }
}

// WithLogger sets the area's logger
func WithLogger(logger *slog.Logger) Option {
	return func(a *Area) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an area that renders through r
func New(r *render.Plugin, opts ...Option) *Area {
	a := &Area{
		render: r,
		views:  make(map[string]*view),
		nodes:  make(map[string]*editor.Node),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handle tracks nodes as the editor adds and removes them
func (a *Area) Handle(_ context.Context, sig editor.Signal) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.destroyed {
		return nil
	}

	switch sig.Type {
	case editor.NodeCreate:
		// render up front so a node with an unrenderable control is rejected
		for _, c := range sig.Node.Controls() {
			if _, err := a.render.Control(c); err != nil {
				return err
			}
		}

	case editor.NodeCreated:
		node := sig.Node
		for _, c := range node.Controls() {
			vnode, err := a.render.Control(c)
			if err != nil {
				return err
			}
			a.views[c.ID()] = &view{control: c, nodeID: node.ID, vnode: vnode}
		}
		a.nodes[node.ID] = node
		a.order = append(a.order, node.ID)

	case editor.NodeRemoved:
		a.dropNode(sig.Node.ID)

	case editor.Cleared:
		a.views = make(map[string]*view)
		a.nodes = make(map[string]*editor.Node)
		a.order = nil
	}
	return nil
}

func (a *Area) dropNode(id string) {
	for cid, v := range a.views {
		if v.nodeID == id {
			delete(a.views, cid)
		}
	}
	delete(a.nodes, id)
	for i, nid := range a.order {
		if nid == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// Update re-renders the addressed element from its current value and
// emits the difference. Requests for unknown ids are logged and dropped.
func (a *Area) Update(target controls.Target, id string) {
	var frames []Frame
	var err error

	a.mu.Lock()
	switch {
	case a.destroyed:
	case target == controls.TargetNode:
		node, ok := a.nodes[id]
		if !ok {
			err = fmt.Errorf("node %s: %w", id, editor.ErrNodeNotFound)
			break
		}
		for _, c := range node.Controls() {
			f, ferr := a.redraw(c.ID())
			if ferr != nil {
				err = ferr
				break
			}
			if len(f.Patches) > 0 {
				frames = append(frames, f)
			}
		}
	default:
		var f Frame
		f, err = a.redraw(id)
		if err == nil && len(f.Patches) > 0 {
			frames = append(frames, f)
		}
	}
	sink := a.sink
	a.mu.Unlock()

	if err != nil {
		a.logger.Warn("redraw skipped", "target", target, "id", id, "error", err)
		return
	}

	a.logger.Debug("redraw", "target", target, "id", id, "frames", len(frames))
	if sink == nil {
		return
	}
	for _, f := range frames {
		sink(f)
	}
}

// redraw must be called with a.mu held
func (a *Area) redraw(id string) (Frame, error) {
	v, ok := a.views[id]
	if !ok {
		return Frame{}, fmt.Errorf("control %s: %w", id, ErrUnknownControl)
	}
	next, err := a.render.Control(v.control)
	if err != nil {
		return Frame{}, err
	}
	patches := vdom.Diff(v.vnode, next)
	v.vnode = next
	return Frame{ControlID: id, Patches: patches}, nil
}

// Refresh records that the client already displays the control's current
// value, e.g. after the user typed it. Nothing is emitted.
func (a *Area) Refresh(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.destroyed {
		return nil
	}
	_, err := a.redraw(id)
	return err
}

// View returns the last rendered tree of a control
func (a *Area) View(id string) (*vdom.VNode, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.views[id]
	if !ok {
		return nil, false
	}
	return v.vnode, true
}

// Nodes renders every node, in the order they were added. The stored
// control views are reset to what the trees show, so later frames apply on
// top of them.
func (a *Area) Nodes() ([]*vdom.VNode, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	trees := make([]*vdom.VNode, 0, len(a.order))
	for _, id := range a.order {
		n := a.nodes[id]
		for _, c := range n.Controls() {
			if _, err := a.redraw(c.ID()); err != nil {
				return nil, err
			}
		}
		tree, err := a.render.Node(n)
		if err != nil {
			return nil, err
		}
		trees = append(trees, tree)
	}
	return trees, nil
}

// Snapshot renders every node as HTML. Like Nodes, it becomes the baseline
// for later frames.
func (a *Area) Snapshot() (string, error) {
	trees, err := a.Nodes()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	applier := html.NewHTMLApplier(&sb)
	for _, tree := range trees {
		if err := applier.Apply(tree); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

// Destroy drops every view. Later signals and redraws are ignored.
func (a *Area) Destroy() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.destroyed = true
	a.views = make(map[string]*view)
	a.nodes = make(map[string]*editor.Node)
	a.order = nil
	a.sink = nil
}
