// Package editor implements the graph model the example node lives in.
//
// A NodeEditor owns nodes and forwards lifecycle signals to plugins in the
// order they were registered. A plugin can veto a node before it is added by
// returning an error from the NodeCreate signal.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	ErrNodeExists   = errors.New("node already exists")
	ErrNodeNotFound = errors.New("node not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// SignalType enumerates editor lifecycle events
type SignalType uint8

const (
	// NodeCreate is sent before a node is added; an error aborts the add
	NodeCreate SignalType = iota
	// NodeCreated is sent after a node is added
	NodeCreated
	// NodeRemoved is sent after a node is removed
	NodeRemoved
	// Cleared is sent after every node has been removed
	Cleared
)

func (t SignalType) String() string {
	switch t {
	case NodeCreate:
		return "nodecreate"
	case NodeCreated:
		return "nodecreated"
	case NodeRemoved:
		return "noderemoved"
	case Cleared:
		return "cleared"
	default:
		return fmt.Sprintf("SignalType(%d)", uint8(t))
	}
}

// Signal is delivered to plugins
type Signal struct {
	Type SignalType
	Node *Node // nil for Cleared
}

// Plugin reacts to editor signals
type Plugin interface {
	Handle(ctx context.Context, sig Signal) error
}

// PluginFunc adapts a function to the Plugin interface
type PluginFunc func(ctx context.Context, sig Signal) error

// Handle calls f(ctx, sig)
func (f PluginFunc) Handle(ctx context.Context, sig Signal) error { return f(ctx, sig) }

// NodeEditor holds the graph
type NodeEditor struct {
	mu      sync.RWMutex
	nodes   []*Node
	byID    map[string]*Node
	plugins []Plugin
	logger  *slog.Logger
}

// New creates an empty editor
func New(logger *slog.Logger) *NodeEditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &NodeEditor{
		byID:   make(map[string]*Node),
		logger: logger,
	}
}

// Use registers a plugin. Plugins see signals in registration order.
func (e *NodeEditor) Use(p Plugin) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.plugins = append(e.plugins, p)
}

// emit sends sig to every plugin, stopping at the first error
func (e *NodeEditor) emit(ctx context.Context, sig Signal) error {
	e.mu.RLock()
	plugins := make([]Plugin, len(e.plugins))
	copy(plugins, e.plugins)
	e.mu.RUnlock()

	for _, p := range plugins {
		if err := p.Handle(ctx, sig); err != nil {
			return fmt.Errorf("%s: %w", sig.Type, err)
		}
	}
	return nil
}

// AddNode adds node to the graph and announces it to plugins
func (e *NodeEditor) AddNode(ctx context.Context, node *Node) error {
	e.mu.RLock()
	_, exists := e.byID[node.ID]
	e.mu.RUnlock()
	if exists {
		return fmt.Errorf("add node %s: %w", node.ID, ErrNodeExists)
	}

	if err := e.emit(ctx, Signal{Type: NodeCreate, Node: node}); err != nil {
		return err
	}

	e.mu.Lock()
	if _, exists := e.byID[node.ID]; exists {
		e.mu.Unlock()
		return fmt.Errorf("add node %s: %w", node.ID, ErrNodeExists)
	}
	e.nodes = append(e.nodes, node)
	e.byID[node.ID] = node
	e.mu.Unlock()

	e.logger.Debug("node added", "node", node.ID, "label", node.Label)
	return e.emit(ctx, Signal{Type: NodeCreated, Node: node})
}

// GetNode returns the node with the given id
func (e *NodeEditor) GetNode(id string) (*Node, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	n, ok := e.byID[id]
	return n, ok
}

// GetNodes returns the nodes in insertion order
func (e *NodeEditor) GetNodes() []*Node {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*Node, len(e.nodes))
	copy(out, e.nodes)
	return out
}

// RemoveNode removes a node and announces it to plugins
func (e *NodeEditor) RemoveNode(ctx context.Context, id string) error {
	e.mu.Lock()
	node, ok := e.byID[id]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("remove node %s: %w", id, ErrNodeNotFound)
	}
	delete(e.byID, id)
	for i, n := range e.nodes {
		if n.ID == id {
			e.nodes = append(e.nodes[:i], e.nodes[i+1:]...)
			break
		}
	}
	e.mu.Unlock()

	e.logger.Debug("node removed", "node", id)
	return e.emit(ctx, Signal{Type: NodeRemoved, Node: node})
}

// Clear removes every node
func (e *NodeEditor) Clear(ctx context.Context) error {
	e.mu.Lock()
	e.nodes = nil
	e.byID = make(map[string]*Node)
	e.mu.Unlock()

	return e.emit(ctx, Signal{Type: Cleared})
}
