package editor

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/recera/nodeditor/pkg/controls"
)

// Socket describes the type of value a port carries
type Socket struct {
	Name string
}

// NewSocket creates a socket
func NewSocket(name string) *Socket {
	return &Socket{Name: name}
}

// Port is an input or output attached to a node
type Port struct {
	Key    string
	Label  string
	Socket *Socket
}

// Node is a container of ports and controls
type Node struct {
	ID    string
	Label string

	inputs   []*Port
	outputs  []*Port
	controls []keyedControl
	keys     map[string]struct{}
}

type keyedControl struct {
	key     string
	control controls.Control
}

// NewNode creates an empty node with a fresh id
func NewNode(label string) *Node {
	return &Node{
		ID:    uuid.NewString(),
		Label: label,
		keys:  make(map[string]struct{}),
	}
}

// AddInput attaches an input port under key
func (n *Node) AddInput(key string, socket *Socket, label string) error {
	if err := n.claim("input", key); err != nil {
		return err
	}
	n.inputs = append(n.inputs, &Port{Key: key, Label: label, Socket: socket})
	return nil
}

// AddOutput attaches an output port under key
func (n *Node) AddOutput(key string, socket *Socket, label string) error {
	if err := n.claim("output", key); err != nil {
		return err
	}
	n.outputs = append(n.outputs, &Port{Key: key, Label: label, Socket: socket})
	return nil
}

// AddControl attaches a control under key
func (n *Node) AddControl(key string, c controls.Control) error {
	if err := n.claim("control", key); err != nil {
		return err
	}
	n.controls = append(n.controls, keyedControl{key: key, control: c})
	return nil
}

func (n *Node) claim(kind, key string) error {
	k := kind + ":" + key
	if _, exists := n.keys[k]; exists {
		return fmt.Errorf("node %s: %s %q: %w", n.Label, kind, key, ErrDuplicateKey)
	}
	n.keys[k] = struct{}{}
	return nil
}

// Control returns the control registered under key
func (n *Node) Control(key string) (controls.Control, bool) {
	for _, kc := range n.controls {
		if kc.key == key {
			return kc.control, true
		}
	}
	return nil, false
}

// ControlByID finds a control by its id
func (n *Node) ControlByID(id string) (controls.Control, bool) {
	for _, kc := range n.controls {
		if kc.control.ID() == id {
			return kc.control, true
		}
	}
	return nil, false
}

// Controls returns the node's controls in the order they were added
func (n *Node) Controls() []controls.Control {
	out := make([]controls.Control, len(n.controls))
	for i, kc := range n.controls {
		out[i] = kc.control
	}
	return out
}

// ControlKeys returns the control keys in the order they were added
func (n *Node) ControlKeys() []string {
	out := make([]string, len(n.controls))
	for i, kc := range n.controls {
		out[i] = kc.key
	}
	return out
}

// Inputs returns the node's input ports
func (n *Node) Inputs() []*Port { return n.inputs }

// Outputs returns the node's output ports
func (n *Node) Outputs() []*Port { return n.outputs }
