package live

import (
	"errors"

	"github.com/recera/nodeditor/pkg/vdom"
)

// MessageType represents the type of live protocol message
type MessageType uint8

const (
	// Frame types
	FramePatches MessageType = 0x00
	FrameEvent   MessageType = 0x01
	FrameControl MessageType = 0x02
)

// EventType represents client-side event types
type EventType uint8

const (
	EventClick  EventType = 0x01
	EventChange EventType = 0x05
)

func (t EventType) String() string {
	switch t {
	case EventClick:
		return "click"
	case EventChange:
		return "change"
	default:
		return "unknown"
	}
}

// Control message names
const (
	ControlHello  = "HELLO"
	ControlPing   = "PING"
	ControlPong   = "PONG"
	ControlReload = "RELOAD"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionAttached = errors.New("session already has a connection")
	ErrFrameType       = errors.New("unexpected frame type")
	ErrFrameTooLarge   = errors.New("frame field too large")
)

// Event represents a client-side event aimed at one control
type Event struct {
	Type      EventType
	ControlID string
	// Value carries the input's text for change events
	Value string
}

// Control is a control frame: a name and its numeric arguments
type Control struct {
	Name string
	Args []uint64
}

// WirePatch is a patch as it travels to the client. Node operations carry
// the new node as HTML in Value.
type WirePatch struct {
	Op    vdom.PatchOp
	Path  []int
	Key   string
	Value string
}

// PatchFrame is a decoded patches frame
type PatchFrame struct {
	Seq       uint64
	ControlID string
	Patches   []WirePatch
}
