package live

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/recera/nodeditor/pkg/area"
	"github.com/recera/nodeditor/pkg/controls"
	"github.com/recera/nodeditor/pkg/environment"
	"github.com/recera/nodeditor/pkg/scheduler"
	"github.com/recera/nodeditor/pkg/vdom"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 300 * time.Second
	pingPeriod = 54 * time.Second
	maxMessage = 64 * 1024
)

// numericInput is what a change event needs from a number input
type numericInput interface {
	SetValue(v float64)
}

// clickable is what a click event needs from a button
type clickable interface {
	Click()
}

// Session is one browser tab: its own editor, event loop and connection
type Session struct {
	ID      string
	Created time.Time

	env     *environment.Environment
	example *environment.Example
	destroy func()
	sched   *scheduler.Scheduler
	logger  *slog.Logger

	mu         sync.Mutex
	conn       *websocket.Conn
	writerDone chan struct{}

	sendChan  chan []byte
	closeChan chan struct{}
	closeOnce sync.Once
	done      chan struct{}
	lastSeq   atomic.Uint64
}

func newSession(ctx context.Context, id string, opts environment.Options, logger *slog.Logger) (*Session, error) {
	s := &Session{
		ID:        id,
		Created:   time.Now(),
		logger:    logger.With("session", id),
		sendChan:  make(chan []byte, 256),
		closeChan: make(chan struct{}),
		done:      make(chan struct{}),
	}

	opts.Logger = s.logger
	opts.Sink = s.sendFrame
	env, ex, destroy, err := environment.CreateEditor(ctx, opts)
	if err != nil {
		return nil, err
	}
	s.env, s.example, s.destroy = env, ex, destroy

	s.sched = scheduler.NewScheduler(0)
	s.sched.SetErrorHandler(func(err error) bool {
		s.logger.Error("task failed", "error", err)
		return true
	})
	s.sched.Start()
	return s, nil
}

// Environment returns the session's editor environment
func (s *Session) Environment() *environment.Environment { return s.env }

// Example returns the session's example node
func (s *Session) Example() *environment.Example { return s.example }

// Nodes renders the board on the session's event loop. The result is the
// baseline for every frame sent afterwards.
func (s *Session) Nodes(ctx context.Context) ([]*vdom.VNode, error) {
	var trees []*vdom.VNode
	var err error
	if rerr := s.sched.Run(ctx, func() {
		trees, err = s.env.Area().Nodes()
	}); rerr != nil {
		return nil, rerr
	}
	return trees, err
}

// Dispatch queues an event on the session's event loop
func (s *Session) Dispatch(evt Event) error {
	return s.sched.Post(func() { s.handleEvent(evt) })
}

// handleEvent runs on the event loop
func (s *Session) handleEvent(evt Event) {
	c, ok := s.example.ControlByID(evt.ControlID)
	if !ok {
		s.logger.Warn("event for unknown control", "type", evt.Type, "control", evt.ControlID)
		return
	}

	switch evt.Type {
	case EventChange:
		in, ok := c.(numericInput)
		if !ok || c.Kind() != controls.KindNumericInput {
			s.logger.Warn("change on non-numeric control", "control", c.ID(), "kind", c.Kind())
			return
		}
		v, err := strconv.ParseFloat(evt.Value, 64)
		if err != nil {
			s.logger.Debug("dropping unparsable value", "control", c.ID(), "value", evt.Value, "error", err)
			return
		}
		in.SetValue(v)
		// the client already shows what was typed
		if err := s.env.Area().Refresh(c.ID()); err != nil {
			s.logger.Warn("refresh failed", "control", c.ID(), "error", err)
		}

	case EventClick:
		b, ok := c.(clickable)
		if !ok || c.Kind() != controls.KindButton {
			s.logger.Warn("click on non-button control", "control", c.ID(), "kind", c.Kind())
			return
		}
		b.Click()

	default:
		s.logger.Warn("unknown event type", "type", uint8(evt.Type), "control", evt.ControlID)
	}
}

// sendFrame is the area sink; it runs on the event loop
func (s *Session) sendFrame(f area.Frame) {
	seq := s.lastSeq.Add(1)
	data, err := EncodePatches(seq, f)
	if err != nil {
		s.logger.Error("failed to encode patches", "control", f.ControlID, "error", err)
		return
	}
	s.enqueue(data)
}

// SendControl queues a control frame
func (s *Session) SendControl(c Control) {
	s.enqueue(EncodeControl(c))
}

func (s *Session) enqueue(data []byte) {
	select {
	case <-s.closeChan:
	case s.sendChan <- data:
	default:
		s.logger.Warn("send buffer full, dropping frame", "bytes", len(data))
	}
}

// attach serves conn until either side closes it
func (s *Session) attach(conn *websocket.Conn) error {
	s.mu.Lock()
	select {
	case <-s.closeChan:
		s.mu.Unlock()
		return ErrSessionNotFound
	default:
	}
	if s.conn != nil {
		s.mu.Unlock()
		return ErrSessionAttached
	}
	s.conn = conn
	s.writerDone = make(chan struct{})
	go s.writer(conn, s.writerDone)
	s.mu.Unlock()

	defer s.Close()

	s.SendControl(Control{Name: ControlHello, Args: []uint64{s.lastSeq.Load()}})
	s.logger.Info("client connected", "remote", conn.RemoteAddr().String())

	conn.SetReadLimit(maxMessage)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("unexpected close", "error", err)
			} else {
				s.logger.Debug("read ended", "error", err)
			}
			return nil
		}

		if messageType != websocket.BinaryMessage {
			s.logger.Debug("ignoring text message", "bytes", len(data))
			continue
		}
		if err := s.handleBinaryMessage(data); err != nil {
			return nil
		}
	}
}

// handleBinaryMessage returns an error only when the session is gone
func (s *Session) handleBinaryMessage(data []byte) error {
	frameType, ok := FrameTypeOf(data)
	if !ok {
		return nil
	}

	switch frameType {
	case FrameEvent:
		evt, err := DecodeEvent(data)
		if err != nil {
			s.logger.Warn("failed to decode event", "error", err)
			return nil
		}
		s.logger.Debug("event", "type", evt.Type, "control", evt.ControlID)
		return s.Dispatch(*evt)

	case FrameControl:
		c, err := DecodeControl(data)
		if err != nil {
			s.logger.Warn("failed to decode control message", "error", err)
			return nil
		}
		switch c.Name {
		case ControlHello:
			s.logger.Debug("client hello", "args", c.Args)
		case ControlPing:
			s.SendControl(Control{Name: ControlPong})
		default:
			s.logger.Debug("ignoring control message", "name", c.Name)
		}

	default:
		s.logger.Warn("unexpected frame type", "type", uint8(frameType))
	}
	return nil
}

// writer is the only goroutine that writes data frames to conn
func (s *Session) writer(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message := <-s.sendChan:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
				s.logger.Warn("failed to write message", "error", err)
				conn.Close()
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				return
			}

		case <-s.closeChan:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// Close tears the session down: connection, event loop and editor
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.closeChan)

		s.mu.Lock()
		conn, writerDone := s.conn, s.writerDone
		s.mu.Unlock()

		if conn != nil {
			<-writerDone
			conn.Close()
		}
		s.sched.Stop()
		s.destroy()
		close(s.done)
		s.logger.Info("session closed")
	})
}

// Done is closed once the session is torn down
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Attached reports whether a client connection was ever attached
func (s *Session) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}
