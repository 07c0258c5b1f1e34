// Package live keeps browser tabs in sync with their editor over a
// WebSocket, using a small binary protocol.
package live

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/recera/nodeditor/pkg/environment"
)

// DefaultPath is where the WebSocket endpoint is mounted
const DefaultPath = "/live/"

// Options configures a Server
type Options struct {
	Logger *slog.Logger

	// Path is the WebSocket endpoint prefix; the session id follows it
	Path string

	// AllowedOrigins lists origins accepted on upgrade. Empty means
	// same-host only; "*" accepts any origin.
	AllowedOrigins []string

	// PendingTTL is how long a session may wait for its connection
	PendingTTL time.Duration

	// Editor is the template for each session's editor
	Editor environment.Options
}

// Server handles WebSocket connections for live updates
type Server struct {
	upgrader websocket.Upgrader
	sessions map[string]*Session
	mu       sync.RWMutex
	opts     Options
	logger   *slog.Logger
}

// NewServer creates a new live protocol server
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Path == "" {
		opts.Path = DefaultPath
	}
	if opts.PendingTTL <= 0 {
		opts.PendingTTL = 2 * time.Minute
	}

	s := &Server{
		sessions: make(map[string]*Session),
		opts:     opts,
		logger:   opts.Logger.With("component", "live"),
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin:     s.checkOrigin,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	return s
}

// Path returns the endpoint prefix
func (s *Server) Path() string { return s.opts.Path }

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.opts.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	if len(s.opts.AllowedOrigins) > 0 {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// NewSession creates a session with a fresh editor. The caller renders the
// page from it; the browser then connects with the session's id.
func (s *Server) NewSession(ctx context.Context) (*Session, error) {
	s.sweep()

	session, err := newSession(ctx, uuid.NewString(), s.opts.Editor, s.logger)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	count := len(s.sessions)
	s.mu.Unlock()

	s.logger.Debug("session created", "session", session.ID, "sessions", count)
	return session, nil
}

// sweep closes sessions whose page never connected
func (s *Server) sweep() {
	cutoff := time.Now().Add(-s.opts.PendingTTL)

	var stale []*Session
	s.mu.Lock()
	for id, session := range s.sessions {
		if !session.Attached() && session.Created.Before(cutoff) {
			stale = append(stale, session)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, session := range stale {
		s.logger.Debug("closing pending session", "session", session.ID)
		session.Close()
	}
}

// HandleWebSocket upgrades the request and serves the session named by the
// path until the connection closes
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimPrefix(r.URL.Path, s.opts.Path)
	if sessionID == "" || sessionID == r.URL.Path {
		http.Error(w, "Session ID required", http.StatusBadRequest)
		return
	}

	session, ok := s.GetSession(sessionID)
	if !ok {
		http.Error(w, ErrSessionNotFound.Error(), http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("failed to upgrade connection", "session", sessionID, "error", err)
		return
	}

	if err := session.attach(conn); err != nil {
		if errors.Is(err, ErrSessionAttached) {
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()))
		}
		conn.Close()
		s.logger.Warn("attach rejected", "session", sessionID, "error", err)
		return
	}
	s.RemoveSession(sessionID)
}

// GetSession retrieves a session by ID
func (s *Server) GetSession(sessionID string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	return session, exists
}

// RemoveSession closes and forgets a session
func (s *Server) RemoveSession(sessionID string) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if ok {
		session.Close()
	}
}

// SessionCount returns the number of live sessions
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Broadcast sends a control message to every session
func (s *Server) Broadcast(c Control) {
	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.mu.RUnlock()

	for _, session := range sessions {
		session.SendControl(c)
	}
	s.logger.Debug("broadcast", "control", c.Name, "sessions", len(sessions))
}

// Close closes every session
func (s *Server) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}
