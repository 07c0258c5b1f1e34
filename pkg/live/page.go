package live

import (
	"context"
	_ "embed"
	"io"
	"net/http"

	"github.com/recera/nodeditor/pkg/renderer/html"
	"github.com/recera/nodeditor/pkg/vdom"
	"github.com/recera/nodeditor/pkg/vdom/builder"
)

//go:embed client.js
var clientScript string

// ClientScript returns the browser side of the protocol
func ClientScript() string { return clientScript }

const pageStyle = `
body{font-family:system-ui,sans-serif;background:#f4f5f7;margin:0;padding:2rem}
.board{display:flex;gap:2rem;flex-wrap:wrap}
.node{background:#6e88ff;border:2px solid #4e58bf;border-radius:10px;color:#fff;min-width:180px;padding:.5rem 0}
.node .title{font-size:18px;padding:.25rem .75rem}
.node .output{text-align:right;padding:.25rem .75rem}
.node .control{padding:.25rem .75rem}
`

// document wraps the board trees in a full page that connects back to
// the session
func document(title, sessionID, path, css string, nodes []*vdom.VNode) *vdom.VNode {
	head := builder.El("head").Children(
		builder.El("meta").Attr("charset", "utf-8").Build(),
		builder.El("title").Text(title).Build(),
		builder.El("meta").Attr("name", "live-session").Attr("content", sessionID).Build(),
		builder.El("meta").Attr("name", "live-path").Attr("content", path).Build(),
		builder.El("style").Text(pageStyle+css).Build(),
	).Build()

	body := builder.El("body").Children(
		builder.Div().Class("board").Children(nodes...).Build(),
		builder.El("script").Attr("type", "text/javascript").Text(clientScript).Build(),
	).Build()

	return builder.El("html").Attr("lang", "en").Children(head, body).Build()
}

// WritePage renders a fresh session's page to w
func (s *Server) WritePage(ctx context.Context, w io.Writer, title string) (*Session, error) {
	session, err := s.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	nodes, err := session.Nodes(ctx)
	if err != nil {
		s.RemoveSession(session.ID)
		return nil, err
	}

	if _, err := io.WriteString(w, "<!DOCTYPE html>"); err != nil {
		s.RemoveSession(session.ID)
		return nil, err
	}
	css := session.Environment().Render().Stylesheet()
	doc := document(title, session.ID, s.opts.Path, css, nodes)
	if err := html.NewHTMLApplier(w).Apply(doc); err != nil {
		s.RemoveSession(session.ID)
		return nil, err
	}
	return session, nil
}

// PageHandler serves a new session's page on every request
func (s *Server) PageHandler(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		session, err := s.WritePage(r.Context(), w, title)
		if err != nil {
			s.logger.Error("failed to render page", "error", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		s.logger.Debug("page served", "session", session.ID, "remote", r.RemoteAddr)
	}
}

// Handler mounts the page at / and the WebSocket endpoint at Path
func (s *Server) Handler(title string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.opts.Path, s.HandleWebSocket)
	mux.Handle("/", s.PageHandler(title))
	return mux
}
