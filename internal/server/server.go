// Package server exposes the agents over websocket. Each connection is one
// session: text frames in, spoken replies and hand-off notices out.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ganai-labs/voiceagents/internal/adapters"
	"github.com/ganai-labs/voiceagents/internal/agent"
	"github.com/ganai-labs/voiceagents/internal/agents"
	"github.com/ganai-labs/voiceagents/internal/eventbus"
	"github.com/ganai-labs/voiceagents/internal/session"
)

const writeTimeout = 10 * time.Second

// ClientFrame is what the client sends: user utterances and a close signal.
type ClientFrame struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ServerFrame is what the server sends back.
type ServerFrame struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Agent     string `json:"agent,omitempty"`
	Persona   string `json:"persona,omitempty"`
	Text      string `json:"text,omitempty"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Options configures the server.
type Options struct {
	ListenAddr string
	AgentCfg   agents.Config
	Model      adapters.LanguageModel
	ModelName  string
	Bus        *eventbus.Bus
	Sessions   *session.Manager
}

// Server serves websocket sessions for all registered agents.
type Server struct {
	opts     Options
	upgrader websocket.Upgrader
	httpSrv  *http.Server
}

// New creates a server. Model and Sessions are required.
func New(opts Options) (*Server, error) {
	if opts.Model == nil {
		return nil, fmt.Errorf("server: no language model configured")
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewManager(opts.Bus)
	}
	s := &Server{
		opts: opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Demo transport; the daemon binds to loopback by default.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	return s, nil
}

// Handler returns the HTTP handler serving /ws/{agent} and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.HandleFunc("GET /agents", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(agents.Names())
	})
	mux.HandleFunc("GET /ws/{agent}", s.handleWS)
	return mux
}

// ListenAndServe blocks serving connections until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.ListenAddr)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", s.opts.ListenAddr, err)
	}
	s.httpSrv = &http.Server{Handler: s.Handler()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpSrv.Shutdown(shutdownCtx)
		s.opts.Sessions.CloseAll("server shutdown")
	}()

	log.Printf("[Server] Listening on %s", ln.Addr())
	if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	agentName := r.PathValue("agent")

	def, cleanup, err := agents.Build(agentName, s.opts.AgentCfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		cleanup()
		log.Printf("[Server] Upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sess := s.opts.Sessions.Create(agentName, cleanup)
	defer s.opts.Sessions.Close(sess.ID, "connection closed")

	runner, err := agent.NewRunner(def, s.opts.Model,
		agent.WithBus(s.opts.Bus),
		agent.WithSessionID(sess.ID),
		agent.WithModel(s.opts.ModelName))
	if err != nil {
		s.writeFrame(conn, ServerFrame{Type: "error", Message: err.Error()})
		return
	}
	s.opts.Sessions.Start(sess.ID)

	s.writeFrame(conn, ServerFrame{
		Type:      "session",
		SessionID: sess.ID,
		Agent:     agentName,
		Persona:   runner.State().CurrentKey(),
	})

	ctx := r.Context()
	if greeting, err := runner.Greeting(ctx); err == nil && greeting != "" {
		s.writeFrame(conn, ServerFrame{Type: "say", Persona: runner.State().CurrentKey(), Text: greeting})
	} else if err != nil {
		log.Printf("[Server] session=%s greeting: %v", sess.ID, err)
	}

	// Frames are handled strictly one at a time per connection.
	for {
		var frame ClientFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[Server] session=%s read: %v", sess.ID, err)
			}
			return
		}

		switch frame.Type {
		case "utterance":
			s.handleUtterance(ctx, conn, runner, frame.Text)
		case "close":
			return
		default:
			s.writeFrame(conn, ServerFrame{Type: "error", Message: fmt.Sprintf("unknown frame type %q", frame.Type)})
		}
	}
}

func (s *Server) handleUtterance(ctx context.Context, conn *websocket.Conn, runner *agent.Runner, text string) {
	before := runner.State().CurrentKey()
	reply, err := runner.HandleUtterance(ctx, text)
	if err != nil {
		s.writeFrame(conn, ServerFrame{Type: "error", Message: err.Error()})
		return
	}
	if after := runner.State().CurrentKey(); after != before {
		s.writeFrame(conn, ServerFrame{Type: "transfer", From: before, To: after})
	}
	if reply != "" {
		s.writeFrame(conn, ServerFrame{Type: "say", Persona: runner.State().CurrentKey(), Text: reply})
	}
}

func (s *Server) writeFrame(conn *websocket.Conn, frame ServerFrame) {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(frame); err != nil {
		log.Printf("[Server] write frame: %v", err)
	}
}
