// Package server exposes a Translator over a WebSocket API.
package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/happyhackingspace/werger"
	"github.com/happyhackingspace/werger/decoder"
	"github.com/happyhackingspace/werger/internal/textutil"
)

// Response is the reply sent for one translated message.
type Response struct {
	Text    string  `json:"text"`
	Logprob float64 `json:"logprob"`
	TM      float64 `json:"tm"`
	LM      float64 `json:"lm"`
	Error   string  `json:"error,omitempty"`
}

// Server translates WebSocket text messages, one sentence per message.
type Server struct {
	tr       *werger.Translator
	upgrader websocket.Upgrader
}

// New creates a Server around a loaded translator.
func New(tr *werger.Translator) *Server {
	return &Server{tr: tr}
}

// Handler returns the HTTP routes: /translate upgrades to a WebSocket
// and /healthz answers liveness probes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/translate", s.handleTranslate)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()
	slog.Debug("Client connected", "remote", conn.RemoteAddr())

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			slog.Debug("Client disconnected", "remote", conn.RemoteAddr())
			return
		}
		if err := conn.WriteJSON(s.translate(string(msg))); err != nil {
			slog.Error("WebSocket write failed", "error", err)
			return
		}
	}
}

func (s *Server) translate(text string) Response {
	words := textutil.Tokenize(textutil.Normalize(text))
	res, err := s.tr.Translate(words)
	if err != nil {
		if errors.Is(err, decoder.ErrNoTranslation) {
			return Response{Error: "no translation found"}
		}
		return Response{Error: err.Error()}
	}
	return Response{Text: res.Text(), Logprob: res.Logprob, TM: res.TM, LM: res.LM}
}
