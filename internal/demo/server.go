// Package demo serves a scripted Blitz campaign over the real wire
// contract, so the TUI can be exercised end to end without a telephony
// backend. One campaign per POST /api/chat; events stream from
// GET /api/stream/{sessionID}.
package demo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/call-blitz/tui/internal/client"
)

const keepaliveInterval = 30 * time.Second

// event is one queued SSE message.
type event struct {
	name string
	data interface{}
}

// campaign is one simulated calling session.
type campaign struct {
	id      string
	service string
	script  []scriptedCall
	pacing  float64
	events  chan event

	mu         sync.Mutex
	status     string
	businesses []client.BusinessPayload
	calls      []callState
	summary    string
}

type callState struct {
	business string
	status   string
	result   string
	err      string
}

func (c *campaign) emit(name string, data interface{}) {
	for {
		select {
		case c.events <- event{name: name, data: data}:
			return
		default:
		}
		// Queue full: drop the oldest event so the newest, which may be the
		// terminal frame, always lands.
		select {
		case <-c.events:
		default:
		}
	}
}

func (c *campaign) setBusinesses(bs []client.BusinessPayload) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = "calling"
	c.businesses = bs
	c.calls = make([]callState, len(bs))
	for i, b := range bs {
		c.calls[i] = callState{business: b.Name, status: "pending"}
	}
}

func (c *campaign) setCallStatus(idx int, status, result, errMsg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx < 0 || idx >= len(c.calls) {
		return
	}
	c.calls[idx].status = status
	c.calls[idx].result = result
	c.calls[idx].err = errMsg
}

func (c *campaign) finish(status, summary string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
	c.summary = summary
}

func (c *campaign) results() []map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]map[string]string, len(c.calls))
	for i, cs := range c.calls {
		out[i] = map[string]string{
			"business": cs.business,
			"status":   cs.status,
			"result":   cs.result,
			"error":    cs.err,
		}
	}
	return out
}

// Server hosts the demo backend.
type Server struct {
	log    *zap.Logger
	pacing float64

	mu        sync.Mutex
	campaigns map[string]*campaign
}

// NewServer creates a demo server. pacing scales every scripted delay;
// 1.0 is real-time, smaller is faster.
func NewServer(log *zap.Logger, pacing float64) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if pacing <= 0 {
		pacing = 1.0
	}
	return &Server{
		log:       log,
		pacing:    pacing,
		campaigns: make(map[string]*campaign),
	}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/api/chat", s.handleChat)
	r.Get("/api/stream/{sessionID}", s.handleStream)
	r.Get("/api/session/{sessionID}", s.handleSession)
	return r
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req client.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	service := "plumber" // the demo always finds plumbers, whatever you ask for
	c := &campaign{
		id:      uuid.NewString(),
		service: service,
		script:  defaultScript(service),
		pacing:  s.pacing,
		events:  make(chan event, 256),
		status:  "searching",
	}

	s.mu.Lock()
	s.campaigns[c.id] = c
	s.mu.Unlock()

	// Detached from the request context: the campaign outlives the POST.
	go c.run(context.Background())

	s.log.Info("demo campaign started",
		zap.String("session_id", c.id),
		zap.String("message", req.Message))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(client.ChatResponse{
		SessionID: c.id,
		Agent:     "blitz",
		Status:    "searching",
		Message:   fmt.Sprintf("On it - calling %ss near you now.", service),
	})
}

func (s *Server) campaign(id string) *campaign {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.campaigns[id]
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	c := s.campaign(id)
	if c == nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Initial session state, like a reconnect would need.
	c.mu.Lock()
	start := map[string]interface{}{
		"session_id": c.id,
		"status":     c.status,
		"businesses": c.businesses,
	}
	c.mu.Unlock()
	writeSSE(w, client.EventSessionStart, start)
	flusher.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			s.log.Debug("stream client disconnected", zap.String("session_id", id))
			return
		case ev := <-c.events:
			writeSSE(w, ev.name, ev.data)
			flusher.Flush()
			if ev.name == client.EventSessionComplete || ev.name == client.EventError {
				return
			}
		case <-keepalive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	c := s.campaign(id)
	if c == nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	c.mu.Lock()
	resp := map[string]interface{}{
		"session_id": c.id,
		"status":     c.status,
		"businesses": c.businesses,
		"summary":    c.summary,
	}
	c.mu.Unlock()
	resp["calls"] = c.results()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func writeSSE(w http.ResponseWriter, name string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		payload = []byte("{}")
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload)
}
