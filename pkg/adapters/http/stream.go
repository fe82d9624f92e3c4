package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/senglish/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// StreamManager handles active SSE connections
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // SessionID -> Set of Channels
	logger      *slog.Logger
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      slog.Default(),
	}
}

func (sm *StreamManager) Subscribe(sessionID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

// Subscribers returns the number of listeners on a session.
func (sm *StreamManager) Subscribers(sessionID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[sessionID])
}

func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "session_id", sessionID)
		}
	}
}

// publish forwards a session diagnostic to its SSE subscribers.
func (s *Server) publish(ctx context.Context, sessionID string, e *domain.DiagnosticEvent) {
	if s.Streams.Subscribers(sessionID) == 0 {
		return
	}
	payload, err := json.Marshal(e)
	if err != nil {
		s.Logger.Warn("SSE: encode failed", "session_id", sessionID, "error", err)
		return
	}
	s.Streams.Broadcast(sessionID, string(payload))
}

// SubscribeEvents handles GET /sessions/{id}/stream (SSE).
// The optional kinds query parameter filters diagnostics by kind.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	sessionID := chi.URLParam(r, "id")
	s.Logger.Info("SSE: Subscribing to Session Diagnostics", "session_id", sessionID)

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	kinds := parseKinds(r.URL.Query().Get("kinds"))

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE Client Disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(kinds) > 0 {
				var ev domain.DiagnosticEvent
				if err := json.Unmarshal([]byte(msg), &ev); err == nil {
					if _, keep := kinds[ev.Diagnostic.Kind]; !keep {
						continue
					}
				}
			}
			fmt.Fprintf(w, "event: diagnostic\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func parseKinds(raw string) map[domain.DiagnosticKind]struct{} {
	if raw == "" {
		return nil
	}
	kinds := make(map[domain.DiagnosticKind]struct{})
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			kinds[domain.DiagnosticKind(k)] = struct{}{}
		}
	}
	return kinds
}
