// Package web serves the build graph's read API over HTTP: report
// endpoints, target lookup, path stitching and an SSE stream of trace
// status events for watch mode.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"github.com/makegrind/makegrind/pkg/graph"
	"github.com/makegrind/makegrind/pkg/logging"
	"github.com/makegrind/makegrind/pkg/pubsub"
	"github.com/makegrind/makegrind/pkg/query"
	"github.com/makegrind/makegrind/pkg/report"
)

// Server exposes a loaded trace over HTTP. The graph reference is
// swapped atomically on reload; request handlers only ever read it.
type Server struct {
	router    *mux.Router
	publisher *pubsub.SSEPublisher

	mu    sync.RWMutex
	graph *graph.BuildGraph
}

// NewServer creates the server with no trace loaded yet.
func NewServer() *Server {
	publisher := pubsub.NewSSEPublisher()
	publisher.ConfigureTopic("trace_status", pubsub.TopicConfig{
		BufferSize: 10,
		ReplayAll:  false, // New subscribers only need the current state
	})

	s := &Server{
		router:    mux.NewRouter(),
		publisher: publisher,
	}
	s.setupRoutes()
	return s
}

// SetGraph swaps in a freshly loaded graph and publishes its counts.
func (s *Server) SetGraph(bg *graph.BuildGraph) {
	s.mu.Lock()
	s.graph = bg
	s.mu.Unlock()

	status := pubsub.TraceStatus{
		State:        "ready",
		Message:      "trace loaded",
		Processes:    bg.Processes(),
		Targets:      bg.Targets().Targets(),
		Dependencies: bg.Targets().Dependencies(),
	}
	if err := s.publisher.Publish("trace_status", status.State, status); err != nil {
		logging.Warn("publishing trace status", "error", err)
	}
}

// PublishStatus publishes an intermediate state, e.g. while reloading.
func (s *Server) PublishStatus(state, message string) {
	status := pubsub.TraceStatus{State: state, Message: message}
	if err := s.publisher.Publish("trace_status", state, status); err != nil {
		logging.Warn("publishing trace status", "error", err)
	}
}

func (s *Server) currentGraph() *graph.BuildGraph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/subscribe/status", s.handleSubscribeStatus).Methods("GET")
	s.router.HandleFunc("/api/status", s.handleStatus).Methods("GET")
	s.router.HandleFunc("/api/reports/{key}", s.handleReport).Methods("GET")
	s.router.HandleFunc("/api/targets", s.handleTargets).Methods("GET")
	s.router.HandleFunc("/api/path", s.handlePath).Methods("GET")
	s.router.Use(logging.RequestIDMiddleware)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("encoding response", "error", err)
	}
}

// writeError maps core error kinds onto HTTP statuses: caller mistakes
// are 400, empty lookups 404, data-integrity problems 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var noFilter *query.NoFilterCriteriaError
	var notFound *query.TargetNotFoundError
	var noChain *query.DependencyChainNotFoundError
	var noEntry *graph.EntryPointNotFoundError
	switch {
	case errors.As(err, &noFilter):
		status = http.StatusBadRequest
	case errors.As(err, &notFound), errors.As(err, &noChain), errors.As(err, &noEntry):
		status = http.StatusNotFound
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	bg := s.currentGraph()
	if bg == nil {
		writeJSON(w, http.StatusOK, pubsub.TraceStatus{State: "loading", Message: "no trace loaded"})
		return
	}
	writeJSON(w, http.StatusOK, pubsub.TraceStatus{
		State:        "ready",
		Processes:    bg.Processes(),
		Targets:      bg.Targets().Targets(),
		Dependencies: bg.Targets().Dependencies(),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	bg := s.currentGraph()
	if bg == nil {
		writeError(w, fmt.Errorf("no trace loaded"))
		return
	}

	opts := report.Options{
		MaxEntries: queryInt(r, "max_entries", 0),
		Children:   queryInt(r, "children", 0),
		Prefix:     r.URL.Query().Get("prefix"),
		Targets:    r.URL.Query()["target"],
	}

	rep, err := report.New(mux.Vars(r)["key"], bg, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	fields, err := report.Render(rep)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fields)
}

func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	bg := s.currentGraph()
	if bg == nil {
		writeError(w, fmt.Errorf("no trace loaded"))
		return
	}

	filter := query.Filter{
		Target:   r.URL.Query().Get("name"),
		Makefile: r.URL.Query().Get("makefile"),
		Pid:      queryInt(r, "pid", 0),
	}
	keys, err := query.FindTarget(bg, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"targets": keys})
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	bg := s.currentGraph()
	if bg == nil {
		writeError(w, fmt.Errorf("no trace loaded"))
		return
	}

	path, err := query.FindPath(bg, r.URL.Query()["target"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"path": path})
}

func (s *Server) handleSubscribeStatus(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sub, err := s.publisher.Subscribe(ctx, "trace_status")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer sub.Close()

	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := pubsub.WriteSSE(w, event); err != nil {
				logging.DebugContext(ctx, "subscriber gone", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// Start runs the server until it fails or the listener closes.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logging.Info("starting web server", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}
