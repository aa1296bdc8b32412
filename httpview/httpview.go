// Package httpview exposes a running profiler's most recent snapshot as a
// small read-only JSON API (spec §4.11's introspection surface). It is
// deliberately thin - one snapshot, one moment in time, refreshed by
// whoever owns the Server calling Update.
//
// Ported from the retrieval pack's tracer/restapi package: same
// mux.Router-per-version routing style, the same serverError/writeObj
// helper pair for JSON responses, and the same pkg/errors wrapping in
// logged messages.
package httpview

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/manvis/scopeprof/profiler/drawmodel"
	"github.com/manvis/scopeprof/profiler/snapshot"
)

// Server serves the current DrawModel over HTTP. Update swaps in a new one
// atomically; concurrent requests always see a consistent snapshot.
type Server struct {
	Logger *log.Logger

	mu    sync.RWMutex
	model *drawmodel.DrawModel
}

// NewServer creates a Server with no snapshot loaded yet; until the first
// Update, /status reports loaded=false and every other route responds 503.
func NewServer() *Server {
	return &Server{Logger: log.New(os.Stdout, "[httpview] ", 0)}
}

// Update replaces the snapshot the server answers requests from.
func (s *Server) Update(snap *snapshot.ResultSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = drawmodel.Build(snap)
}

func (s *Server) current() *drawmodel.DrawModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// Router builds the mux.Router that serves the API described in spec
// §4.11: thread list, per-thread event window queries and the scope
// summary table.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/status", s.status).Methods(http.MethodGet)
	v1.HandleFunc("/threads", s.threads).Methods(http.MethodGet)
	v1.HandleFunc("/thread/{index}/events", s.threadEvents).Methods(http.MethodGet)
	v1.HandleFunc("/scopes", s.scopes).Methods(http.MethodGet)
	return router
}

func (s *Server) serverError(w http.ResponseWriter, err error, msg string) {
	s.Logger.Println(errors.Wrap(err, msg).Error())
	http.Error(w, msg, http.StatusInternalServerError)
}

func (s *Server) writeObj(w http.ResponseWriter, obj interface{}) {
	js, err := json.Marshal(obj)
	if err != nil {
		s.serverError(w, err, "failed to json.Marshal")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(js); err != nil {
		s.Logger.Println(errors.Wrap(err, "failed to write response").Error())
	}
}

type statusResponse struct {
	Loaded bool `json:"loaded"`
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	dm := s.current()
	s.writeObj(w, statusResponse{Loaded: dm != nil && dm.Err() == nil})
}

type threadsResponse struct {
	Names []string `json:"names"`
}

func (s *Server) threads(w http.ResponseWriter, r *http.Request) {
	dm := s.current()
	if dm == nil {
		http.Error(w, "no snapshot loaded", http.StatusServiceUnavailable)
		return
	}
	s.writeObj(w, threadsResponse{Names: dm.Snapshot().ThreadNames})
}

func (s *Server) threadEvents(w http.ResponseWriter, r *http.Request) {
	dm := s.current()
	if dm == nil {
		http.Error(w, "no snapshot loaded", http.StatusServiceUnavailable)
		return
	}

	idx, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		http.Error(w, "invalid thread index", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	start, err := strconv.ParseInt(q.Get("start"), 10, 64)
	if err != nil {
		start = 0
	}
	end, err := strconv.ParseInt(q.Get("end"), 10, 64)
	if err != nil {
		end = 1<<63 - 1
	}

	events, res := dm.Query(idx, start, end)
	switch res {
	case drawmodel.Unavailable:
		http.Error(w, "thread index out of range", http.StatusNotFound)
	case drawmodel.Failed:
		http.Error(w, "snapshot failed validation", http.StatusInternalServerError)
	default:
		s.writeObj(w, events)
	}
}

func (s *Server) scopes(w http.ResponseWriter, r *http.Request) {
	dm := s.current()
	if dm == nil {
		http.Error(w, "no snapshot loaded", http.StatusServiceUnavailable)
		return
	}

	table, res := dm.ScopeTable()
	if res != drawmodel.Drawn {
		http.Error(w, "snapshot failed validation", http.StatusInternalServerError)
		return
	}
	s.writeObj(w, table)
}
