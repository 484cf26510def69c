// Package remotetest runs an in-memory stand-in for the remote record
// service over HTTP. It speaks the same query-string protocol and answers
// with callback-wrapped envelopes.
package remotetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Server is a fake remote service backed by a slice of rows.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	rows     []map[string]any
	nextID   int
	calls    []string
	counts   map[string]int
	rejects  map[string]map[int]string
	statuses map[string]int
	hang     map[string]bool
	plain    bool
}

// New starts a server seeded with rows (ids are assigned where missing) and
// closes it when the test ends.
func New(t testing.TB, seed ...map[string]any) *Server {
	t.Helper()
	s := &Server{
		counts:   make(map[string]int),
		rejects:  make(map[string]map[int]string),
		statuses: make(map[string]int),
		hang:     make(map[string]bool),
	}
	for _, r := range seed {
		s.rows = append(s.rows, s.withID(r))
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// RejectNth makes the nth (1-based) call of op answer ok:false with msg.
func (s *Server) RejectNth(op string, n int, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rejects[op] == nil {
		s.rejects[op] = make(map[int]string)
	}
	s.rejects[op][n] = msg
}

// FailWithStatus makes every call of op answer with an HTTP error status.
// Use "*" for every op; 0 clears it.
func (s *Server) FailWithStatus(op string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[op] = status
}

// Hang makes calls of op block until the client gives up.
func (s *Server) Hang(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hang[op] = true
}

// PlainJSON answers without the callback wrapper.
func (s *Server) PlainJSON() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plain = true
}

// Rows returns a copy of the stored rows.
func (s *Server) Rows() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, len(s.rows))
	for i, r := range s.rows {
		out[i] = clone(r)
	}
	return out
}

// Calls returns the ops received so far, in order.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Count returns how many times op was called.
func (s *Server) Count(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[op]
}

type envelope struct {
	OK    bool             `json:"ok"`
	Rows  []map[string]any `json:"rows,omitempty"`
	Error string           `json:"error,omitempty"`
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	op := q.Get("op")
	callback := q.Get("callback")

	s.mu.Lock()
	s.calls = append(s.calls, op)
	s.counts[op]++
	n := s.counts[op]
	hang := s.hang[op]
	status := s.statuses[op]
	if status == 0 {
		status = s.statuses["*"]
	}
	s.mu.Unlock()

	if hang {
		<-r.Context().Done()
		return
	}
	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}

	env := s.apply(op, n, q.Get("data"), q.Get("id"))
	body, _ := json.Marshal(env)

	s.mu.Lock()
	plain := s.plain
	s.mu.Unlock()
	if plain || callback == "" {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
		return
	}
	w.Header().Set("Content-Type", "application/javascript")
	_, _ = fmt.Fprintf(w, "%s(%s);", callback, body)
}

func (s *Server) apply(op string, n int, data, id string) envelope {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg, ok := s.rejects[op][n]; ok {
		return envelope{OK: false, Error: msg}
	}

	switch op {
	case "list":
		rows := make([]map[string]any, len(s.rows))
		for i, r := range s.rows {
			rows[i] = clone(r)
		}
		return envelope{OK: true, Rows: rows}
	case "add":
		row, err := decode(data)
		if err != nil {
			return envelope{Error: err.Error()}
		}
		delete(row, "id")
		row = s.withID(row)
		s.rows = append(s.rows, row)
		return envelope{OK: true, Rows: []map[string]any{clone(row)}}
	case "update":
		row, err := decode(data)
		if err != nil {
			return envelope{Error: err.Error()}
		}
		rid, _ := row["id"].(string)
		for i, existing := range s.rows {
			if existing["id"] == rid {
				s.rows[i] = row
				return envelope{OK: true}
			}
		}
		return envelope{Error: "no row with id " + rid}
	case "delete":
		for i, existing := range s.rows {
			if existing["id"] == id {
				s.rows = append(s.rows[:i], s.rows[i+1:]...)
				return envelope{OK: true}
			}
		}
		return envelope{Error: "no row with id " + id}
	case "wipe":
		s.rows = nil
		return envelope{OK: true}
	default:
		return envelope{Error: "unknown op " + op}
	}
}

func (s *Server) withID(r map[string]any) map[string]any {
	r = clone(r)
	if id, _ := r["id"].(string); id == "" {
		s.nextID++
		r["id"] = fmt.Sprintf("row-%d", s.nextID)
	}
	return r
}

func decode(data string) (map[string]any, error) {
	var row map[string]any
	if err := json.Unmarshal([]byte(data), &row); err != nil {
		return nil, fmt.Errorf("bad data: %w", err)
	}
	if row == nil {
		return nil, fmt.Errorf("bad data: not an object")
	}
	return row, nil
}

func clone(r map[string]any) map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
