// Package observability counts DDL outcomes seen by the HTTP front end.
package observability

import (
	"sort"
	"sync"
	"time"
)

// StatementStats tracks accepted statements by kind and rejections by error code.
type StatementStats struct {
	mu       sync.RWMutex
	accepted map[string]*Counter
	rejected map[string]*Counter
	window   time.Duration
	now      func() time.Time
}

// Counter is the frequency of one statement kind or error code.
type Counter struct {
	Key      string    `json:"key"`
	Count    int64     `json:"count"`
	LastSeen time.Time `json:"last_seen"`
}

// Snapshot is a point in time copy of the tracked counters, ordered by count.
type Snapshot struct {
	Accepted []Counter `json:"accepted"`
	Rejected []Counter `json:"rejected"`
}

// NewStatementStats creates a tracker whose entries expire after window
// without activity. A zero window keeps entries forever.
func NewStatementStats(window time.Duration) *StatementStats {
	return &StatementStats{
		accepted: make(map[string]*Counter),
		rejected: make(map[string]*Counter),
		window:   window,
		now:      time.Now,
	}
}

// RecordAccepted counts a parsed statement of the given kind (create_table, create_database).
func (s *StatementStats) RecordAccepted(kind string) {
	s.record(s.accepted, kind)
}

// RecordRejected counts a failed parse by error code.
func (s *StatementStats) RecordRejected(code string) {
	if code == "" {
		code = "UNKNOWN"
	}
	s.record(s.rejected, code)
}

func (s *StatementStats) record(m map[string]*Counter, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := m[key]
	if !ok {
		c = &Counter{Key: key}
		m[key] = c
	}
	c.Count++
	c.LastSeen = s.now()
}

// Snapshot copies both counter sets, most frequent first.
func (s *StatementStats) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Accepted: sorted(s.accepted),
		Rejected: sorted(s.rejected),
	}
}

func sorted(m map[string]*Counter) []Counter {
	out := make([]Counter, 0, len(m))
	for _, c := range m {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Prune drops counters idle for longer than the window.
func (s *StatementStats) Prune() {
	if s.window <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	threshold := s.now().Add(-s.window)
	for _, m := range []map[string]*Counter{s.accepted, s.rejected} {
		for k, c := range m {
			if c.LastSeen.Before(threshold) {
				delete(m, k)
			}
		}
	}
}
