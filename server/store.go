package server

import (
	"sync"
	"time"

	"github.com/martinemde/amrviz/amrgraph"
	"github.com/martinemde/amrviz/visnet"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Result is a stored conversion.
type Result struct {
	ID          string                `json:"id"`
	Mode        amrgraph.Mode         `json:"mode"`
	Payload     visnet.Payload        `json:"payload"`
	Diagnostics []amrgraph.Diagnostic `json:"diagnostics,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}

// Store keeps the most recent results in memory. When full, the oldest result
// is evicted.
type Store struct {
	mu       sync.RWMutex
	results  *orderedmap.OrderedMap[string, *Result]
	capacity int
}

// NewStore creates a Store holding at most capacity results.
func NewStore(capacity int) *Store {
	if capacity < 1 {
		capacity = 1
	}
	return &Store{
		results:  orderedmap.New[string, *Result](),
		capacity: capacity,
	}
}

// Put stores r and returns how many older results were evicted.
func (s *Store) Put(r *Result) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results.Set(r.ID, r)
	evicted := 0
	for s.results.Len() > s.capacity {
		oldest := s.results.Oldest()
		s.results.Delete(oldest.Key)
		evicted++
	}
	return evicted
}

// Get returns the result with the given ID.
func (s *Store) Get(id string) (*Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results.Get(id)
}

// Len returns the number of stored results.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results.Len()
}
