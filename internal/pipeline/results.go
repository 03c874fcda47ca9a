package pipeline

import (
	"context"
	"sync"
	"time"
)

// ResultStore keeps recent conversions in memory so a client can fetch the
// same bibliography again in another format.
type ResultStore struct {
	mu      sync.Mutex
	results map[string]*Result
	ttl     time.Duration
	now     func() time.Time
}

func NewResultStore(ttl time.Duration) *ResultStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResultStore{
		results: make(map[string]*Result),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put stores res under its DocID, replacing any earlier conversion of the
// same text.
func (s *ResultStore) Put(res *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res.CreatedAt = s.now()
	s.results[res.DocID] = res
}

// Get returns the stored result or nil when it is missing or expired.
func (s *ResultStore) Get(docID string) *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.results[docID]
	if res == nil || s.now().Sub(res.CreatedAt) > s.ttl {
		return nil
	}
	return res
}

// Len reports the number of stored results, expired ones included.
func (s *ResultStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

// Cleanup removes expired results.
func (s *ResultStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, res := range s.results {
		if now.Sub(res.CreatedAt) > s.ttl {
			delete(s.results, id)
		}
	}
}

// Run calls Cleanup every interval until ctx is done.
func (s *ResultStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup()
		}
	}
}
