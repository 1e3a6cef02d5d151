package logging

import (
	"sync"
)

// ErrorSampler reduces log noise by sampling repeated errors: the first
// occurrence is logged, then every Nth.
type ErrorSampler struct {
	mu       sync.RWMutex
	counts   map[string]int
	interval int
}

// NewErrorSampler creates a sampler that admits every interval-th occurrence
// of each error key after the first.
func NewErrorSampler(interval int) *ErrorSampler {
	if interval < 1 {
		interval = 10
	}
	return &ErrorSampler{
		counts:   make(map[string]int),
		interval: interval,
	}
}

// ShouldLog returns true if this occurrence of errorKey should be logged.
func (s *ErrorSampler) ShouldLog(errorKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[errorKey]++
	count := s.counts[errorKey]

	return count == 1 || count%s.interval == 0
}

// GetCount returns the current count for an error key.
func (s *ErrorSampler) GetCount(errorKey string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[errorKey]
}

// Reset clears the count for a specific error key.
func (s *ErrorSampler) Reset(errorKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counts, errorKey)
}

// ResetAll clears all error counts.
func (s *ErrorSampler) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = make(map[string]int)
}
