package logging

import (
	"strings"
	"sync"
)

// ProgressSampler decides when batch progress is worth a log line: whenever
// the completed share crosses a bucket boundary (default 10%) or the phase
// changes. It is safe for concurrent use by batch workers.
type ProgressSampler struct {
	mu         sync.Mutex
	bucketSize float64
	lastPhase  string
	lastBucket int
}

// NewProgressSampler returns a sampler with the given bucket size in percent.
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 10
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// Observe records done of total in phase and reports whether to log it.
func (s *ProgressSampler) Observe(phase string, done, total int) bool {
	if s == nil {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	phase = strings.TrimSpace(phase)
	emit := false
	if phase != s.lastPhase {
		s.lastPhase = phase
		s.lastBucket = -1
		emit = true
	}
	if total <= 0 {
		return emit
	}
	percent := float64(done) * 100 / float64(total)
	if percent > 100 {
		percent = 100
	}
	if bucket := int(percent / s.bucketSize); bucket > s.lastBucket {
		s.lastBucket = bucket
		emit = true
	}
	return emit
}

// Reset clears the sampler state before a new run.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.lastPhase = ""
	s.lastBucket = -1
	s.mu.Unlock()
}
