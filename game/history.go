package game

import (
	"sync"

	"crashpilot/models"
)

// Recorder is the append-only log of completed rounds, kept for the recent
// results strip and offline fairness audits. Settlement never reads it.
type Recorder struct {
	mu      sync.RWMutex
	entries []models.HistoryEntry
	cap     int
}

func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = 200
	}
	return &Recorder{cap: capacity}
}

// Record appends one completed round. Oldest entries fall off once the ring
// is full.
func (r *Recorder) Record(e models.HistoryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	if len(r.entries) > r.cap {
		r.entries = r.entries[len(r.entries)-r.cap:]
	}
}

// Recent returns up to n entries, newest first.
func (r *Recorder) Recent(n int) []models.HistoryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if n <= 0 || n > len(r.entries) {
		n = len(r.entries)
	}
	out := make([]models.HistoryEntry, 0, n)
	for i := len(r.entries) - 1; i >= len(r.entries)-n; i-- {
		out = append(out, r.entries[i])
	}
	return out
}

// Len returns the number of retained entries.
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
