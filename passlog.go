package etp

import (
	"sync"
	"time"
)

// PassRecord summarises one recomputation pass.
type PassRecord struct {
	ID         uint64
	Trigger    string
	Recomputed []string
	Written    []string
	Skipped    int
	Duration   time.Duration
}

// Settled reports whether the pass left every recomputed group unchanged.
func (p PassRecord) Settled() bool {
	return len(p.Written) == 0
}

// PassLog is a bounded history of passes, oldest first.
type PassLog struct {
	mu      sync.RWMutex
	records []PassRecord
	limit   int
}

func newPassLog(limit int) *PassLog {
	return &PassLog{
		records: make([]PassRecord, 0, limit),
		limit:   limit,
	}
}

func (l *PassLog) add(rec PassRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, rec)
	if len(l.records) > l.limit {
		l.evictOldest()
	}
}

func (l *PassLog) evictOldest() {
	if len(l.records) == 0 {
		return
	}
	l.records = append(l.records[:0], l.records[1:]...)
}

// Records returns a copy of the retained passes
func (l *PassLog) Records() []PassRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]PassRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Last returns the most recent pass
func (l *PassLog) Last() (PassRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.records) == 0 {
		return PassRecord{}, false
	}
	return l.records[len(l.records)-1], true
}

// Filter returns the passes matching predicate
func (l *PassLog) Filter(predicate func(PassRecord) bool) []PassRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var result []PassRecord
	for _, rec := range l.records {
		if predicate(rec) {
			result = append(result, rec)
		}
	}
	return result
}
