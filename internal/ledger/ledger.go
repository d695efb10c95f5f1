package ledger

import "FilingWatch/internal/domain"

// DefaultCapacity bounds the persisted seen-set size.
const DefaultCapacity = 5000

// Ledger is the in-memory seen-set for one run. Keys are held in explicit
// insertion order so that the capacity trim keeps the most recently observed
// keys; a key is never refreshed on re-observation, which preserves
// at-most-once reporting across runs.
type Ledger struct {
	keys  []string
	index map[string]struct{}
}

// New builds a ledger from previously persisted keys, dropping duplicates
// while keeping first-occurrence order.
func New(seen []string) *Ledger {
	l := &Ledger{index: make(map[string]struct{}, len(seen))}
	for _, k := range seen {
		if k == "" {
			continue
		}
		if _, ok := l.index[k]; ok {
			continue
		}
		l.index[k] = struct{}{}
		l.keys = append(l.keys, k)
	}
	return l
}

// Classify consumes records in order and returns the ones whose key has not
// been seen before, inserting each new key immediately so a key repeated
// across pages or rules in the same run is reported once. Records with an
// invalid key are dropped.
func (l *Ledger) Classify(records []domain.FilingRecord) []domain.FilingRecord {
	var fresh []domain.FilingRecord
	for _, rec := range records {
		if !rec.Valid() {
			continue
		}
		if _, ok := l.index[rec.Key]; ok {
			continue
		}
		l.index[rec.Key] = struct{}{}
		l.keys = append(l.keys, rec.Key)
		fresh = append(fresh, rec)
	}
	return fresh
}

// Size returns the number of distinct keys currently held.
func (l *Ledger) Size() int {
	return len(l.keys)
}

// Snapshot returns at most capacity keys in insertion order, newest retained.
// A non-positive capacity falls back to DefaultCapacity.
func (l *Ledger) Snapshot(capacity int) []string {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	keys := l.keys
	if len(keys) > capacity {
		keys = keys[len(keys)-capacity:]
	}

	out := make([]string, len(keys))
	copy(out, keys)
	return out
}
