// Package history provides the append-only ledger of price observations.
package history

import (
	"sync"

	"github.com/cartscout/backend/internal/domain"
)

// Ledger is a thread-safe, append-only, order-preserving record of every
// observation made during a session. No deduplication and no eviction:
// repeated searches for the same product intentionally produce multiple
// entries, so an external collaborator can analyse price trends.
type Ledger struct {
	mu      sync.RWMutex
	records []domain.ObservedRecord
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{records: make([]domain.ObservedRecord, 0)}
}

// Append adds records in arrival order.
func (l *Ledger) Append(records ...domain.ObservedRecord) {
	if len(records) == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, records...)
}

// Snapshot returns a copy of the ledger contents. Mutating the returned
// slice does not affect the ledger.
func (l *Ledger) Snapshot() []domain.ObservedRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	snapshot := make([]domain.ObservedRecord, len(l.records))
	copy(snapshot, l.records)
	return snapshot
}

// Len reports the number of records appended so far.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
