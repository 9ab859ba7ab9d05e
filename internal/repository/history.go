package repository

import (
	"sync"

	"github.com/felixgeelhaar/flowforge/internal/domain"
	"github.com/felixgeelhaar/flowforge/internal/workflow"
)

// HistoryRecord is one entry in an item's transition history. The
// fingerprint is the snapshot hash after the transition was applied.
type HistoryRecord struct {
	Event       workflow.TransitionEvent
	Fingerprint string
}

// HistoryRepository is an append-only store of transition history.
// Safe for concurrent use.
type HistoryRepository struct {
	mu      sync.RWMutex
	records map[domain.ItemID][]HistoryRecord
}

// NewHistoryRepository creates an empty history repository.
func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{records: make(map[domain.ItemID][]HistoryRecord)}
}

// Record appends a transition event for its item.
func (r *HistoryRepository) Record(event workflow.TransitionEvent, snapshot domain.WorkItem) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[event.ItemID] = append(r.records[event.ItemID], HistoryRecord{
		Event:       event,
		Fingerprint: snapshot.Fingerprint(),
	})
}

// ForItem returns the item's history in recording order.
func (r *HistoryRepository) ForItem(id domain.ItemID) []HistoryRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]HistoryRecord, len(r.records[id]))
	copy(out, r.records[id])
	return out
}
