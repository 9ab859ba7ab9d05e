package repository

import (
	"strconv"
	"sync"

	"github.com/felixgeelhaar/flowforge/internal/domain"
)

// Well-known metadata keys.
const (
	MetaUrgent      = "urgent"
	MetaStoryPoints = "story_points"
	MetaBlockedBy   = "blocked_by"
)

// MetadataRepository stores per-item string key/value pairs: the urgent
// flag, story-point estimates, blocked annotations. Safe for concurrent
// use.
type MetadataRepository struct {
	mu   sync.RWMutex
	data map[domain.ItemID]map[string]string
}

// NewMetadataRepository creates an empty metadata repository.
func NewMetadataRepository() *MetadataRepository {
	return &MetadataRepository{data: make(map[domain.ItemID]map[string]string)}
}

// Set stores a key/value pair for the item.
func (r *MetadataRepository) Set(id domain.ItemID, key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.data[id] == nil {
		r.data[id] = make(map[string]string)
	}
	r.data[id][key] = value
}

// Get returns the value for the item's key and whether it was present.
func (r *MetadataRepository) Get(id domain.ItemID, key string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.data[id][key]
	return value, ok
}

// Delete removes a key for the item.
func (r *MetadataRepository) Delete(id domain.ItemID, key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.data[id], key)
	if len(r.data[id]) == 0 {
		delete(r.data, id)
	}
}

// SetUrgent flags or unflags the item as an urgent production incident.
func (r *MetadataRepository) SetUrgent(id domain.ItemID, urgent bool) {
	if urgent {
		r.Set(id, MetaUrgent, "true")
		return
	}
	r.Delete(id, MetaUrgent)
}

// IsUrgent implements queue.Urgency.
func (r *MetadataRepository) IsUrgent(id domain.ItemID) bool {
	value, ok := r.Get(id, MetaUrgent)
	return ok && value == "true"
}

// SetEstimate stores a story-point estimate for the item.
func (r *MetadataRepository) SetEstimate(id domain.ItemID, points int) {
	r.Set(id, MetaStoryPoints, strconv.Itoa(points))
}

// Estimate returns the stored story-point estimate and whether one
// exists. Unparseable values count as absent.
func (r *MetadataRepository) Estimate(id domain.ItemID) (int, bool) {
	value, ok := r.Get(id, MetaStoryPoints)
	if !ok {
		return 0, false
	}
	points, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return points, true
}

// Estimates returns the story-point estimates for the given items.
func (r *MetadataRepository) Estimates(items []domain.WorkItem) map[domain.ItemID]int {
	out := make(map[domain.ItemID]int)
	for _, item := range items {
		if points, ok := r.Estimate(item.ID); ok {
			out[item.ID] = points
		}
	}
	return out
}
