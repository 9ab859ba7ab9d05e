// Package repository provides the in-memory stores backing the tracker:
// work items, per-item metadata, and transition history.
package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/felixgeelhaar/flowforge/internal/domain"
)

// CreateRequest carries the fields for a new work item. State is not a
// field: every item starts in FOUND.
type CreateRequest struct {
	Title       string
	Description string
	Type        domain.Type
	Priority    domain.Priority
	Assignee    string
}

// ItemRepository stores work items in memory. Safe for concurrent use.
type ItemRepository struct {
	mu    sync.RWMutex
	items map[domain.ItemID]domain.WorkItem
}

// NewItemRepository creates an empty item repository.
func NewItemRepository() *ItemRepository {
	return &ItemRepository{items: make(map[domain.ItemID]domain.WorkItem)}
}

// Create stores a new work item in state FOUND and returns its snapshot.
func (r *ItemRepository) Create(_ context.Context, req CreateRequest) (domain.WorkItem, error) {
	now := time.Now().UTC()
	item := domain.WorkItem{
		ID:          domain.NewItemID(),
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		State:       domain.StateFound,
		Priority:    req.Priority,
		Assignee:    req.Assignee,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := item.Validate(); err != nil {
		return domain.WorkItem{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	return item, nil
}

// Get returns the snapshot for the given ID, or *UnknownItemError.
func (r *ItemRepository) Get(_ context.Context, id domain.ItemID) (domain.WorkItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return domain.WorkItem{}, &UnknownItemError{ID: id}
	}
	return item, nil
}

// List returns all snapshots ordered by creation time, oldest first.
func (r *ItemRepository) List(context.Context) ([]domain.WorkItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]domain.WorkItem, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID.String() < items[j].ID.String()
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

// Update replaces the stored snapshot for the item's ID.
func (r *ItemRepository) Update(_ context.Context, item domain.WorkItem) (domain.WorkItem, error) {
	if err := item.Validate(); err != nil {
		return domain.WorkItem{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return domain.WorkItem{}, &UnknownItemError{ID: item.ID}
	}
	item.UpdatedAt = time.Now().UTC()
	r.items[item.ID] = item
	return item, nil
}

// Delete removes the item, or returns *UnknownItemError.
func (r *ItemRepository) Delete(_ context.Context, id domain.ItemID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return &UnknownItemError{ID: id}
	}
	delete(r.items, id)
	return nil
}

// Count returns the number of stored items.
func (r *ItemRepository) Count(context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}
