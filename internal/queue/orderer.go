// Package queue orders candidate work items for selection: priority
// first, oldest first within a priority, urgent production incidents
// hoisted to the front of the line.
package queue

import (
	"context"
	"sort"

	"github.com/felixgeelhaar/flowforge/internal/domain"
)

// Urgency reports whether an item is flagged as an urgent production
// incident. Backed by the metadata store in this repository.
type Urgency interface {
	IsUrgent(id domain.ItemID) bool
}

// UrgentEvent is emitted when an urgent item is hoisted so the caller
// can forward a notification. The orderer sends no messages itself.
type UrgentEvent struct {
	ItemID domain.ItemID
	Reason string
}

// Notifier receives urgent-hoist events.
type Notifier interface {
	NotifyUrgent(ctx context.Context, event UrgentEvent) error
}

// NopNotifier discards events.
type NopNotifier struct{}

// NotifyUrgent implements Notifier
func (NopNotifier) NotifyUrgent(context.Context, UrgentEvent) error { return nil }

// noUrgency marks nothing urgent.
type noUrgency struct{}

func (noUrgency) IsUrgent(domain.ItemID) bool { return false }

// Orderer computes work selection order. It holds no item state.
type Orderer struct {
	urgency  Urgency
	notifier Notifier
}

// New creates an Orderer. Either collaborator may be nil: nil urgency
// flags nothing, nil notifier discards events.
func New(urgency Urgency, notifier Notifier) *Orderer {
	if urgency == nil {
		urgency = noUrgency{}
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Orderer{urgency: urgency, notifier: notifier}
}

// Order returns the items in selection order: priority rank descending,
// creation time ascending within a rank. Urgent items move to the front
// regardless of base order, stable among themselves, and an UrgentEvent
// is emitted for each. The input slice is not modified.
func (o *Orderer) Order(ctx context.Context, items []domain.WorkItem) ([]domain.WorkItem, error) {
	ordered := make([]domain.WorkItem, len(items))
	copy(ordered, items)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority.Rank() != ordered[j].Priority.Rank() {
			return ordered[i].Priority.Rank() > ordered[j].Priority.Rank()
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	var urgent, rest []domain.WorkItem
	for _, item := range ordered {
		if o.urgency.IsUrgent(item.ID) {
			urgent = append(urgent, item)
			continue
		}
		rest = append(rest, item)
	}
	for _, item := range urgent {
		event := UrgentEvent{ItemID: item.ID, Reason: "urgent production incident hoisted"}
		if err := o.notifier.NotifyUrgent(ctx, event); err != nil {
			return nil, err
		}
	}
	return append(urgent, rest...), nil
}

// SelectWithinCapacity orders the items and greedily accepts each one
// whose estimate still fits the remaining capacity. Items without an
// estimate count as 1. Running out of capacity is not an error; the
// partial list is maximal over the ordered input. Negative estimates
// and negative capacity are typed errors.
func (o *Orderer) SelectWithinCapacity(ctx context.Context, items []domain.WorkItem, estimates map[domain.ItemID]int, capacity int) ([]domain.WorkItem, error) {
	if capacity < 0 {
		return nil, &InvalidCapacityError{Capacity: capacity}
	}
	for _, item := range items {
		if est, ok := estimates[item.ID]; ok && est < 0 {
			return nil, &InvalidEstimateError{ItemID: item.ID, Estimate: est}
		}
	}

	ordered, err := o.Order(ctx, items)
	if err != nil {
		return nil, err
	}

	var selected []domain.WorkItem
	remaining := capacity
	for _, item := range ordered {
		est, ok := estimates[item.ID]
		if !ok {
			est = 1
		}
		if est > remaining {
			continue
		}
		remaining -= est
		selected = append(selected, item)
	}
	return selected, nil
}
