package queue

import (
	"context"
	"sort"

	"github.com/felixgeelhaar/flowforge/internal/domain"
)

// Weights tunes the weighted ordering. Zero values fall back to the
// defaults.
type Weights struct {
	Priority int
	Type     int
	Age      int
}

// DefaultWeights returns the standard weighting.
func DefaultWeights() Weights {
	return Weights{Priority: 10, Type: 5, Age: 2}
}

// typeWeights orders item types by how soon they should be picked up.
// Lower sorts first.
var typeWeights = map[domain.Type]int{
	domain.TypeBug:     0,
	domain.TypeFeature: 1,
	domain.TypeTask:    2,
	domain.TypeStory:   2,
	domain.TypeChore:   3,
	domain.TypeEpic:    4,
}

func typeWeight(t domain.Type) int {
	if w, ok := typeWeights[t]; ok {
		return w
	}
	return 5
}

// OrderWeighted orders items with tunable priority, type, and age
// weights. Urgent items are hoisted exactly as in Order.
func (o *Orderer) OrderWeighted(ctx context.Context, items []domain.WorkItem, weights Weights) ([]domain.WorkItem, error) {
	if weights.Priority == 0 {
		weights.Priority = DefaultWeights().Priority
	}
	if weights.Type == 0 {
		weights.Type = DefaultWeights().Type
	}
	if weights.Age == 0 {
		weights.Age = DefaultWeights().Age
	}

	ordered := make([]domain.WorkItem, len(items))
	copy(ordered, items)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		aScore := a.Priority.Rank() * weights.Priority
		bScore := b.Priority.Rank() * weights.Priority
		if aScore != bScore {
			return aScore > bScore
		}
		aType := typeWeight(a.Type) * weights.Type
		bType := typeWeight(b.Type) * weights.Type
		if aType != bType {
			return aType < bType
		}
		// A negative age weight prefers newer items.
		if weights.Age < 0 {
			return b.CreatedAt.Before(a.CreatedAt)
		}
		return a.CreatedAt.Before(b.CreatedAt)
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
