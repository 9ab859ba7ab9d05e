package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/flowforge/internal/domain"
	"github.com/felixgeelhaar/flowforge/internal/workflow"
)

func TestItemRepository_CreateAndGet(t *testing.T) {
	repo := NewItemRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateRequest{
		Title:    "Fix login crash",
		Type:     domain.TypeBug,
		Priority: domain.PriorityHigh,
		Assignee: "alice",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StateFound, created.State)
	assert.False(t, created.ID.IsZero())
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestItemRepository_CreateValidates(t *testing.T) {
	repo := NewItemRepository()

	_, err := repo.Create(context.Background(), CreateRequest{
		Title:    "",
		Type:     domain.TypeTask,
		Priority: domain.PriorityLow,
	})
	assert.Error(t, err)

	_, err = repo.Create(context.Background(), CreateRequest{
		Title:    "bad type",
		Type:     domain.Type("WISH"),
		Priority: domain.PriorityLow,
	})
	assert.Error(t, err)
}

func TestItemRepository_GetUnknown(t *testing.T) {
	repo := NewItemRepository()

	_, err := repo.Get(context.Background(), domain.NewItemID())
	var unknown *UnknownItemError
	require.True(t, errors.As(err, &unknown))
}

func TestItemRepository_UpdateAfterTransition(t *testing.T) {
	repo := NewItemRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateRequest{
		Title:    "Write release notes",
		Type:     domain.TypeChore,
		Priority: domain.PriorityLow,
	})
	require.NoError(t, err)

	next, _, err := workflow.Transition(created, domain.StateTriaged)
	require.NoError(t, err)

	updated, err := repo.Update(ctx, next)
	require.NoError(t, err)
	assert.Equal(t, domain.StateTriaged, updated.State)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateTriaged, got.State)
}

func TestItemRepository_ListOrderedByCreation(t *testing.T) {
	repo := NewItemRepository()
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		_, err := repo.Create(ctx, CreateRequest{
			Title:    title,
			Type:     domain.TypeTask,
			Priority: domain.PriorityMedium,
		})
		require.NoError(t, err)
	}

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "first", items[0].Title)
	assert.Equal(t, "third", items[2].Title)
}

func TestItemRepository_Delete(t *testing.T) {
	repo := NewItemRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateRequest{
		Title:    "temp",
		Type:     domain.TypeTask,
		Priority: domain.PriorityLow,
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	var unknown *UnknownItemError
	assert.True(t, errors.As(repo.Delete(ctx, created.ID), &unknown))
}

func TestMetadataRepository_Urgent(t *testing.T) {
	meta := NewMetadataRepository()
	id := domain.NewItemID()

	assert.False(t, meta.IsUrgent(id))
	meta.SetUrgent(id, true)
	assert.True(t, meta.IsUrgent(id))
	meta.SetUrgent(id, false)
	assert.False(t, meta.IsUrgent(id))
}

func TestMetadataRepository_Estimates(t *testing.T) {
	meta := NewMetadataRepository()
	a := domain.WorkItem{ID: domain.NewItemID()}
	b := domain.WorkItem{ID: domain.NewItemID()}

	meta.SetEstimate(a.ID, 5)

	estimates := meta.Estimates([]domain.WorkItem{a, b})
	assert.Equal(t, map[domain.ItemID]int{a.ID: 5}, estimates)

	_, ok := meta.Estimate(b.ID)
	assert.False(t, ok)
}

func TestHistoryRepository_RecordsInOrder(t *testing.T) {
	history := NewHistoryRepository()
	repo := NewItemRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateRequest{
		Title:    "tracked",
		Type:     domain.TypeStory,
		Priority: domain.PriorityMedium,
	})
	require.NoError(t, err)

	item := created
	for _, target := range []domain.State{domain.StateTriaged, domain.StateToDo} {
		next, event, err := workflow.Transition(item, target)
		require.NoError(t, err)
		history.Record(event, next)
		item = next
	}

	records := history.ForItem(created.ID)
	require.Len(t, records, 2)
	assert.Equal(t, domain.StateTriaged, records[0].Event.To)
	assert.Equal(t, domain.StateToDo, records[1].Event.To)
	assert.NotEmpty(t, records[0].Fingerprint)
	assert.NotEqual(t, records[0].Fingerprint, records[1].Fingerprint)
}
