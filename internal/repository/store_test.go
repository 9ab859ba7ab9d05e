package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/flowforge/internal/domain"
	"github.com/felixgeelhaar/flowforge/internal/workflow"
)

func TestLoadWorkspaceMissingFile(t *testing.T) {
	w, err := LoadWorkspace(filepath.Join(t.TempDir(), "workspace.yaml"))
	require.NoError(t, err)

	count, err := w.Items.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, w.Graph.EdgeCount())
}

func TestWorkspaceRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), ".flowforge", "workspace.yaml")

	w := NewWorkspace()
	a, err := w.Items.Create(ctx, CreateRequest{Title: "schema", Type: domain.TypeTask, Priority: domain.PriorityMedium})
	require.NoError(t, err)
	b, err := w.Items.Create(ctx, CreateRequest{Title: "api", Type: domain.TypeBug, Priority: domain.PriorityHigh, Assignee: "dana"})
	require.NoError(t, err)

	require.NoError(t, w.Graph.AddDependency(b.ID, a.ID))
	w.Meta.SetUrgent(b.ID, true)
	w.Meta.SetEstimate(a.ID, 5)

	updated, event, err := workflow.TransitionAs(a, domain.StateTriaged, "dana", "confirmed")
	require.NoError(t, err)
	updated, err = w.Items.Update(ctx, updated)
	require.NoError(t, err)
	w.History.Record(event, updated)

	require.NoError(t, w.Save(path))

	loaded, err := LoadWorkspace(path)
	require.NoError(t, err)

	gotA, err := loaded.Items.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateTriaged, gotA.State)
	assert.Equal(t, "schema", gotA.Title)

	gotB, err := loaded.Items.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "dana", gotB.Assignee)
	assert.True(t, loaded.Meta.IsUrgent(b.ID))

	points, ok := loaded.Meta.Estimate(a.ID)
	require.True(t, ok)
	assert.Equal(t, 5, points)

	assert.True(t, loaded.Graph.HasDependency(b.ID, a.ID))

	records := loaded.History.ForItem(a.ID)
	require.Len(t, records, 1)
	assert.Equal(t, domain.StateFound, records[0].Event.From)
	assert.Equal(t, domain.StateTriaged, records[0].Event.To)
	assert.Equal(t, "dana", records[0].Event.Actor)
	assert.NotEmpty(t, records[0].Fingerprint)
}

func TestLoadWorkspaceRejectsBadItem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workspace.yaml")
	w := NewWorkspace()
	require.NoError(t, w.Save(path))

	// Hand-write a record with an invalid state.
	bad := `
items:
  - id: ` + domain.NewItemID().String() + `
    title: broken
    type: TASK
    state: LIMBO
    priority: LOW
`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := LoadWorkspace(path)
	assert.Error(t, err)
}
