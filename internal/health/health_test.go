package health

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/flowforge/internal/domain"
	"github.com/felixgeelhaar/flowforge/internal/graph"
	"github.com/felixgeelhaar/flowforge/internal/repository"
)

type staticChecker struct {
	name   string
	result *Result
}

func (c staticChecker) Name() string                  { return c.name }
func (c staticChecker) Check(context.Context) *Result { return c.result }

func TestManagerCheck(t *testing.T) {
	m := NewManager().WithTimeout(time.Second)
	m.AddChecker(staticChecker{name: "a", result: Healthy("a ok")})
	m.AddChecker(staticChecker{name: "b", result: Degraded("b wobbly")})

	results := m.Check(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results["a"].Status != StatusHealthy {
		t.Errorf("expected a healthy, got %s", results["a"].Status)
	}
	if results["b"].Status != StatusDegraded {
		t.Errorf("expected b degraded, got %s", results["b"].Status)
	}
	if results["a"].Latency == 0 {
		t.Error("expected latency to be recorded")
	}
}

func TestOverallStatus(t *testing.T) {
	m := NewManager()

	tests := []struct {
		name    string
		results map[string]*Result
		want    Status
	}{
		{name: "empty", results: map[string]*Result{}, want: StatusHealthy},
		{
			name:    "all healthy",
			results: map[string]*Result{"a": Healthy("ok"), "b": Healthy("ok")},
			want:    StatusHealthy,
		},
		{
			name:    "one degraded",
			results: map[string]*Result{"a": Healthy("ok"), "b": Degraded("hmm")},
			want:    StatusDegraded,
		},
		{
			name:    "unhealthy wins",
			results: map[string]*Result{"a": Degraded("hmm"), "b": Unhealthy("down")},
			want:    StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.OverallStatus(tt.results); got != tt.want {
				t.Errorf("OverallStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestProbeManagerLifecycle(t *testing.T) {
	pm := NewProbeManager("1.2.3")
	ctx := context.Background()

	if got := pm.CheckStartup(ctx).Status; got != StatusUnhealthy {
		t.Errorf("expected startup unhealthy before init, got %s", got)
	}
	if got := pm.CheckLiveness(ctx).Status; got != StatusHealthy {
		t.Errorf("expected liveness healthy, got %s", got)
	}

	pm.MarkInitialized()
	if got := pm.CheckStartup(ctx).Status; got != StatusHealthy {
		t.Errorf("expected startup healthy after init, got %s", got)
	}
	if got := pm.CheckReadiness(ctx).Status; got != StatusHealthy {
		t.Errorf("expected readiness healthy, got %s", got)
	}

	pm.MarkShutdown()
	if got := pm.CheckReadiness(ctx).Status; got != StatusUnhealthy {
		t.Errorf("expected readiness unhealthy during shutdown, got %s", got)
	}
	if got := pm.CheckLiveness(ctx).Status; got != StatusDegraded {
		t.Errorf("expected liveness degraded during shutdown, got %s", got)
	}
}

func TestStoreChecker(t *testing.T) {
	ctx := context.Background()
	items := repository.NewItemRepository()

	result := NewStoreChecker(items).Check(ctx)
	if result.Status != StatusHealthy {
		t.Fatalf("expected healthy, got %s: %s", result.Status, result.Message)
	}
	if result.Details["items"] != 0 {
		t.Errorf("expected 0 items, got %v", result.Details["items"])
	}

	result = NewStoreChecker(nil).Check(ctx)
	if result.Status != StatusUnhealthy {
		t.Errorf("expected unhealthy for nil store, got %s", result.Status)
	}
}

func TestWorkflowChecker(t *testing.T) {
	result := NewWorkflowChecker().Check(context.Background())
	if result.Status != StatusHealthy {
		t.Fatalf("expected healthy, got %s: %s", result.Status, result.Message)
	}
	if result.Details["transitions"] != 10 {
		t.Errorf("expected 10 transitions, got %v", result.Details["transitions"])
	}
}

func TestGraphChecker(t *testing.T) {
	ctx := context.Background()
	items := repository.NewItemRepository()
	g := graph.New()

	a, err := items.Create(ctx, repository.CreateRequest{Title: "a", Type: domain.TypeTask, Priority: domain.PriorityMedium})
	if err != nil {
		t.Fatal(err)
	}
	b, err := items.Create(ctx, repository.CreateRequest{Title: "b", Type: domain.TypeTask, Priority: domain.PriorityMedium})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.AddDependency(b.ID, a.ID); err != nil {
		t.Fatal(err)
	}

	result := NewGraphChecker(g, items).Check(ctx)
	if result.Status != StatusHealthy {
		t.Fatalf("expected healthy, got %s: %s", result.Status, result.Message)
	}
	if result.Details["edges"] != 1 {
		t.Errorf("expected 1 edge, got %v", result.Details["edges"])
	}

	// An edge whose endpoint was deleted degrades the graph.
	if err := items.Delete(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	result = NewGraphChecker(g, items).Check(ctx)
	if result.Status != StatusDegraded {
		t.Errorf("expected degraded with orphan node, got %s", result.Status)
	}
}
