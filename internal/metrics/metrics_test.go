package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	if m == nil {
		t.Fatal("expected metrics, got nil")
	}

	tests := []struct {
		name   string
		metric interface{}
	}{
		{"Transitions", m.Transitions},
		{"TransitionsDenied", m.TransitionsDenied},
		{"GraphEdges", m.GraphEdges},
		{"CycleRejects", m.CycleRejects},
		{"EdgesAdded", m.EdgesAdded},
		{"EdgesRemoved", m.EdgesRemoved},
		{"PathComputations", m.PathComputations},
		{"PathDuration", m.PathDuration},
		{"PathLength", m.PathLength},
		{"QueueOrderings", m.QueueOrderings},
		{"QueueDuration", m.QueueDuration},
		{"UrgentEscalations", m.UrgentEscalations},
		{"CapacitySelections", m.CapacitySelections},
		{"ItemsCreated", m.ItemsCreated},
		{"ItemsTotal", m.ItemsTotal},
		{"HTTPRequests", m.HTTPRequests},
		{"HTTPDuration", m.HTTPDuration},
		{"Errors", m.Errors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestRecordTransition(t *testing.T) {
	_, m := NewRegistry()

	m.RecordTransition("FOUND", "TRIAGED")
	m.RecordTransition("FOUND", "TRIAGED")
	m.RecordTransitionDenied("FOUND", "DONE")

	applied := testutil.ToFloat64(m.Transitions.WithLabelValues("FOUND", "TRIAGED"))
	if applied != 2 {
		t.Errorf("expected 2 applied transitions, got %v", applied)
	}
	denied := testutil.ToFloat64(m.TransitionsDenied.WithLabelValues("FOUND", "DONE"))
	if denied != 1 {
		t.Errorf("expected 1 denied transition, got %v", denied)
	}
}

func TestRecordPathComputation(t *testing.T) {
	_, m := NewRegistry()

	m.RecordPathComputation(25*time.Millisecond, 4)
	m.RecordPathComputation(5*time.Millisecond, 2)

	if got := testutil.ToFloat64(m.PathComputations); got != 2 {
		t.Errorf("expected 2 path computations, got %v", got)
	}
}

func TestRecordQueueOrdering(t *testing.T) {
	_, m := NewRegistry()

	m.RecordQueueOrdering(time.Millisecond, 3)

	if got := testutil.ToFloat64(m.UrgentEscalations); got != 3 {
		t.Errorf("expected 3 urgent escalations, got %v", got)
	}
}

func TestRecordError(t *testing.T) {
	_, m := NewRegistry()

	m.RecordError("ITEM-001")
	m.RecordError("ITEM-001")
	m.RecordError("GRAPH-001")

	if got := testutil.ToFloat64(m.Errors.WithLabelValues("ITEM-001")); got != 2 {
		t.Errorf("expected 2 ITEM-001 errors, got %v", got)
	}
}

func TestHandlerFor(t *testing.T) {
	reg, m := NewRegistry()
	m.RecordTransition("TO_DO", "IN_PROGRESS")
	m.GraphEdges.Set(7)

	srv := httptest.NewServer(HandlerFor(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("metrics request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading metrics body: %v", err)
	}
	out := string(body)

	if !strings.Contains(out, "flowforge_transitions_total") {
		t.Error("expected flowforge_transitions_total in exposition")
	}
	if !strings.Contains(out, "flowforge_graph_edges 7") {
		t.Error("expected flowforge_graph_edges gauge in exposition")
	}
}

func TestGetDefault(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first := GetDefault()
	if first == nil {
		t.Fatal("expected default metrics")
	}
	if GetDefault() != first {
		t.Error("expected the same instance on subsequent calls")
	}
}
