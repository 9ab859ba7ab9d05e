package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/flowforge/internal/domain"
)

type urgentSet map[domain.ItemID]bool

func (u urgentSet) IsUrgent(id domain.ItemID) bool { return u[id] }

// recordingNotifier captures emitted events.
type recordingNotifier struct {
	events []UrgentEvent
	err    error
}

func (n *recordingNotifier) NotifyUrgent(_ context.Context, event UrgentEvent) error {
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, event)
	return nil
}

func item(title string, priority domain.Priority, ageDays int) domain.WorkItem {
	return domain.WorkItem{
		ID:        domain.NewItemID(),
		Title:     title,
		Type:      domain.TypeTask,
		State:     domain.StateToDo,
		Priority:  priority,
		CreatedAt: time.Now().UTC().Add(-time.Duration(ageDays) * 24 * time.Hour),
	}
}

func titles(items []domain.WorkItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func assertOrder(t *testing.T, got []domain.WorkItem, want ...string) {
	t.Helper()
	g := titles(got)
	if len(g) != len(want) {
		t.Fatalf("order = %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("order = %v, want %v", g, want)
		}
	}
}

func TestOrder_PriorityDominatesAge(t *testing.T) {
	// Priority rank decides across ranks; age only breaks ties within a
	// rank, which never triggers here.
	items := []domain.WorkItem{
		item("Old-low", domain.PriorityLow, 10),
		item("New-high", domain.PriorityHigh, 1),
		item("Medium-age", domain.PriorityMedium, 5),
	}

	got, err := New(nil, nil).Order(context.Background(), items)
	if err != nil {
		t.Fatalf("Order() error = %v", err)
	}
	assertOrder(t, got, "New-high", "Old-low", "Medium-age")
}

func TestOrder_AgeBreaksTiesWithinPriority(t *testing.T) {
	items := []domain.WorkItem{
		item("newer", domain.PriorityMedium, 1),
		item("older", domain.PriorityMedium, 7),
	}

	got, err := New(nil, nil).Order(context.Background(), items)
	if err != nil {
		t.Fatalf("Order() error = %v", err)
	}
	assertOrder(t, got, "older", "newer")
}

func TestOrder_UrgentHoistedToFront(t *testing.T) {
	incident := item("incident", domain.PriorityTrivial, 0)
	items := []domain.WorkItem{
		item("critical", domain.PriorityCritical, 3),
		incident,
		item("high", domain.PriorityHigh, 2),
	}
	notifier := &recordingNotifier{}

	got, err := New(urgentSet{incident.ID: true}, notifier).Order(context.Background(), items)
	if err != nil {
		t.Fatalf("Order() error = %v", err)
	}
	assertOrder(t, got, "incident", "critical", "high")

	if len(notifier.events) != 1 {
		t.Fatalf("notifier received %d events, want 1", len(notifier.events))
	}
	if notifier.events[0].ItemID != incident.ID {
		t.Errorf("event.ItemID = %s, want %s", notifier.events[0].ItemID, incident.ID)
	}
	if notifier.events[0].Reason == "" {
		t.Error("event.Reason is empty")
	}
}

func TestOrder_NotifierErrorSurfaces(t *testing.T) {
	incident := item("incident", domain.PriorityLow, 0)
	notifier := &recordingNotifier{err: errors.New("broker down")}

	_, err := New(urgentSet{incident.ID: true}, notifier).Order(context.Background(), []domain.WorkItem{incident})
	if err == nil {
		t.Fatal("Order() error = nil, want notifier failure")
	}
}

func TestOrder_DoesNotModifyInput(t *testing.T) {
	items := []domain.WorkItem{
		item("low", domain.PriorityLow, 1),
		item("high", domain.PriorityHigh, 1),
	}

	if _, err := New(nil, nil).Order(context.Background(), items); err != nil {
		t.Fatalf("Order() error = %v", err)
	}
	assertOrder(t, items, "low", "high")
}

func TestSelectWithinCapacity(t *testing.T) {
	a := item("a", domain.PriorityCritical, 1)
	b := item("b", domain.PriorityHigh, 1)
	c := item("c", domain.PriorityMedium, 1)
	estimates := map[domain.ItemID]int{a.ID: 5, b.ID: 8, c.ID: 3}

	got, err := New(nil, nil).SelectWithinCapacity(context.Background(), []domain.WorkItem{a, b, c}, estimates, 9)
	if err != nil {
		t.Fatalf("SelectWithinCapacity() error = %v", err)
	}
	// a (5) fits, b (8) does not, c (3) still fits: maximal selection.
	assertOrder(t, got, "a", "c")
}

func TestSelectWithinCapacity_NeverExceedsAndMaximal(t *testing.T) {
	items := []domain.WorkItem{
		item("p1", domain.PriorityCritical, 4),
		item("p2", domain.PriorityHigh, 3),
		item("p3", domain.PriorityMedium, 2),
		item("p4", domain.PriorityLow, 1),
	}
	estimates := map[domain.ItemID]int{
		items[0].ID: 4, items[1].ID: 4, items[2].ID: 4, items[3].ID: 1,
	}
	const capacity = 9

	o := New(nil, nil)
	got, err := o.SelectWithinCapacity(context.Background(), items, estimates, capacity)
	if err != nil {
		t.Fatalf("SelectWithinCapacity() error = %v", err)
	}

	total := 0
	selected := map[domain.ItemID]bool{}
	for _, it := range got {
		total += estimates[it.ID]
		selected[it.ID] = true
	}
	if total > capacity {
		t.Errorf("cumulative estimate %d exceeds capacity %d", total, capacity)
	}

	ordered, err := o.Order(context.Background(), items)
	if err != nil {
		t.Fatal(err)
	}
	for _, it := range ordered {
		if !selected[it.ID] && estimates[it.ID] <= capacity-total {
			t.Errorf("item %s could still be appended without exceeding capacity", it.Title)
		}
	}
}

func TestSelectWithinCapacity_ZeroCapacity(t *testing.T) {
	a := item("a", domain.PriorityHigh, 1)
	got, err := New(nil, nil).SelectWithinCapacity(context.Background(), []domain.WorkItem{a}, map[domain.ItemID]int{a.ID: 1}, 0)
	if err != nil {
		t.Fatalf("SelectWithinCapacity() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("selected %v, want none", titles(got))
	}
}

func TestSelectWithinCapacity_NegativeEstimate(t *testing.T) {
	a := item("a", domain.PriorityHigh, 1)

	_, err := New(nil, nil).SelectWithinCapacity(context.Background(), []domain.WorkItem{a}, map[domain.ItemID]int{a.ID: -2}, 10)
	var estErr *InvalidEstimateError
	if !errors.As(err, &estErr) {
		t.Fatalf("error = %v, want *InvalidEstimateError", err)
	}
	if estErr.Estimate != -2 {
		t.Errorf("error.Estimate = %d, want -2", estErr.Estimate)
	}
}

func TestSelectWithinCapacity_NegativeCapacity(t *testing.T) {
	_, err := New(nil, nil).SelectWithinCapacity(context.Background(), nil, nil, -1)
	var capErr *InvalidCapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("error = %v, want *InvalidCapacityError", err)
	}
}

func TestOrderWeighted_BugsBeforeChores(t *testing.T) {
	bug := item("bug", domain.PriorityMedium, 1)
	bug.Type = domain.TypeBug
	chore := item("chore", domain.PriorityMedium, 5)
	chore.Type = domain.TypeChore

	got, err := New(nil, nil).OrderWeighted(context.Background(), []domain.WorkItem{chore, bug}, DefaultWeights())
	if err != nil {
		t.Fatalf("OrderWeighted() error = %v", err)
	}
	assertOrder(t, got, "bug", "chore")
}
