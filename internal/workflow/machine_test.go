package workflow

import (
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/flowforge/internal/domain"
)

func testItem(state domain.State) domain.WorkItem {
	return domain.WorkItem{
		ID:        domain.NewItemID(),
		Title:     "Test Item",
		Type:      domain.TypeTask,
		State:     state,
		Priority:  domain.PriorityMedium,
		Assignee:  "alice",
		CreatedAt: time.Now().UTC(),
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from domain.State
		to   domain.State
		want bool
	}{
		{"found to triaged", domain.StateFound, domain.StateTriaged, true},
		{"triaged to to_do", domain.StateTriaged, domain.StateToDo, true},
		{"triaged cancel", domain.StateTriaged, domain.StateDone, true},
		{"to_do to in_progress", domain.StateToDo, domain.StateInProgress, true},
		{"to_do skip", domain.StateToDo, domain.StateDone, true},
		{"in_progress to in_test", domain.StateInProgress, domain.StateInTest, true},
		{"in_progress reset", domain.StateInProgress, domain.StateToDo, true},
		{"in_test to done", domain.StateInTest, domain.StateDone, true},
		{"in_test fail-return", domain.StateInTest, domain.StateInProgress, true},
		{"done to released", domain.StateDone, domain.StateReleased, true},
		{"no implicit reverse", domain.StateTriaged, domain.StateFound, false},
		{"no state skipping", domain.StateFound, domain.StateInProgress, false},
		{"released is terminal", domain.StateReleased, domain.StateFound, false},
		{"done cannot reopen", domain.StateDone, domain.StateToDo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestCanTransition_NoSelfTransitions(t *testing.T) {
	for _, s := range domain.States() {
		if CanTransition(s, s) {
			t.Errorf("CanTransition(%s, %s) = true, want false", s, s)
		}
	}
}

func TestCanTransition_OnlyTwoWayPairIsProgressTest(t *testing.T) {
	for _, a := range domain.States() {
		for _, b := range domain.States() {
			if a == b || !CanTransition(a, b) || !CanTransition(b, a) {
				continue
			}
			progressTest := (a == domain.StateInProgress && b == domain.StateInTest) ||
				(a == domain.StateInTest && b == domain.StateInProgress)
			if !progressTest {
				t.Errorf("unexpected two-way pair %s <-> %s", a, b)
			}
		}
	}
}

func TestAvailableTransitions(t *testing.T) {
	tests := []struct {
		name string
		from domain.State
		want []domain.State
	}{
		{"found", domain.StateFound, []domain.State{domain.StateTriaged}},
		{"triaged", domain.StateTriaged, []domain.State{domain.StateToDo, domain.StateDone}},
		{"to_do", domain.StateToDo, []domain.State{domain.StateInProgress, domain.StateDone}},
		{"in_progress", domain.StateInProgress, []domain.State{domain.StateInTest, domain.StateToDo}},
		{"in_test", domain.StateInTest, []domain.State{domain.StateDone, domain.StateInProgress}},
		{"done", domain.StateDone, []domain.State{domain.StateReleased}},
		{"released is terminal", domain.StateReleased, []domain.State{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AvailableTransitions(tt.from)
			if len(got) != len(tt.want) {
				t.Fatalf("AvailableTransitions(%s) = %v, want %v", tt.from, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("AvailableTransitions(%s)[%d] = %s, want %s", tt.from, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTransition_Valid(t *testing.T) {
	item := testItem(domain.StateToDo)

	next, event, err := Transition(item, domain.StateInProgress)
	if err != nil {
		t.Fatalf("Transition() error = %v", err)
	}

	if next.State != domain.StateInProgress {
		t.Errorf("next.State = %s, want %s", next.State, domain.StateInProgress)
	}
	if item.State != domain.StateToDo {
		t.Errorf("input snapshot was mutated: state = %s", item.State)
	}
	if next.ID != item.ID {
		t.Errorf("next.ID = %s, want %s", next.ID, item.ID)
	}
	if event.From != domain.StateToDo || event.To != domain.StateInProgress {
		t.Errorf("event = %+v, want from TO_DO to IN_PROGRESS", event)
	}
	if event.ItemID != item.ID {
		t.Errorf("event.ItemID = %s, want %s", event.ItemID, item.ID)
	}
}

func TestTransition_Invalid(t *testing.T) {
	item := testItem(domain.StateFound)

	_, _, err := Transition(item, domain.StateReleased)
	if err == nil {
		t.Fatal("Transition() error = nil, want InvalidTransitionError")
	}

	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("error type = %T, want *InvalidTransitionError", err)
	}
	if invalid.From != domain.StateFound || invalid.To != domain.StateReleased {
		t.Errorf("error carries (%s, %s), want (FOUND, RELEASED)", invalid.From, invalid.To)
	}
}

func TestTransition_DoesNotConsultItemFields(t *testing.T) {
	// Same state pair must behave identically regardless of priority,
	// assignee, or type.
	base := testItem(domain.StateInTest)
	variants := []domain.WorkItem{base, base, base}
	variants[1].Priority = domain.PriorityCritical
	variants[1].Assignee = ""
	variants[2].Type = domain.TypeBug

	for i, item := range variants {
		if _, _, err := Transition(item, domain.StateDone); err != nil {
			t.Errorf("variant %d: Transition() error = %v", i, err)
		}
		if _, _, err := Transition(item, domain.StateReleased); err == nil {
			t.Errorf("variant %d: Transition() to RELEASED succeeded, want error", i)
		}
	}
}

func TestTransitionAs_CarriesActorAndComment(t *testing.T) {
	item := testItem(domain.StateTriaged)

	_, event, err := TransitionAs(item, domain.StateToDo, "bob", "ready for sprint")
	if err != nil {
		t.Fatalf("TransitionAs() error = %v", err)
	}
	if event.Actor != "bob" {
		t.Errorf("event.Actor = %q, want %q", event.Actor, "bob")
	}
	if event.Comment != "ready for sprint" {
		t.Errorf("event.Comment = %q, want %q", event.Comment, "ready for sprint")
	}
	if event.At.IsZero() {
		t.Error("event.At is zero")
	}
}
