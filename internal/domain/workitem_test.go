package domain

import (
	"testing"
	"time"
)

func validItem() WorkItem {
	now := time.Now().UTC()
	return WorkItem{
		ID:        NewItemID(),
		Title:     "Fix login crash",
		Type:      TypeBug,
		State:     StateFound,
		Priority:  PriorityHigh,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestWorkItemValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*WorkItem)
		wantErr bool
	}{
		{name: "valid", mutate: func(*WorkItem) {}},
		{name: "zero ID", mutate: func(w *WorkItem) { w.ID = ItemID{} }, wantErr: true},
		{name: "empty title", mutate: func(w *WorkItem) { w.Title = "" }, wantErr: true},
		{name: "bad type", mutate: func(w *WorkItem) { w.Type = "GADGET" }, wantErr: true},
		{name: "bad state", mutate: func(w *WorkItem) { w.State = "LIMBO" }, wantErr: true},
		{name: "bad priority", mutate: func(w *WorkItem) { w.Priority = "SOMEDAY" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validItem()
			tt.mutate(&item)
			err := item.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWithStateLeavesReceiverUntouched(t *testing.T) {
	item := validItem()
	next := item.WithState(StateTriaged)

	if item.State != StateFound {
		t.Errorf("receiver state changed to %s", item.State)
	}
	if next.State != StateTriaged {
		t.Errorf("next state = %s, want TRIAGED", next.State)
	}
	if !next.UpdatedAt.After(item.UpdatedAt) && !next.UpdatedAt.Equal(item.UpdatedAt) {
		t.Error("UpdatedAt not refreshed")
	}
}

func TestFingerprint(t *testing.T) {
	item := validItem()

	if item.Fingerprint() != item.Fingerprint() {
		t.Error("Fingerprint not deterministic")
	}

	changed := item
	changed.Title = "Fix login crash on mobile"
	if item.Fingerprint() == changed.Fingerprint() {
		t.Error("Fingerprint unchanged after content change")
	}

	moved := item.WithState(StateTriaged)
	if item.Fingerprint() == moved.Fingerprint() {
		t.Error("Fingerprint unchanged after state change")
	}
}

func TestPriorityRankOrdering(t *testing.T) {
	order := []Priority{PriorityTrivial, PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
	for i := 1; i < len(order); i++ {
		if !order[i].IsHigherThan(order[i-1]) {
			t.Errorf("%s should rank above %s", order[i], order[i-1])
		}
	}
}

func TestStateIsTerminal(t *testing.T) {
	for _, state := range States() {
		want := state == StateReleased
		if got := state.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", state, got, want)
		}
	}
}

func TestItemIDRoundTrip(t *testing.T) {
	id := NewItemID()
	parsed, err := ParseItemID(id.String())
	if err != nil {
		t.Fatalf("ParseItemID: %v", err)
	}
	if parsed != id {
		t.Errorf("parsed %v, want %v", parsed, id)
	}

	if _, err := ParseItemID("not-a-uuid"); err == nil {
		t.Error("expected error for malformed ID")
	}
}
