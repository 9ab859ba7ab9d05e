// Package workflow validates and executes work item state transitions
// against a fixed transition table.
//
// The table is static: it is declared once at package level and never
// derived from item data. Transition legality depends only on the
// (current, target) state pair, never on priority, assignee, or type.
package workflow

import (
	"time"

	"github.com/felixgeelhaar/flowforge/internal/domain"
)

// transitionTable enumerates every legal state transition in declaration
// order. Any pair absent from the table is illegal, including same-state
// pairs and anything out of RELEASED. IN_PROGRESS<->IN_TEST is the only
// two-way pair.
var transitionTable = []transition{
	{domain.StateFound, domain.StateTriaged},
	{domain.StateTriaged, domain.StateToDo},
	{domain.StateTriaged, domain.StateDone}, // cancel
	{domain.StateToDo, domain.StateInProgress},
	{domain.StateToDo, domain.StateDone}, // skip
	{domain.StateInProgress, domain.StateInTest},
	{domain.StateInProgress, domain.StateToDo}, // reset
	{domain.StateInTest, domain.StateDone},
	{domain.StateInTest, domain.StateInProgress}, // fail-return
	{domain.StateDone, domain.StateReleased},
}

type transition struct {
	from domain.State
	to   domain.State
}

// targets maps each source state to its legal targets in table order.
// Built once at init from transitionTable.
var targets = buildTargets()

func buildTargets() map[domain.State][]domain.State {
	m := make(map[domain.State][]domain.State, len(transitionTable))
	for _, t := range transitionTable {
		m[t.from] = append(m[t.from], t.to)
	}
	return m
}

// CanTransition reports whether the (from, to) pair is in the table.
func CanTransition(from, to domain.State) bool {
	for _, target := range targets[from] {
		if target == to {
			return true
		}
	}
	return false
}

// AvailableTransitions returns the states reachable from the given state,
// in table-declaration order. Terminal states yield an empty slice.
func AvailableTransitions(from domain.State) []domain.State {
	out := make([]domain.State, len(targets[from]))
	copy(out, targets[from])
	return out
}

// TransitionEvent describes a completed transition so callers can record
// history. The machine itself records nothing.
type TransitionEvent struct {
	ItemID  domain.ItemID
	From    domain.State
	To      domain.State
	Actor   string
	Comment string
	At      time.Time
}

// Transition returns a copy of the item in the target state along with an
// event describing the change. The input snapshot is never mutated. An
// illegal pair returns a *InvalidTransitionError and the zero snapshot;
// the transition is never partially applied.
func Transition(item domain.WorkItem, target domain.State) (domain.WorkItem, TransitionEvent, error) {
	return TransitionAs(item, target, "", "")
}

// TransitionAs is Transition with an acting user and an optional comment
// attached to the emitted event.
func TransitionAs(item domain.WorkItem, target domain.State, actor, comment string) (domain.WorkItem, TransitionEvent, error) {
	if !CanTransition(item.State, target) {
		return domain.WorkItem{}, TransitionEvent{}, &InvalidTransitionError{From: item.State, To: target}
	}

	next := item.WithState(target)
	event := TransitionEvent{
		ItemID:  item.ID,
		From:    item.State,
		To:      target,
		Actor:   actor,
		Comment: comment,
		At:      next.UpdatedAt,
	}
	return next, event, nil
}
