package domain

import "fmt"

// State represents a workflow lifecycle state of a work item.
// FOUND is the only initial state for newly created items;
// RELEASED is terminal.
type State string

// Workflow states in lifecycle order.
const (
	StateFound      State = "FOUND"
	StateTriaged    State = "TRIAGED"
	StateToDo       State = "TO_DO"
	StateInProgress State = "IN_PROGRESS"
	StateInTest     State = "IN_TEST"
	StateDone       State = "DONE"
	StateReleased   State = "RELEASED"
)

// States lists all workflow states in lifecycle order.
func States() []State {
	return []State{
		StateFound,
		StateTriaged,
		StateToDo,
		StateInProgress,
		StateInTest,
		StateDone,
		StateReleased,
	}
}

// NewState creates a new State value object with validation
func NewState(value string) (State, error) {
	s := State(value)
	if err := s.Validate(); err != nil {
		return "", err
	}
	return s, nil
}

// Validate checks if the state is valid
func (s State) Validate() error {
	switch s {
	case StateFound, StateTriaged, StateToDo, StateInProgress, StateInTest, StateDone, StateReleased:
		return nil
	default:
		return fmt.Errorf("invalid workflow state %q", string(s))
	}
}

// String returns the string representation
func (s State) String() string {
	return string(s)
}

// IsTerminal reports whether the state has no outgoing transitions.
func (s State) IsTerminal() bool {
	return s == StateReleased
}
