package domain

import "fmt"

// Priority represents a work item priority level.
// This is a value object that enforces valid priority values.
type Priority string

// Valid priority levels, lowest to highest.
const (
	PriorityTrivial  Priority = "TRIVIAL"
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// Priorities returns all valid priorities, lowest to highest.
func Priorities() []Priority {
	return []Priority{PriorityTrivial, PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

// NewPriority creates a new Priority value object with validation
func NewPriority(value string) (Priority, error) {
	p := Priority(value)
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// Validate checks if the priority is valid
func (p Priority) Validate() error {
	switch p {
	case PriorityTrivial, PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return nil
	default:
		return fmt.Errorf("invalid priority %q: must be TRIVIAL, LOW, MEDIUM, HIGH, or CRITICAL", string(p))
	}
}

// String returns the string representation
func (p Priority) String() string {
	return string(p)
}

// Rank returns the numeric rank of the priority (higher = more urgent).
// Unknown priorities rank below TRIVIAL.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 5
	case PriorityHigh:
		return 4
	case PriorityMedium:
		return 3
	case PriorityLow:
		return 2
	case PriorityTrivial:
		return 1
	default:
		return 0
	}
}

// IsHigherThan checks if this priority is higher than another
func (p Priority) IsHigherThan(other Priority) bool {
	return p.Rank() > other.Rank()
}

// IsLowerThan checks if this priority is lower than another
func (p Priority) IsLowerThan(other Priority) bool {
	return p.Rank() < other.Rank()
}
