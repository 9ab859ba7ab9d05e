package domain

import "fmt"

// Type classifies a work item.
// This is a value object that enforces valid type values.
type Type string

// Valid work item types
const (
	TypeTask    Type = "TASK"
	TypeStory   Type = "STORY"
	TypeBug     Type = "BUG"
	TypeFeature Type = "FEATURE"
	TypeEpic    Type = "EPIC"
	TypeChore   Type = "CHORE"
)

// Types returns all valid types.
func Types() []Type {
	return []Type{TypeTask, TypeStory, TypeBug, TypeFeature, TypeEpic, TypeChore}
}

// NewType creates a new Type value object with validation
func NewType(value string) (Type, error) {
	t := Type(value)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Validate checks if the type is valid
func (t Type) Validate() error {
	switch t {
	case TypeTask, TypeStory, TypeBug, TypeFeature, TypeEpic, TypeChore:
		return nil
	default:
		return fmt.Errorf("invalid work item type %q: must be TASK, STORY, BUG, FEATURE, EPIC, or CHORE", string(t))
	}
}

// String returns the string representation
func (t Type) String() string {
	return string(t)
}
