package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ItemID uniquely identifies a work item.
// This is a value object wrapping a UUID.
type ItemID struct {
	value uuid.UUID
}

// NewItemID generates a new random ItemID.
func NewItemID() ItemID {
	return ItemID{value: uuid.New()}
}

// ParseItemID parses a string into an ItemID.
func ParseItemID(s string) (ItemID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ItemID{}, fmt.Errorf("invalid item ID %q: %w", s, err)
	}
	return ItemID{value: id}, nil
}

// IsZero reports whether the ID is the zero value.
func (id ItemID) IsZero() bool {
	return id.value == uuid.Nil
}

// String returns the canonical string representation.
func (id ItemID) String() string {
	return id.value.String()
}

// MarshalText implements encoding.TextMarshaler.
func (id ItemID) MarshalText() ([]byte, error) {
	return []byte(id.value.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ItemID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return fmt.Errorf("invalid item ID %q: %w", string(text), err)
	}
	id.value = parsed
	return nil
}
