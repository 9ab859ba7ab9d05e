package repository

import (
	"fmt"

	"github.com/felixgeelhaar/flowforge/internal/domain"
)

// UnknownItemError reports an identifier with no stored work item.
// Callers surface it without retrying.
type UnknownItemError struct {
	ID domain.ItemID
}

// Error implements the error interface
func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("work item not found: %s", e.ID)
}
