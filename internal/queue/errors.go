package queue

import (
	"fmt"

	"github.com/felixgeelhaar/flowforge/internal/domain"
)

// InvalidEstimateError reports a negative story-point estimate.
type InvalidEstimateError struct {
	ItemID   domain.ItemID
	Estimate int
}

// Error implements the error interface
func (e *InvalidEstimateError) Error() string {
	return fmt.Sprintf("invalid estimate %d for work item %s", e.Estimate, e.ItemID)
}

// InvalidCapacityError reports a negative capacity budget.
type InvalidCapacityError struct {
	Capacity int
}

// Error implements the error interface
func (e *InvalidCapacityError) Error() string {
	return fmt.Sprintf("invalid capacity %d: must not be negative", e.Capacity)
}
