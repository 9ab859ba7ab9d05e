package graph

import (
	"fmt"

	"github.com/felixgeelhaar/flowforge/internal/domain"
)

// CycleError reports an edge registration that would close a dependency
// cycle.
type CycleError struct {
	Dependent    domain.ItemID
	Prerequisite domain.ItemID
}

// Error implements the error interface
func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency of %s on %s would create a cycle", e.Dependent, e.Prerequisite)
}

// SelfDependencyError reports an item registered as its own prerequisite.
type SelfDependencyError struct {
	ID domain.ItemID
}

// Error implements the error interface
func (e *SelfDependencyError) Error() string {
	return fmt.Sprintf("work item %s cannot depend on itself", e.ID)
}

// EdgeNotFoundError reports removal of an edge that was never registered.
type EdgeNotFoundError struct {
	Dependent    domain.ItemID
	Prerequisite domain.ItemID
}

// Error implements the error interface
func (e *EdgeNotFoundError) Error() string {
	return fmt.Sprintf("no dependency of %s on %s", e.Dependent, e.Prerequisite)
}
