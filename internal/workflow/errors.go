package workflow

import (
	"fmt"

	"github.com/felixgeelhaar/flowforge/internal/domain"
)

// InvalidTransitionError reports an illegal state pair. It carries the
// attempted source and target for user-facing messaging.
type InvalidTransitionError struct {
	From domain.State
	To   domain.State
}

// Error implements the error interface
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}
