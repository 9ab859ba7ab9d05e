package health

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/flowforge/internal/domain"
	"github.com/felixgeelhaar/flowforge/internal/workflow"
)

// WorkflowChecker verifies the transition table is closed over the
// state set: every target is a valid state and the terminal state has
// no exits. The table is static, so a failure here means a bad build.
type WorkflowChecker struct{}

// NewWorkflowChecker creates a transition-table checker.
func NewWorkflowChecker() *WorkflowChecker {
	return &WorkflowChecker{}
}

func (c *WorkflowChecker) Name() string {
	return "workflow-table"
}

func (c *WorkflowChecker) Check(ctx context.Context) *Result {
	transitions := 0
	for _, from := range domain.States() {
		targets := workflow.AvailableTransitions(from)
		if from.IsTerminal() && len(targets) > 0 {
			return Unhealthy(fmt.Sprintf("terminal state %s has %d exits", from, len(targets)))
		}
		for _, to := range targets {
			if err := to.Validate(); err != nil {
				return Unhealthy(fmt.Sprintf("transition %s -> %s targets an unknown state", from, to))
			}
			transitions++
		}
	}

	return Healthy("transition table is closed").
		WithDetail("transitions", transitions)
}
