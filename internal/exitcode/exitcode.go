package exitcode

import (
	"os"

	stderrors "errors"

	"github.com/felixgeelhaar/flowforge/internal/errors"
	"github.com/felixgeelhaar/flowforge/internal/graph"
	"github.com/felixgeelhaar/flowforge/internal/repository"
	"github.com/felixgeelhaar/flowforge/internal/workflow"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// InvalidTransition indicates a workflow transition was rejected
	InvalidTransition = 3

	// UnknownItem indicates a referenced work item does not exist
	UnknownItem = 4

	// CycleRisk indicates a dependency edge was rejected because it
	// would close a cycle
	CycleRisk = 5

	// AuthError indicates an authentication failure
	AuthError = 6

	// Interrupted indicates the user cancelled the operation (128 + SIGINT)
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var transitionErr *workflow.InvalidTransitionError
	if stderrors.As(err, &transitionErr) {
		return InvalidTransition
	}

	var unknownErr *repository.UnknownItemError
	if stderrors.As(err, &unknownErr) {
		return UnknownItem
	}

	var cycleErr *graph.CycleError
	if stderrors.As(err, &cycleErr) {
		return CycleRisk
	}
	var selfErr *graph.SelfDependencyError
	if stderrors.As(err, &selfErr) {
		return CycleRisk
	}

	var flowErr *errors.FlowError
	if stderrors.As(err, &flowErr) {
		switch flowErr.Code {
		case errors.ErrCodeItemNotFound:
			return UnknownItem
		case errors.ErrCodeInvalidTransition:
			return InvalidTransition
		case errors.ErrCodeCycleRisk, errors.ErrCodeSelfDependency:
			return CycleRisk
		case errors.ErrCodeTokenInvalid, errors.ErrCodeTokenMissing:
			return AuthError
		case errors.ErrCodeConfigNotFound, errors.ErrCodeConfigInvalid:
			return UsageError
		}
	}

	return GeneralError
}
