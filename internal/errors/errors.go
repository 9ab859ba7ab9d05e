package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Workflow errors (WORKFLOW-001 to WORKFLOW-099)
	ErrCodeInvalidTransition ErrorCode = "WORKFLOW-001"
	ErrCodeTerminalState     ErrorCode = "WORKFLOW-002"

	// Item errors (ITEM-001 to ITEM-099)
	ErrCodeItemNotFound ErrorCode = "ITEM-001"
	ErrCodeItemInvalid  ErrorCode = "ITEM-002"
	ErrCodeItemConflict ErrorCode = "ITEM-003"

	// Dependency graph errors (GRAPH-001 to GRAPH-099)
	ErrCodeCycleRisk      ErrorCode = "GRAPH-001"
	ErrCodeSelfDependency ErrorCode = "GRAPH-002"
	ErrCodeEdgeNotFound   ErrorCode = "GRAPH-003"

	// Queue errors (QUEUE-001 to QUEUE-099)
	ErrCodeInvalidEstimate ErrorCode = "QUEUE-001"
	ErrCodeInvalidCapacity ErrorCode = "QUEUE-002"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigNotFound ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG-002"

	// Auth errors (AUTH-001 to AUTH-099)
	ErrCodeTokenInvalid ErrorCode = "AUTH-001"
	ErrCodeTokenMissing ErrorCode = "AUTH-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeFileUnmarshal   ErrorCode = "IO-004"
	ErrCodeFileMarshal     ErrorCode = "IO-005"
)

// FlowError represents an enhanced error with code, suggestions, and documentation
type FlowError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *FlowError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FlowError) Unwrap() error {
	return e.Cause
}

// New creates a new FlowError
func New(code ErrorCode, message string) *FlowError {
	return &FlowError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new FlowError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *FlowError {
	return &FlowError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *FlowError) WithSuggestion(suggestion string) *FlowError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *FlowError) WithSuggestions(suggestions ...string) *FlowError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *FlowError) WithDocs(url string) *FlowError {
	e.DocsURL = url
	return e
}

// Common error constructors for frequently used errors

// NewItemNotFoundError creates a work item not found error
func NewItemNotFoundError(id string) *FlowError {
	return New(ErrCodeItemNotFound, fmt.Sprintf("work item not found: %s", id)).
		WithSuggestion("Run 'flowforge list' to see known work items").
		WithSuggestion("Check if the item ID is correct")
}

// NewConfigNotFoundError creates a configuration file not found error
func NewConfigNotFoundError(path string) *FlowError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithSuggestion("Run 'flowforge init' to create a default configuration").
		WithSuggestion("Check if the file path is correct")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *FlowError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}

// NewTokenInvalidError creates an authentication failure error
func NewTokenInvalidError() *FlowError {
	return New(ErrCodeTokenInvalid, "API token is invalid").
		WithSuggestion("Check the FLOWFORGE_TOKEN environment variable").
		WithSuggestion("Ask an administrator to issue a new token")
}
