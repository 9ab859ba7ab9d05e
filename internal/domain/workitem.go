package domain

import (
	"fmt"
	"time"

	"github.com/zeebo/blake3"
)

// WorkItem is an immutable snapshot of a tracked unit of work.
// Snapshots are produced by a repository and never mutated in place;
// state changes yield a new snapshot via WithState.
type WorkItem struct {
	ID          ItemID    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Type        Type      `json:"type"`
	State       State     `json:"state"`
	Priority    Priority  `json:"priority"`
	Assignee    string    `json:"assignee,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks the snapshot against domain rules.
func (w WorkItem) Validate() error {
	if w.ID.IsZero() {
		return fmt.Errorf("work item ID cannot be zero")
	}
	if w.Title == "" {
		return fmt.Errorf("work item title cannot be empty")
	}
	if err := w.Type.Validate(); err != nil {
		return fmt.Errorf("invalid work item: %w", err)
	}
	if err := w.State.Validate(); err != nil {
		return fmt.Errorf("invalid work item: %w", err)
	}
	if err := w.Priority.Validate(); err != nil {
		return fmt.Errorf("invalid work item: %w", err)
	}
	return nil
}

// IsAssigned reports whether the item has an assignee.
func (w WorkItem) IsAssigned() bool {
	return w.Assignee != ""
}

// WithState returns a copy of the snapshot in the given state.
// The receiver is left untouched.
func (w WorkItem) WithState(s State) WorkItem {
	next := w
	next.State = s
	next.UpdatedAt = time.Now().UTC()
	return next
}

// Fingerprint returns a stable hash of the snapshot content.
// Used as the REST ETag and the history record checksum.
func (w WorkItem) Fingerprint() string {
	h := blake3.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%s|%s|%s|%d",
		w.ID, w.Title, w.Description, w.Type, w.State, w.Priority, w.Assignee,
		w.CreatedAt.UnixNano())
	return fmt.Sprintf("%x", h.Sum(nil)[:16])
}
