package events

// SelectionEvent is published when the assignment selection changes.
// JobID is empty when the selection was cleared.
type SelectionEvent struct {
	JobID string
}

// AssignmentEvent is published once an assignment or unassignment has
// resolved, never while it is in flight. Consumers recompute derived
// views (unassigned list, active job counts) on this event.
type AssignmentEvent struct {
	JobID    string
	MemberID string // empty for unassignment
	Err      error
}
