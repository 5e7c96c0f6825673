// Package events defines the dispatch related events emitted on the event bus.
//
// Available event types:
//   - TransitionEvent: a job status transition resolved
//   - SelectionEvent: the assignment selection changed
//   - AssignmentEvent: an assignment or unassignment resolved
//   - NotifyEvent: an on-my-way notification was attempted
package events
