// Package audit persists the dispatch core's resolved decisions: status
// transitions, assignments and unassignments.
package audit

import (
	"context"
	"time"
)

// Kind classifies an audit record.
type Kind string

const (
	KindTransition Kind = "transition"
	KindAssignment Kind = "assignment"
	KindUnassign   Kind = "unassign"
)

// Record captures one resolved mutation. From/To are set for
// transitions, MemberID for assignments.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      Kind      `json:"kind"`
	JobID     string    `json:"job_id"`
	Action    string    `json:"action,omitempty"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to,omitempty"`
	MemberID  string    `json:"member_id,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Query defines filters for retrieving records.
type Query struct {
	Start time.Time
	End   time.Time
	JobID string
	Kind  Kind
}

// LogStore persists Records and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

func (q Query) matches(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.JobID != "" && r.JobID != q.JobID {
		return false
	}
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	return true
}
