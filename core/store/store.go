// Package store declares the persistence boundary consumed by the
// dispatch core. Implementations live under infra/store; the core only
// reacts to the resolution of these calls and never retries them.
package store

import (
	"context"
	"errors"

	"github.com/fieldops/dispatch/core/model"
)

// ErrJobNotFound is returned by mutations targeting an unknown job ID.
var ErrJobNotFound = errors.New("store: job not found")

// JobStore is the mutation and listing boundary for jobs. Mutations are
// network calls: they return the updated job on acknowledged success and
// an error otherwise, with no partial state in between.
type JobStore interface {
	UpdateJobStatus(ctx context.Context, jobID string, status model.JobStatus) (model.Job, error)
	// AssignJob sets the assignee. An empty memberID clears the assignment.
	AssignJob(ctx context.Context, jobID, memberID string) (model.Job, error)
	ListJobs(ctx context.Context) ([]model.Job, error)
}

// TeamStore lists the team roster.
type TeamStore interface {
	ListTeamMembers(ctx context.Context) ([]model.TeamMember, error)
}
