package events

import (
	"time"

	"github.com/fieldops/dispatch/core/model"
)

// TransitionEvent is published after a status mutation resolves.
type TransitionEvent struct {
	JobID   string
	Action  model.JobAction
	From    model.JobStatus
	To      model.JobStatus
	Err     error
	Latency time.Duration
}

// NotifyEvent is published after an on-my-way notification attempt.
// Err is informational only; notification failure never blocks the job.
type NotifyEvent struct {
	JobID string
	Err   error
}
