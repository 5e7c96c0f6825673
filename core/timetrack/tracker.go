// Package timetrack declares the time-tracking boundary. The core only
// signals intent; timer state is owned by the external service.
package timetrack

import (
	"context"
	"time"
)

// Tracker starts and stops the work timer for a job.
type Tracker interface {
	Start(ctx context.Context, jobID string, at time.Time) error
	Stop(ctx context.Context, jobID string, at time.Time) error
}

// Nop discards all tracking calls.
type Nop struct{}

func (Nop) Start(context.Context, string, time.Time) error { return nil }
func (Nop) Stop(context.Context, string, time.Time) error  { return nil }
