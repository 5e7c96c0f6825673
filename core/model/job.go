package model

import (
	"fmt"
	"time"
)

// JobStatus is the lifecycle state of a job. Transitions between statuses
// go through the lifecycle package only.
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusScheduled  JobStatus = "scheduled"
	StatusInProgress JobStatus = "in_progress"
	StatusDone       JobStatus = "done"
	StatusInvoiced   JobStatus = "invoiced"
)

// ParseJobStatus validates a raw status string.
func ParseJobStatus(s string) (JobStatus, error) {
	switch JobStatus(s) {
	case StatusPending, StatusScheduled, StatusInProgress, StatusDone, StatusInvoiced:
		return JobStatus(s), nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// Closed reports whether the job no longer counts as active work.
func (s JobStatus) Closed() bool {
	return s == StatusDone || s == StatusInvoiced
}

// Job represents a unit of field work. ClientID and AssignedTo are weak
// references used for lookup only; empty means unset.
type Job struct {
	ID          string
	Title       string
	Address     string
	Location    *Coordinate // nil if the site has no known coordinates
	Status      JobStatus
	ScheduledAt *time.Time
	ClientID    string
	AssignedTo  string
}

// Located reports whether the job carries site coordinates.
func (j Job) Located() bool { return j.Location != nil }

// Assigned reports whether the job is assigned to a team member.
func (j Job) Assigned() bool { return j.AssignedTo != "" }
