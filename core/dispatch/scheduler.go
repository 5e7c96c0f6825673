// Package dispatch implements the single-selection assignment protocol
// that pairs an unassigned job with a team member. At most one job is
// ever selected, and at most one assignment mutation is ever in flight.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fieldops/dispatch/core/audit"
	"github.com/fieldops/dispatch/core/events"
	"github.com/fieldops/dispatch/core/lifecycle"
	"github.com/fieldops/dispatch/core/logger"
	"github.com/fieldops/dispatch/core/model"
	"github.com/fieldops/dispatch/core/store"
	"github.com/fieldops/dispatch/internal/eventbus"
)

var (
	// ErrNoSelection signals an assignment attempt without a selected job.
	ErrNoSelection = errors.New("dispatch: no job selected")
	// ErrAssignmentInFlight signals that a mutation is outstanding; member
	// targets are non-interactive until it resolves.
	ErrAssignmentInFlight = errors.New("dispatch: assignment already in flight")
	// ErrJobAlreadyAssigned signals a selection attempt on an assigned job.
	ErrJobAlreadyAssigned = errors.New("dispatch: job already assigned")
	// ErrJobNotAssigned signals an unassignment attempt on an unassigned job.
	ErrJobNotAssigned = errors.New("dispatch: job not assigned")
	// ErrMemberNotEligible signals an assignment target that has not
	// accepted their invite.
	ErrMemberNotEligible = errors.New("dispatch: member not eligible")
	// ErrConfirmationRequired signals an unassignment issued without the
	// confirmation step.
	ErrConfirmationRequired = errors.New("dispatch: confirmation required")
)

// Phase is the protocol state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSelected
	PhaseAssigning
)

// Scheduler arbitrates assignment of unassigned jobs to accepted team
// members on top of the shared per-job in-flight arena.
type Scheduler struct {
	jobs   store.JobStore
	team   store.TeamStore
	arena  *lifecycle.InFlight
	bus    eventbus.EventBus
	audit  audit.LogStore
	logger logger.Logger

	mu       sync.Mutex
	phase    Phase
	selected string
}

// NewScheduler creates a scheduler. jobs, arena and log are required;
// team, bus and auditStore may be nil.
func NewScheduler(jobs store.JobStore, team store.TeamStore, arena *lifecycle.InFlight, bus eventbus.EventBus, auditStore audit.LogStore, log logger.Logger) (*Scheduler, error) {
	if jobs == nil || arena == nil || log == nil {
		return nil, fmt.Errorf("dispatch: nil parameter provided to NewScheduler")
	}
	return &Scheduler{
		jobs:   jobs,
		team:   team,
		arena:  arena,
		bus:    bus,
		audit:  auditStore,
		logger: log,
	}, nil
}

// Select toggles or replaces the selection. Selecting the already
// selected job clears it; selecting a different unassigned job replaces
// it. Rejected while an assignment is in flight.
func (s *Scheduler) Select(job model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseAssigning {
		return ErrAssignmentInFlight
	}
	if job.Assigned() {
		return fmt.Errorf("%w: %s", ErrJobAlreadyAssigned, job.ID)
	}
	if s.selected == job.ID {
		s.selected = ""
		s.phase = PhaseIdle
	} else {
		s.selected = job.ID
		s.phase = PhaseSelected
	}
	selectionChanges.Inc()
	s.publish(events.SelectionEvent{JobID: s.selected})
	return nil
}

// Cancel clears the selection. It is a no-op while assigning: in-flight
// mutations are not cancellable, only awaited.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseSelected {
		return
	}
	s.selected = ""
	s.phase = PhaseIdle
	selectionChanges.Inc()
	s.publish(events.SelectionEvent{})
}

// Selected returns the selected job id, if any.
func (s *Scheduler) Selected() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, s.selected != ""
}

// CurrentPhase returns the protocol phase. Views render member cards
// interactive only in PhaseSelected.
func (s *Scheduler) CurrentPhase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Assign issues the assignment of the selected job to member. On success
// the selection clears; on failure it is preserved so the user can
// retry. The AssignmentEvent fires only after the mutation resolved, so
// roster refreshes never race the write.
func (s *Scheduler) Assign(ctx context.Context, member model.TeamMember) error {
	s.mu.Lock()
	switch s.phase {
	case PhaseAssigning:
		s.mu.Unlock()
		return ErrAssignmentInFlight
	case PhaseIdle:
		s.mu.Unlock()
		return ErrNoSelection
	}
	if !member.Eligible() {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrMemberNotEligible, member.ID)
	}
	jobID := s.selected
	if !s.arena.Acquire(jobID) {
		s.mu.Unlock()
		return fmt.Errorf("%w: job %s", ErrAssignmentInFlight, jobID)
	}
	s.phase = PhaseAssigning
	s.mu.Unlock()
	defer s.arena.Release(jobID)

	start := time.Now()
	_, err := s.jobs.AssignJob(ctx, jobID, member.ID)
	assignmentLatency.Observe(time.Since(start).Seconds())

	s.mu.Lock()
	if err != nil {
		s.phase = PhaseSelected
		s.mu.Unlock()
		assignmentsTotal.WithLabelValues("assign", "error").Inc()
		s.publish(events.AssignmentEvent{JobID: jobID, MemberID: member.ID, Err: err})
		return fmt.Errorf("assign job %s to %s: %w", jobID, member.ID, err)
	}
	s.selected = ""
	s.phase = PhaseIdle
	s.mu.Unlock()
	assignmentsTotal.WithLabelValues("assign", "ok").Inc()
	s.logger.Infof("job %s assigned to %s", jobID, member.ID)
	s.record(ctx, audit.Record{
		Timestamp: time.Now(),
		Kind:      audit.KindAssignment,
		JobID:     jobID,
		MemberID:  member.ID,
	})
	s.publish(events.AssignmentEvent{JobID: jobID, MemberID: member.ID})
	return nil
}

// Unassign clears a job's assignee. It is confirmation gated and obeys
// the same per-job exclusivity as every other mutation.
func (s *Scheduler) Unassign(ctx context.Context, job model.Job, confirmed bool) error {
	if !confirmed {
		return fmt.Errorf("%w: unassign %s", ErrConfirmationRequired, job.ID)
	}
	if !job.Assigned() {
		return fmt.Errorf("%w: %s", ErrJobNotAssigned, job.ID)
	}
	if !s.arena.Acquire(job.ID) {
		return fmt.Errorf("%w: job %s", ErrAssignmentInFlight, job.ID)
	}
	defer s.arena.Release(job.ID)

	if _, err := s.jobs.AssignJob(ctx, job.ID, ""); err != nil {
		assignmentsTotal.WithLabelValues("unassign", "error").Inc()
		s.publish(events.AssignmentEvent{JobID: job.ID, Err: err})
		return fmt.Errorf("unassign job %s: %w", job.ID, err)
	}
	assignmentsTotal.WithLabelValues("unassign", "ok").Inc()
	s.logger.Infof("job %s unassigned", job.ID)
	s.record(ctx, audit.Record{Timestamp: time.Now(), Kind: audit.KindUnassign, JobID: job.ID})
	s.publish(events.AssignmentEvent{JobID: job.ID})
	return nil
}

// MemberSummary pairs a roster member with their recomputed open job
// count.
type MemberSummary struct {
	Member     model.TeamMember
	ActiveJobs int
}

// Roster lists eligible members with ActiveJobs recomputed from the
// authoritative job collection. Counts are never stored or incremented
// locally, so they cannot drift from server truth.
func (s *Scheduler) Roster(ctx context.Context) ([]MemberSummary, error) {
	if s.team == nil {
		return nil, fmt.Errorf("dispatch: no team store configured")
	}
	members, err := s.team.ListTeamMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	jobs, err := s.jobs.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	var out []MemberSummary
	for _, m := range EligibleMembers(members) {
		out = append(out, MemberSummary{Member: m, ActiveJobs: model.ActiveJobCount(jobs, m.ID)})
	}
	return out, nil
}

// UnassignedJobs filters the jobs open for assignment.
func UnassignedJobs(jobs []model.Job) []model.Job {
	var out []model.Job
	for _, j := range jobs {
		if !j.Assigned() && !j.Status.Closed() {
			out = append(out, j)
		}
	}
	return out
}

// EligibleMembers filters members that accepted their invite.
func EligibleMembers(members []model.TeamMember) []model.TeamMember {
	var out []model.TeamMember
	for _, m := range members {
		if m.Eligible() {
			out = append(out, m)
		}
	}
	return out
}

func (s *Scheduler) publish(e eventbus.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

func (s *Scheduler) record(ctx context.Context, rec audit.Record) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Append(ctx, rec); err != nil {
		s.logger.Errorf("audit append: %v", err)
	}
}
