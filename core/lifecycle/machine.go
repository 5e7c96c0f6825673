// Package lifecycle implements the job status state machine. Every
// status write in the system goes through Machine.Apply; there is no
// backward transition, and any undo is an explicit external operation.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fieldops/dispatch/core/audit"
	"github.com/fieldops/dispatch/core/events"
	"github.com/fieldops/dispatch/core/logger"
	"github.com/fieldops/dispatch/core/model"
	"github.com/fieldops/dispatch/core/notify"
	"github.com/fieldops/dispatch/core/store"
	"github.com/fieldops/dispatch/core/timetrack"
	"github.com/fieldops/dispatch/internal/eventbus"
)

var (
	// ErrIllegalTransition signals an action not allowed from the job's
	// current status.
	ErrIllegalTransition = errors.New("lifecycle: illegal transition")
	// ErrConfirmationRequired signals a consequential action issued
	// without the user confirmation step.
	ErrConfirmationRequired = errors.New("lifecycle: confirmation required")
	// ErrTransitionInFlight signals a mutation already outstanding for
	// the job. It is raised before any network call.
	ErrTransitionInFlight = errors.New("lifecycle: transition already in flight")
)

// transition is one row of the state machine table.
type transition struct {
	to           model.JobStatus
	needsConfirm bool
}

// transitions maps current status to the allowed field actions.
// ActionOnMyWay keeps the status; it is informational only.
var transitions = map[model.JobStatus]map[model.JobAction]transition{
	model.StatusPending: {
		model.ActionStart: {to: model.StatusInProgress, needsConfirm: true},
	},
	model.StatusScheduled: {
		model.ActionStart:   {to: model.StatusInProgress, needsConfirm: true},
		model.ActionOnMyWay: {to: model.StatusScheduled},
	},
	model.StatusInProgress: {
		model.ActionComplete: {to: model.StatusDone, needsConfirm: true},
	},
}

// Machine applies guarded transitions and their side effects.
type Machine struct {
	store    store.JobStore
	tracker  timetrack.Tracker
	notifier notify.Notifier
	arena    *InFlight
	bus      eventbus.EventBus
	audit    audit.LogStore
	logger   logger.Logger
}

// NewMachine creates a machine. store, arena and log are required; a nil
// tracker is replaced by a no-op, and bus, notifier and auditStore may
// be nil.
func NewMachine(st store.JobStore, tracker timetrack.Tracker, notifier notify.Notifier, arena *InFlight, bus eventbus.EventBus, auditStore audit.LogStore, log logger.Logger) (*Machine, error) {
	if st == nil || arena == nil || log == nil {
		return nil, fmt.Errorf("lifecycle: nil parameter provided to NewMachine")
	}
	if tracker == nil {
		tracker = timetrack.Nop{}
	}
	return &Machine{
		store:    st,
		tracker:  tracker,
		notifier: notifier,
		arena:    arena,
		bus:      bus,
		audit:    auditStore,
		logger:   log,
	}, nil
}

// Apply performs the action on the job. The returned job carries the
// acknowledged status; on any error the input job is returned unchanged
// so the caller can restore the prior view.
func (m *Machine) Apply(ctx context.Context, job model.Job, action model.JobAction, confirmed bool) (model.Job, error) {
	tr, ok := transitions[job.Status][action]
	if !ok {
		return job, fmt.Errorf("%w: %s from %s", ErrIllegalTransition, action, job.Status)
	}
	if tr.needsConfirm && !confirmed {
		return job, fmt.Errorf("%w: %s", ErrConfirmationRequired, action)
	}
	if !m.arena.Acquire(job.ID) {
		transitionConflicts.Inc()
		return job, fmt.Errorf("%w: job %s", ErrTransitionInFlight, job.ID)
	}
	defer m.arena.Release(job.ID)

	if action == model.ActionOnMyWay {
		m.sendOnMyWay(ctx, job)
		return job, nil
	}

	start := time.Now()
	updated, err := m.store.UpdateJobStatus(ctx, job.ID, tr.to)
	latency := time.Since(start)
	if err != nil {
		transitionFailures.WithLabelValues(string(action)).Inc()
		m.publish(events.TransitionEvent{JobID: job.ID, Action: action, From: job.Status, To: tr.to, Err: err, Latency: latency})
		return job, fmt.Errorf("update job %s status: %w", job.ID, err)
	}
	transitionsApplied.WithLabelValues(string(action)).Inc()
	m.logger.Infof("job %s: %s -> %s", job.ID, job.Status, updated.Status)

	switch action {
	case model.ActionStart:
		if terr := m.tracker.Start(ctx, job.ID, time.Now()); terr != nil {
			m.logger.Warnf("time tracking start for %s: %v", job.ID, terr)
		}
	case model.ActionComplete:
		if terr := m.tracker.Stop(ctx, job.ID, time.Now()); terr != nil {
			m.logger.Warnf("time tracking stop for %s: %v", job.ID, terr)
		}
	}
	m.record(ctx, audit.Record{
		Timestamp: time.Now(),
		Kind:      audit.KindTransition,
		JobID:     job.ID,
		Action:    string(action),
		From:      string(job.Status),
		To:        string(updated.Status),
	})
	m.publish(events.TransitionEvent{JobID: job.ID, Action: action, From: job.Status, To: updated.Status, Latency: latency})
	return updated, nil
}

// Busy reports whether a mutation for the job is outstanding. Views use
// it to disable controls instead of keeping local updating flags.
func (m *Machine) Busy(jobID string) bool { return m.arena.Busy(jobID) }

// sendOnMyWay fires the client notification. Failure is non-fatal: the
// operator is still navigated to the job.
func (m *Machine) sendOnMyWay(ctx context.Context, job model.Job) {
	if m.notifier == nil {
		return
	}
	err := m.notifier.OnMyWay(ctx, job.ID)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		m.logger.Warnf("on-my-way notification for %s: %v", job.ID, err)
	}
	notificationAttempts.WithLabelValues(outcome).Inc()
	m.publish(events.NotifyEvent{JobID: job.ID, Err: err})
}

func (m *Machine) publish(e eventbus.Event) {
	if m.bus != nil {
		m.bus.Publish(e)
	}
}

func (m *Machine) record(ctx context.Context, rec audit.Record) {
	if m.audit == nil {
		return
	}
	if err := m.audit.Append(ctx, rec); err != nil {
		m.logger.Errorf("audit append: %v", err)
	}
}
