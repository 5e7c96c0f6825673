package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fieldops/dispatch/core/model"
	"github.com/fieldops/dispatch/core/notify"
	"github.com/fieldops/dispatch/core/timetrack"
)

type fakeJobStore struct {
	mu      sync.Mutex
	jobs    map[string]model.Job
	failIDs map[string]bool
	// block, when set, holds UpdateJobStatus until released.
	block chan struct{}
	calls int
}

func newFakeJobStore(jobs ...model.Job) *fakeJobStore {
	s := &fakeJobStore{jobs: make(map[string]model.Job), failIDs: make(map[string]bool)}
	for _, j := range jobs {
		s.jobs[j.ID] = j
	}
	return s
}

func (s *fakeJobStore) UpdateJobStatus(ctx context.Context, jobID string, status model.JobStatus) (model.Job, error) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failIDs[jobID] {
		return model.Job{}, errors.New("persistence unavailable")
	}
	j, ok := s.jobs[jobID]
	if !ok {
		return model.Job{}, errors.New("job not found")
	}
	j.Status = status
	s.jobs[jobID] = j
	return j, nil
}

func (s *fakeJobStore) AssignJob(ctx context.Context, jobID, memberID string) (model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[jobID]
	if !ok {
		return model.Job{}, errors.New("job not found")
	}
	j.AssignedTo = memberID
	s.jobs[jobID] = j
	return j, nil
}

func (s *fakeJobStore) ListJobs(ctx context.Context) ([]model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	return out, nil
}

type recordingTracker struct {
	mu      sync.Mutex
	started []string
	stopped []string
}

func (r *recordingTracker) Start(_ context.Context, jobID string, _ time.Time) error {
	r.mu.Lock()
	r.started = append(r.started, jobID)
	r.mu.Unlock()
	return nil
}

func (r *recordingTracker) Stop(_ context.Context, jobID string, _ time.Time) error {
	r.mu.Lock()
	r.stopped = append(r.stopped, jobID)
	r.mu.Unlock()
	return nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (r *recordingNotifier) OnMyWay(_ context.Context, jobID string) error {
	r.mu.Lock()
	r.sent = append(r.sent, jobID)
	r.mu.Unlock()
	return r.err
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

func newTestMachine(t *testing.T, st *fakeJobStore, tracker *recordingTracker, notifier *recordingNotifier) *Machine {
	t.Helper()
	var tr timetrack.Tracker
	if tracker != nil {
		tr = tracker
	}
	var nt notify.Notifier
	if notifier != nil {
		nt = notifier
	}
	m, err := NewMachine(st, tr, nt, NewInFlight(), nil, nil, nopLogger{})
	if err != nil {
		t.Fatalf("machine: %v", err)
	}
	return m
}

func TestApply_StartJob(t *testing.T) {
	job := model.Job{ID: "j1", Status: model.StatusScheduled}
	st := newFakeJobStore(job)
	tracker := &recordingTracker{}
	m := newTestMachine(t, st, tracker, nil)

	updated, err := m.Apply(context.Background(), job, model.ActionStart, true)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if updated.Status != model.StatusInProgress {
		t.Fatalf("expected in_progress got %s", updated.Status)
	}
	if len(tracker.started) != 1 || tracker.started[0] != "j1" {
		t.Fatalf("time tracking not started: %#v", tracker.started)
	}
}

func TestApply_StartFromPending(t *testing.T) {
	job := model.Job{ID: "j1", Status: model.StatusPending}
	m := newTestMachine(t, newFakeJobStore(job), nil, nil)
	updated, err := m.Apply(context.Background(), job, model.ActionStart, true)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if updated.Status != model.StatusInProgress {
		t.Fatalf("expected in_progress got %s", updated.Status)
	}
}

func TestApply_CompleteJob(t *testing.T) {
	job := model.Job{ID: "j1", Status: model.StatusInProgress}
	st := newFakeJobStore(job)
	tracker := &recordingTracker{}
	m := newTestMachine(t, st, tracker, nil)

	updated, err := m.Apply(context.Background(), job, model.ActionComplete, true)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if updated.Status != model.StatusDone {
		t.Fatalf("expected done got %s", updated.Status)
	}
	if len(tracker.stopped) != 1 {
		t.Fatalf("time tracking not stopped: %#v", tracker.stopped)
	}
}

func TestApply_ConfirmationRequired(t *testing.T) {
	job := model.Job{ID: "j1", Status: model.StatusScheduled}
	st := newFakeJobStore(job)
	m := newTestMachine(t, st, nil, nil)

	_, err := m.Apply(context.Background(), job, model.ActionStart, false)
	if !errors.Is(err, ErrConfirmationRequired) {
		t.Fatalf("expected ErrConfirmationRequired got %v", err)
	}
	if st.calls != 0 {
		t.Fatalf("store must not be called without confirmation")
	}
}

func TestApply_IllegalTransitions(t *testing.T) {
	cases := []struct {
		status model.JobStatus
		action model.JobAction
	}{
		{model.StatusDone, model.ActionStart},
		{model.StatusInvoiced, model.ActionStart},
		{model.StatusDone, model.ActionComplete},
		{model.StatusPending, model.ActionComplete},
		{model.StatusPending, model.ActionOnMyWay},
		{model.StatusInProgress, model.ActionStart},
	}
	for _, tc := range cases {
		job := model.Job{ID: "j1", Status: tc.status}
		m := newTestMachine(t, newFakeJobStore(job), nil, nil)
		got, err := m.Apply(context.Background(), job, tc.action, true)
		if !errors.Is(err, ErrIllegalTransition) {
			t.Errorf("%s from %s: expected ErrIllegalTransition got %v", tc.action, tc.status, err)
		}
		if got.Status != tc.status {
			t.Errorf("%s from %s: status changed to %s", tc.action, tc.status, got.Status)
		}
	}
}

func TestApply_PersistenceFailureRollsBack(t *testing.T) {
	job := model.Job{ID: "j1", Status: model.StatusScheduled}
	st := newFakeJobStore(job)
	st.failIDs["j1"] = true
	m := newTestMachine(t, st, nil, nil)

	got, err := m.Apply(context.Background(), job, model.ActionStart, true)
	if err == nil {
		t.Fatal("expected persistence error")
	}
	if got.Status != model.StatusScheduled {
		t.Fatalf("prior status must be preserved, got %s", got.Status)
	}
	if m.Busy("j1") {
		t.Fatal("in-flight slot must be released after failure")
	}
}

func TestApply_ConcurrentTransitionRejected(t *testing.T) {
	job := model.Job{ID: "j1", Status: model.StatusScheduled}
	st := newFakeJobStore(job)
	st.block = make(chan struct{})
	m := newTestMachine(t, st, nil, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := m.Apply(context.Background(), job, model.ActionStart, true); err != nil {
			t.Errorf("first apply: %v", err)
		}
	}()
	for !m.Busy("j1") {
		time.Sleep(time.Millisecond)
	}
	_, err := m.Apply(context.Background(), job, model.ActionStart, true)
	if !errors.Is(err, ErrTransitionInFlight) {
		t.Fatalf("expected ErrTransitionInFlight got %v", err)
	}
	close(st.block)
	<-done
	if m.Busy("j1") {
		t.Fatal("slot not released")
	}
}

func TestApply_OnMyWayKeepsStatus(t *testing.T) {
	job := model.Job{ID: "j1", Status: model.StatusScheduled}
	st := newFakeJobStore(job)
	notifier := &recordingNotifier{}
	m := newTestMachine(t, st, nil, notifier)

	got, err := m.Apply(context.Background(), job, model.ActionOnMyWay, false)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.Status != model.StatusScheduled {
		t.Fatalf("on-my-way must not advance status, got %s", got.Status)
	}
	if st.calls != 0 {
		t.Fatal("on-my-way must not hit the persistence boundary")
	}
	if len(notifier.sent) != 1 || notifier.sent[0] != "j1" {
		t.Fatalf("notification not sent: %#v", notifier.sent)
	}
}

func TestApply_OnMyWayNotifierFailureNonFatal(t *testing.T) {
	job := model.Job{ID: "j1", Status: model.StatusScheduled}
	notifier := &recordingNotifier{err: errors.New("broker down")}
	m := newTestMachine(t, newFakeJobStore(job), nil, notifier)

	if _, err := m.Apply(context.Background(), job, model.ActionOnMyWay, false); err != nil {
		t.Fatalf("notification failure must be non-fatal, got %v", err)
	}
}

// TestNoBackwardPath walks every status/action pair and asserts the
// machine can never move a job backward.
func TestNoBackwardPath(t *testing.T) {
	rank := map[model.JobStatus]int{
		model.StatusPending:    0,
		model.StatusScheduled:  1,
		model.StatusInProgress: 2,
		model.StatusDone:       3,
		model.StatusInvoiced:   4,
	}
	for from, actions := range transitions {
		for action, tr := range actions {
			if rank[tr.to] < rank[from] {
				t.Errorf("%s from %s moves backward to %s", action, from, tr.to)
			}
		}
	}
}
