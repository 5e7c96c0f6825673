package store

import (
	"context"
	"errors"
	"testing"

	"github.com/fieldops/dispatch/core/model"
	corestore "github.com/fieldops/dispatch/core/store"
)

func TestMemoryStore_UpdateJobStatus(t *testing.T) {
	s := NewMemoryStore()
	s.SeedJobs(model.Job{ID: "j1", Status: model.StatusPending})

	j, err := s.UpdateJobStatus(context.Background(), "j1", model.StatusInProgress)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if j.Status != model.StatusInProgress {
		t.Fatalf("expected in_progress got %s", j.Status)
	}

	if _, err := s.UpdateJobStatus(context.Background(), "missing", model.StatusDone); !errors.Is(err, corestore.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound got %v", err)
	}
}

func TestMemoryStore_AssignAndClear(t *testing.T) {
	s := NewMemoryStore()
	s.SeedJobs(model.Job{ID: "j1", Status: model.StatusScheduled})

	j, err := s.AssignJob(context.Background(), "j1", "m1")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if j.AssignedTo != "m1" {
		t.Fatalf("expected m1 got %q", j.AssignedTo)
	}

	j, err = s.AssignJob(context.Background(), "j1", "")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if j.Assigned() {
		t.Fatalf("assignment not cleared: %q", j.AssignedTo)
	}
}

func TestMemoryStore_ListOrder(t *testing.T) {
	s := NewMemoryStore()
	s.SeedJobs(
		model.Job{ID: "b"},
		model.Job{ID: "a"},
		model.Job{ID: "c"},
	)
	jobs, err := s.ListJobs(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if jobs[0].ID != "a" || jobs[1].ID != "b" || jobs[2].ID != "c" {
		t.Fatalf("unexpected order: %v", jobs)
	}

	s.SeedMembers(
		model.TeamMember{ID: "m2"},
		model.TeamMember{ID: "m1"},
	)
	members, err := s.ListTeamMembers(context.Background())
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if members[0].ID != "m1" || members[1].ID != "m2" {
		t.Fatalf("unexpected member order: %v", members)
	}
}
