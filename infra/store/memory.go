// Package store holds the persistence adapters behind the core store
// interfaces. MemoryStore backs tests and the standalone CLI commands;
// GormStore speaks to Postgres for deployments with a real backend.
package store

import (
	"context"
	"sort"
	"sync"

	corestore "github.com/fieldops/dispatch/core/store"

	"github.com/fieldops/dispatch/core/model"
)

// MemoryStore keeps jobs and team members in process memory. Listings
// return copies sorted by ID so callers see a stable order.
type MemoryStore struct {
	mu      sync.RWMutex
	jobs    map[string]model.Job
	members map[string]model.TeamMember
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:    map[string]model.Job{},
		members: map[string]model.TeamMember{},
	}
}

// SeedJobs inserts or replaces jobs.
func (s *MemoryStore) SeedJobs(jobs ...model.Job) {
	s.mu.Lock()
	for _, j := range jobs {
		s.jobs[j.ID] = j
	}
	s.mu.Unlock()
}

// SeedMembers inserts or replaces team members.
func (s *MemoryStore) SeedMembers(members ...model.TeamMember) {
	s.mu.Lock()
	for _, m := range members {
		s.members[m.ID] = m
	}
	s.mu.Unlock()
}

func (s *MemoryStore) UpdateJobStatus(ctx context.Context, jobID string, status model.JobStatus) (model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[jobID]
	if !ok {
		return model.Job{}, corestore.ErrJobNotFound
	}
	j.Status = status
	s.jobs[jobID] = j
	return j, nil
}

func (s *MemoryStore) AssignJob(ctx context.Context, jobID, memberID string) (model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[jobID]
	if !ok {
		return model.Job{}, corestore.ErrJobNotFound
	}
	j.AssignedTo = memberID
	s.jobs[jobID] = j
	return j, nil
}

func (s *MemoryStore) ListJobs(ctx context.Context) ([]model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func (s *MemoryStore) ListTeamMembers(ctx context.Context) ([]model.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.TeamMember, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}
