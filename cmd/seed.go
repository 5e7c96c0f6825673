package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fieldops/dispatch/core/model"
	"github.com/fieldops/dispatch/infra/store"
)

type seedJob struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Address     string   `json:"address"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	Status      string   `json:"status"`
	ScheduledAt string   `json:"scheduled_at"`
	ClientID    string   `json:"client_id"`
	AssignedTo  string   `json:"assigned_to"`
}

type seedMember struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	InviteStatus string `json:"invite_status"`
}

type seedFile struct {
	Jobs    []seedJob    `json:"jobs"`
	Members []seedMember `json:"members"`
}

func (s seedJob) toModel() (model.Job, error) {
	status, err := model.ParseJobStatus(s.Status)
	if err != nil {
		return model.Job{}, fmt.Errorf("job %s: %w", s.ID, err)
	}
	j := model.Job{
		ID:         s.ID,
		Title:      s.Title,
		Address:    s.Address,
		Status:     status,
		ClientID:   s.ClientID,
		AssignedTo: s.AssignedTo,
	}
	if s.Lat != nil && s.Lon != nil {
		j.Location = &model.Coordinate{Lat: *s.Lat, Lon: *s.Lon}
	}
	if s.ScheduledAt != "" {
		at, err := time.Parse(time.RFC3339, s.ScheduledAt)
		if err != nil {
			return model.Job{}, fmt.Errorf("job %s: scheduled_at: %w", s.ID, err)
		}
		j.ScheduledAt = &at
	}
	return j, nil
}

func loadSeed(path string, ms *store.MemoryStore) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f seedFile
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	for _, sj := range f.Jobs {
		j, err := sj.toModel()
		if err != nil {
			return err
		}
		ms.SeedJobs(j)
	}
	for _, sm := range f.Members {
		ms.SeedMembers(model.TeamMember{
			ID:           sm.ID,
			FirstName:    sm.FirstName,
			LastName:     sm.LastName,
			InviteStatus: model.InviteStatus(sm.InviteStatus),
		})
	}
	return nil
}
