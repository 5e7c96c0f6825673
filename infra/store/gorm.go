package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fieldops/dispatch/core/model"
	corestore "github.com/fieldops/dispatch/core/store"
)

// jobRecord is the database shape of a job. Coordinates are flattened to
// nullable columns because a job without a geocoded site has neither.
type jobRecord struct {
	ID          string `gorm:"primaryKey"`
	Title       string
	Address     string
	Lat         *float64
	Lon         *float64
	Status      string `gorm:"index"`
	ScheduledAt *time.Time
	ClientID    string
	AssignedTo  string `gorm:"index"`
	UpdatedAt   time.Time
}

func (jobRecord) TableName() string { return "jobs" }

type memberRecord struct {
	ID           string `gorm:"primaryKey"`
	FirstName    string
	LastName     string
	InviteStatus string
}

func (memberRecord) TableName() string { return "team_members" }

func (r jobRecord) toModel() model.Job {
	j := model.Job{
		ID:          r.ID,
		Title:       r.Title,
		Address:     r.Address,
		Status:      model.JobStatus(r.Status),
		ScheduledAt: r.ScheduledAt,
		ClientID:    r.ClientID,
		AssignedTo:  r.AssignedTo,
	}
	if r.Lat != nil && r.Lon != nil {
		j.Location = &model.Coordinate{Lat: *r.Lat, Lon: *r.Lon}
	}
	return j
}

func recordFromJob(j model.Job) jobRecord {
	r := jobRecord{
		ID:          j.ID,
		Title:       j.Title,
		Address:     j.Address,
		Status:      string(j.Status),
		ScheduledAt: j.ScheduledAt,
		ClientID:    j.ClientID,
		AssignedTo:  j.AssignedTo,
	}
	if j.Location != nil {
		lat, lon := j.Location.Lat, j.Location.Lon
		r.Lat, r.Lon = &lat, &lon
	}
	return r
}

// GormOptions configures the Postgres connection.
type GormOptions struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// GormStore implements the job and team store interfaces on Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the connection and migrates the schema.
func NewGormStore(opts GormOptions) (*GormStore, error) {
	if opts.SSLMode == "" {
		opts.SSLMode = "disable"
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		opts.Host, opts.User, opts.Password, opts.DBName, opts.Port, opts.SSLMode)
	gl := gormlogger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Warn, IgnoreRecordNotFoundError: true},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gl})
	if err != nil {
		return nil, fmt.Errorf("store: open postgres: %w", err)
	}
	if err := db.AutoMigrate(&jobRecord{}, &memberRecord{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// SaveJob inserts or replaces a job.
func (s *GormStore) SaveJob(ctx context.Context, j model.Job) error {
	r := recordFromJob(j)
	return s.db.WithContext(ctx).Save(&r).Error
}

// SaveMember inserts or replaces a team member.
func (s *GormStore) SaveMember(ctx context.Context, m model.TeamMember) error {
	r := memberRecord{ID: m.ID, FirstName: m.FirstName, LastName: m.LastName, InviteStatus: string(m.InviteStatus)}
	return s.db.WithContext(ctx).Save(&r).Error
}

func (s *GormStore) UpdateJobStatus(ctx context.Context, jobID string, status model.JobStatus) (model.Job, error) {
	res := s.db.WithContext(ctx).Model(&jobRecord{}).
		Where("id = ?", jobID).
		Update("status", string(status))
	if res.Error != nil {
		return model.Job{}, fmt.Errorf("store: update status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return model.Job{}, corestore.ErrJobNotFound
	}
	return s.getJob(ctx, jobID)
}

func (s *GormStore) AssignJob(ctx context.Context, jobID, memberID string) (model.Job, error) {
	res := s.db.WithContext(ctx).Model(&jobRecord{}).
		Where("id = ?", jobID).
		Update("assigned_to", memberID)
	if res.Error != nil {
		return model.Job{}, fmt.Errorf("store: assign: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return model.Job{}, corestore.ErrJobNotFound
	}
	return s.getJob(ctx, jobID)
}

func (s *GormStore) getJob(ctx context.Context, jobID string) (model.Job, error) {
	var r jobRecord
	err := s.db.WithContext(ctx).First(&r, "id = ?", jobID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Job{}, corestore.ErrJobNotFound
	}
	if err != nil {
		return model.Job{}, fmt.Errorf("store: get job: %w", err)
	}
	return r.toModel(), nil
}

func (s *GormStore) ListJobs(ctx context.Context) ([]model.Job, error) {
	var recs []jobRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("store: list jobs: %w", err)
	}
	out := make([]model.Job, len(recs))
	for i, r := range recs {
		out[i] = r.toModel()
	}
	return out, nil
}

func (s *GormStore) ListTeamMembers(ctx context.Context) ([]model.TeamMember, error) {
	var recs []memberRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("store: list members: %w", err)
	}
	out := make([]model.TeamMember, len(recs))
	for i, r := range recs {
		out[i] = model.TeamMember{
			ID:           r.ID,
			FirstName:    r.FirstName,
			LastName:     r.LastName,
			InviteStatus: model.InviteStatus(r.InviteStatus),
		}
	}
	return out, nil
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
