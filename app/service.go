// Package app wires the configuration into a running dispatch service.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fieldops/dispatch/config"
	"github.com/fieldops/dispatch/core/audit"
	"github.com/fieldops/dispatch/core/dispatch"
	"github.com/fieldops/dispatch/core/lifecycle"
	corelocation "github.com/fieldops/dispatch/core/location"
	"github.com/fieldops/dispatch/core/model"
	"github.com/fieldops/dispatch/core/navigation"
	corenotify "github.com/fieldops/dispatch/core/notify"
	"github.com/fieldops/dispatch/core/route"
	corestore "github.com/fieldops/dispatch/core/store"
	coretrack "github.com/fieldops/dispatch/core/timetrack"
	"github.com/fieldops/dispatch/infra/location"
	"github.com/fieldops/dispatch/infra/logger"
	"github.com/fieldops/dispatch/infra/metrics"
	"github.com/fieldops/dispatch/infra/notify"
	"github.com/fieldops/dispatch/infra/store"
	"github.com/fieldops/dispatch/infra/timetrack"
	"github.com/fieldops/dispatch/internal/eventbus"
)

// Service bundles the wired dispatch components. Hosts drive the
// exported fields directly; Run only serves the ambient endpoints.
type Service struct {
	Machine   *lifecycle.Machine
	Scheduler *dispatch.Scheduler
	Planner   route.Optimizer
	Links     navigation.LinkBuilder
	Provider  corelocation.Provider
	Jobs      corestore.JobStore
	Team      corestore.TeamStore
	Bus       eventbus.EventBus

	cfg     *config.Config
	log     logger.Logger
	closers []io.Closer
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// New builds the service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	svc := &Service{cfg: cfg, log: logg}

	jobs, team, err := svc.buildStores(cfg.Store)
	if err != nil {
		return nil, err
	}

	auditStore, err := buildAudit(cfg.Audit)
	if err != nil {
		return nil, fmt.Errorf("audit store: %w", err)
	}
	svc.closers = append(svc.closers, closerFunc(auditStore.Close))

	var notifier corenotify.Notifier
	if cfg.Notify.Enabled {
		n, err := notify.NewMQTTNotifier(cfg.Notify.ClientConfig(), logger.New("notify"))
		if err != nil {
			return nil, fmt.Errorf("notifier: %w", err)
		}
		svc.closers = append(svc.closers, closerFunc(func() error {
			n.Close()
			return nil
		}))
		notifier = n
	}

	var tracker coretrack.Tracker = coretrack.Nop{}
	if cfg.Timetrack.Enabled {
		tracker = timetrack.NewInfluxTrackerWithFallback(
			cfg.Timetrack.URL, cfg.Timetrack.Token, cfg.Timetrack.Org, cfg.Timetrack.Bucket,
			logger.New("timetrack"))
	}

	switch cfg.Location.Mode {
	case "gateway":
		svc.Provider = location.NewGateway(cfg.Location.Endpoint, cfg.Location.Timeout())
	default:
		svc.Provider = location.Static{
			Position: model.Coordinate{Lat: cfg.Location.Lat, Lon: cfg.Location.Lon},
			Granted:  cfg.Location.Granted,
		}
	}

	bus := eventbus.New()
	arena := lifecycle.NewInFlight()

	machine, err := lifecycle.NewMachine(jobs, tracker, notifier, arena, bus, auditStore, logger.New("lifecycle"))
	if err != nil {
		return nil, fmt.Errorf("lifecycle machine: %w", err)
	}
	scheduler, err := dispatch.NewScheduler(jobs, team, arena, bus, auditStore, logger.New("dispatch"))
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}

	svc.Machine = machine
	svc.Scheduler = scheduler
	svc.Links = navigation.LinkBuilder{Platform: navigation.Platform(cfg.Route.Platform)}
	svc.Jobs = jobs
	svc.Team = team
	svc.Bus = bus
	return svc, nil
}

func (s *Service) buildStores(cfg config.StoreConfig) (corestore.JobStore, corestore.TeamStore, error) {
	if cfg.Backend == "postgres" {
		gs, err := store.NewGormStore(cfg.GormOptions())
		if err != nil {
			return nil, nil, fmt.Errorf("postgres store: %w", err)
		}
		s.closers = append(s.closers, closerFunc(gs.Close))
		return gs, gs, nil
	}
	ms := store.NewMemoryStore()
	return ms, ms, nil
}

func buildAudit(cfg config.AuditConfig) (audit.LogStore, error) {
	if cfg.Backend == "sqlite" {
		return audit.NewSQLiteStore(cfg.Path)
	}
	return audit.NewJSONLStore(cfg.Path)
}

// Run serves the metrics endpoint and blocks until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.Addr(), s.log); err != nil {
				s.log.Errorf("metrics server: %v", err)
			}
		}()
	}
	<-ctx.Done()
	return nil
}

// OriginTimeout exposes the device position budget for route planning.
func (s *Service) OriginTimeout() time.Duration { return s.cfg.Route.OriginTimeout() }

// Close releases resources in reverse acquisition order.
func (s *Service) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	if b, ok := s.Bus.(*eventbus.Bus); ok && b != nil {
		b.Close()
	}
	return first
}
