package route

import (
	"context"
	"time"

	"github.com/fieldops/dispatch/core/location"
	"github.com/fieldops/dispatch/core/logger"
	"github.com/fieldops/dispatch/core/model"
)

// Origin is the resolved starting point of a tour.
type Origin struct {
	Coord model.Coordinate
	// FromDevice is false when the first located stop was used as a
	// fallback; that stop is then already part of the origin and must be
	// treated as visited.
	FromDevice bool
}

// ResolveOrigin prefers the device position when permission is granted
// and the fetch succeeds within timeout. Otherwise the first stop
// becomes the de facto start. A denied or failed fetch is not an error:
// it is logged at debug level and the fallback applies.
func ResolveOrigin(ctx context.Context, provider location.Provider, stops []model.RouteStop, timeout time.Duration, log logger.Logger) (Origin, bool) {
	if len(stops) == 0 {
		return Origin{}, false
	}
	fallback := Origin{Coord: stops[0].Coord, FromDevice: false}
	if provider == nil {
		return fallback, true
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	granted, err := provider.RequestPermission(ctx)
	if err != nil || !granted {
		log.Debugf("location permission unavailable, falling back to first stop: granted=%v err=%v", granted, err)
		return fallback, true
	}
	pos, err := provider.CurrentPosition(ctx)
	if err != nil {
		log.Debugf("location fetch failed, falling back to first stop: %v", err)
		return fallback, true
	}
	return Origin{Coord: pos, FromDevice: true}, true
}

// PlanJobs resolves the origin and optimizes jobs in one step. When the
// origin falls back to the first located stop, that stop is pre-marked
// visited so it does not compete in its own distance scan.
func (o Optimizer) PlanJobs(ctx context.Context, provider location.Provider, jobs []model.Job, timeout time.Duration, log logger.Logger) ([]model.Job, error) {
	stops, unlocated := model.StopsFrom(jobs)
	if len(stops) < 2 {
		return jobs, ErrInsufficientStops
	}
	origin, _ := ResolveOrigin(ctx, provider, stops, timeout, log)
	head := []model.Job(nil)
	pool := stops
	if !origin.FromDevice {
		head = append(head, stops[0].Job)
		pool = stops[1:]
	}
	ordered, err := o.Optimize(origin.Coord, pool)
	if err != nil && !origin.FromDevice && len(pool) == 1 {
		// A two-stop tour whose first stop is the origin: nothing to scan.
		ordered, err = pool, nil
	}
	if err != nil {
		return jobs, err
	}
	out := make([]model.Job, 0, len(jobs))
	out = append(out, head...)
	for _, s := range ordered {
		out = append(out, s.Job)
	}
	return append(out, unlocated...), nil
}
