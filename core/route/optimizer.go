// Package route orders a day's located jobs into a visiting route using
// a greedy nearest-neighbor heuristic. The result is not globally
// optimal but is deterministic, O(n²), and good enough for day-of-work
// stop counts.
package route

import (
	"errors"

	"gonum.org/v1/gonum/floats"

	"github.com/fieldops/dispatch/core/geo"
	"github.com/fieldops/dispatch/core/model"
)

// ErrInsufficientStops signals fewer than two located stops. It is a
// no-op condition, not a failure: the caller decides whether to tell
// the user.
var ErrInsufficientStops = errors.New("route: need at least two located stops")

// Optimizer reorders stops into a single-origin greedy tour.
type Optimizer struct{}

// Optimize returns a permutation of stops visiting the strictly nearest
// unvisited stop first. Ties break on input order, so identical inputs
// always produce identical output. Nothing is persisted: discarding the
// returned slice is a full reset.
func (Optimizer) Optimize(origin model.Coordinate, stops []model.RouteStop) ([]model.RouteStop, error) {
	if len(stops) < 2 {
		return stops, ErrInsufficientStops
	}
	pool := append([]model.RouteStop(nil), stops...)
	ordered := make([]model.RouteStop, 0, len(pool))
	current := origin
	for len(pool) > 0 {
		best := 0
		bestDist := geo.DistanceKm(current, pool[0].Coord)
		for i := 1; i < len(pool); i++ {
			if d := geo.DistanceKm(current, pool[i].Coord); d < bestDist {
				best, bestDist = i, d
			}
		}
		next := pool[best]
		pool = append(pool[:best], pool[best+1:]...)
		ordered = append(ordered, next)
		current = next.Coord
	}
	return ordered, nil
}

// OptimizeJobs optimizes the located subset of jobs and appends jobs
// without coordinates afterward in their original relative order.
func (o Optimizer) OptimizeJobs(origin model.Coordinate, jobs []model.Job) ([]model.Job, error) {
	stops, unlocated := model.StopsFrom(jobs)
	ordered, err := o.Optimize(origin, stops)
	if err != nil {
		return jobs, err
	}
	out := make([]model.Job, 0, len(jobs))
	for _, s := range ordered {
		out = append(out, s.Job)
	}
	return append(out, unlocated...), nil
}

// TourLengthKm sums the leg distances of a tour starting at origin.
func TourLengthKm(origin model.Coordinate, stops []model.RouteStop) float64 {
	if len(stops) == 0 {
		return 0
	}
	legs := make([]float64, len(stops))
	current := origin
	for i, s := range stops {
		legs[i] = geo.DistanceKm(current, s.Coord)
		current = s.Coord
	}
	return floats.Sum(legs)
}
