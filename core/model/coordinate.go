package model

import "fmt"

// Coordinate is a WGS84 latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// String renders the coordinate as "lat,lon" as used in navigation URIs.
func (c Coordinate) String() string {
	return fmt.Sprintf("%g,%g", c.Lat, c.Lon)
}

// RouteStop wraps a located job for route optimization. Stops are
// ephemeral: they are rebuilt per optimization request and never stored.
type RouteStop struct {
	Job   Job
	Coord Coordinate
}

// StopsFrom splits jobs into located stops and the remainder, preserving
// input order in both slices.
func StopsFrom(jobs []Job) (stops []RouteStop, unlocated []Job) {
	for _, j := range jobs {
		if j.Located() {
			stops = append(stops, RouteStop{Job: j, Coord: *j.Location})
		} else {
			unlocated = append(unlocated, j)
		}
	}
	return stops, unlocated
}
