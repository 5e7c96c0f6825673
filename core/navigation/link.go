// Package navigation builds external map application URIs for a planned
// route. It is pure formatting: launching the URI belongs to the host
// platform, and the only platform-dependent logic in the core is the
// strategy selected here.
package navigation

import (
	"errors"
	"net/url"
	"strings"

	"github.com/fieldops/dispatch/core/model"
)

// Platform selects the deep-link strategy.
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWeb     Platform = "web"
)

var (
	// ErrNoNavigableStops signals a route with nothing to navigate to.
	ErrNoNavigableStops = errors.New("navigation: no navigable stops")
	// ErrNoAddress signals a single unlocated stop without address text.
	ErrNoAddress = errors.New("navigation: stop has neither coordinates nor address")
)

// LinkBuilder formats navigation URIs for one platform.
type LinkBuilder struct {
	Platform Platform
}

// BuildLink returns one URI covering the whole route. A nil origin means
// the device position is unknown; with two or more effective waypoints
// the origin, when present, is the first waypoint.
func (b LinkBuilder) BuildLink(origin *model.Coordinate, jobs []model.Job) (string, error) {
	if len(jobs) == 0 {
		return "", ErrNoNavigableStops
	}
	var waypoints []model.Coordinate
	if origin != nil {
		waypoints = append(waypoints, *origin)
	}
	for i := range jobs {
		if jobs[i].Located() {
			waypoints = append(waypoints, *jobs[i].Location)
		}
	}
	if len(waypoints) >= 2 {
		return b.multiStop(waypoints), nil
	}
	return b.singleStop(jobs[0])
}

// WebFallback returns the generic web-maps form of the same route, used
// once when the platform app cannot open the primary URI.
func (LinkBuilder) WebFallback(origin *model.Coordinate, jobs []model.Job) (string, error) {
	return LinkBuilder{Platform: PlatformWeb}.BuildLink(origin, jobs)
}

func (b LinkBuilder) multiStop(waypoints []model.Coordinate) string {
	parts := make([]string, len(waypoints))
	for i, c := range waypoints {
		parts[i] = c.String()
	}
	// The universal dir form opens the native app when installed and the
	// web map otherwise, so it doubles as its own fallback.
	return "https://www.google.com/maps/dir/" + strings.Join(parts, "/")
}

func (b LinkBuilder) singleStop(j model.Job) (string, error) {
	switch {
	case j.Located():
		c := *j.Location
		switch b.Platform {
		case PlatformIOS:
			return "maps://?daddr=" + url.QueryEscape(c.String()), nil
		case PlatformAndroid:
			return "google.navigation:q=" + url.QueryEscape(c.String()), nil
		default:
			return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(c.String()), nil
		}
	case j.Address != "":
		q := url.QueryEscape(j.Address)
		switch b.Platform {
		case PlatformIOS:
			return "maps://?daddr=" + q, nil
		case PlatformAndroid:
			return "google.navigation:q=" + q, nil
		default:
			return "https://www.google.com/maps/search/?api=1&query=" + q, nil
		}
	}
	return "", ErrNoAddress
}
