// Package location declares the device location boundary.
package location

import (
	"context"

	"github.com/fieldops/dispatch/core/model"
)

// Provider exposes the device position. Both calls may fail or time out;
// callers fall back to a deterministic origin instead of blocking.
type Provider interface {
	// RequestPermission reports whether location access is granted.
	RequestPermission(ctx context.Context) (bool, error)
	CurrentPosition(ctx context.Context) (model.Coordinate, error)
}
