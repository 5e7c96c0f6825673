// Package location provides device position adapters. The Static
// provider serves fixed coordinates for the CLI and tests; the Gateway
// asks a companion location service over HTTP.
package location

import (
	"context"

	"github.com/fieldops/dispatch/core/model"
)

// Static always reports the configured position. Granted gates
// RequestPermission so tests can exercise the fallback path.
type Static struct {
	Position model.Coordinate
	Granted  bool
}

func (s Static) RequestPermission(ctx context.Context) (bool, error) {
	return s.Granted, nil
}

func (s Static) CurrentPosition(ctx context.Context) (model.Coordinate, error) {
	return s.Position, nil
}
