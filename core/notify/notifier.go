// Package notify declares the client notification boundary.
package notify

import "context"

// Notifier delivers one-shot informational messages to the client of a
// job. Delivery failure is non-fatal to the job view.
type Notifier interface {
	// OnMyWay tells the job's client that the worker is en route.
	OnMyWay(ctx context.Context, jobID string) error
}
