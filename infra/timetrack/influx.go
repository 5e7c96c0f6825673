// Package timetrack records work timer events in InfluxDB. Each start
// and stop is a point in the work_timer measurement; duration reporting
// is derived downstream by Flux queries, not here.
package timetrack

import (
	"context"
	"net/http"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/fieldops/dispatch/core/logger"
	coretrack "github.com/fieldops/dispatch/core/timetrack"
)

// InfluxTracker writes timer events using the official InfluxDB client.
type InfluxTracker struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxTracker creates a tracker for the given InfluxDB endpoint.
func NewInfluxTracker(url, token, org, bucket string, log logger.Logger) *InfluxTracker {
	client := influxdb2.NewClientWithOptions(url, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxTracker{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      log,
	}
}

// NewInfluxTrackerWithFallback pings the InfluxDB instance and returns
// a Nop tracker when the health check fails, so job transitions keep
// working without a timer backend.
func NewInfluxTrackerWithFallback(url, token, org, bucket string, log logger.Logger) coretrack.Tracker {
	tr := NewInfluxTracker(url, token, org, bucket, log)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := tr.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			log.Errorf("timetrack: influx health check error: %v", err)
		} else {
			log.Errorf("timetrack: influx health status: %s", health.Status)
		}
		tr.client.Close()
		return coretrack.Nop{}
	}
	return tr
}

func (t *InfluxTracker) Start(ctx context.Context, jobID string, at time.Time) error {
	return t.write(ctx, jobID, "start", at)
}

func (t *InfluxTracker) Stop(ctx context.Context, jobID string, at time.Time) error {
	return t.write(ctx, jobID, "stop", at)
}

func (t *InfluxTracker) write(ctx context.Context, jobID, event string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("work_timer").
		AddTag("job_id", jobID).
		AddTag("event", event).
		AddField("value", 1).
		SetTime(at)
	return t.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying HTTP client.
func (t *InfluxTracker) Close() {
	t.client.Close()
}
