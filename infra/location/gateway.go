package location

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/fieldops/dispatch/core/model"
)

type positionResponse struct {
	Granted bool    `json:"granted"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Gateway fetches the device position from a companion location service.
// The service fronts whatever the device exposes (mobile bridge, GPS
// tracker) behind a single JSON endpoint.
type Gateway struct {
	client *resty.Client
}

// NewGateway builds a Gateway against baseURL. A zero timeout defaults
// to five seconds.
func NewGateway(baseURL string, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetHeader("Accept", "application/json")
	return &Gateway{client: client}
}

func (g *Gateway) RequestPermission(ctx context.Context) (bool, error) {
	var body positionResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetResult(&body).
		Get("/v1/position")
	if err != nil {
		return false, fmt.Errorf("location: permission probe: %w", err)
	}
	if resp.IsError() {
		return false, fmt.Errorf("location: permission probe: status %d", resp.StatusCode())
	}
	return body.Granted, nil
}

func (g *Gateway) CurrentPosition(ctx context.Context) (model.Coordinate, error) {
	var body positionResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetResult(&body).
		Get("/v1/position")
	if err != nil {
		return model.Coordinate{}, fmt.Errorf("location: fetch position: %w", err)
	}
	if resp.IsError() {
		return model.Coordinate{}, fmt.Errorf("location: fetch position: status %d", resp.StatusCode())
	}
	if !body.Granted {
		return model.Coordinate{}, fmt.Errorf("location: access not granted")
	}
	return model.Coordinate{Lat: body.Lat, Lon: body.Lon}, nil
}
