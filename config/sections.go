package config

import (
	"fmt"
	"time"

	"github.com/fieldops/dispatch/infra/notify"
	"github.com/fieldops/dispatch/infra/store"
)

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	// Backend is "memory" or "postgres".
	Backend  string `json:"backend"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

func (c *StoreConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 5432
	}
	if c.User == "" {
		c.User = "postgres"
	}
	if c.DBName == "" {
		c.DBName = "postgres"
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
}

func (c StoreConfig) Validate() error {
	if c.Backend != "memory" && c.Backend != "postgres" {
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	return nil
}

// GormOptions maps the section to the Postgres adapter options.
func (c StoreConfig) GormOptions() store.GormOptions {
	return store.GormOptions{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		DBName:   c.DBName,
		SSLMode:  c.SSLMode,
	}
}

// NotifyConfig configures the client notification bridge.
type NotifyConfig struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Topic    string `json:"topic"`
	QoS      byte   `json:"qos"`
}

func (c *NotifyConfig) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "fieldops-dispatch"
	}
	if c.Topic == "" {
		c.Topic = "fieldops/notify"
	}
}

func (c NotifyConfig) Validate() error {
	if c.Enabled && c.Broker == "" {
		return fmt.Errorf("broker is required when enabled")
	}
	return nil
}

// ClientConfig maps the section to the MQTT notifier config.
func (c NotifyConfig) ClientConfig() notify.Config {
	return notify.Config{
		Broker:   c.Broker,
		ClientID: c.ClientID,
		Username: c.Username,
		Password: c.Password,
		Topic:    c.Topic,
		QoS:      c.QoS,
	}
}

// TimetrackConfig configures the InfluxDB work timer backend.
type TimetrackConfig struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
	Token   string `json:"token"`
	Org     string `json:"org"`
	Bucket  string `json:"bucket"`
}

func (c *TimetrackConfig) SetDefaults() {}

func (c TimetrackConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.URL == "" || c.Org == "" || c.Bucket == "" {
		return fmt.Errorf("url, org and bucket are required when enabled")
	}
	return nil
}

// LocationConfig selects the device position source.
type LocationConfig struct {
	// Mode is "static" or "gateway".
	Mode           string  `json:"mode"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	Granted        bool    `json:"granted"`
	Endpoint       string  `json:"endpoint"`
	TimeoutSeconds int     `json:"timeout_seconds"`
}

func (c *LocationConfig) SetDefaults() {
	if c.Mode == "" {
		c.Mode = "static"
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 5
	}
}

func (c LocationConfig) Validate() error {
	switch c.Mode {
	case "static":
	case "gateway":
		if c.Endpoint == "" {
			return fmt.Errorf("endpoint is required in gateway mode")
		}
	default:
		return fmt.Errorf("unknown mode %s", c.Mode)
	}
	return nil
}

// Timeout converts TimeoutSeconds.
func (c LocationConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AuditConfig selects the audit log store.
type AuditConfig struct {
	// Backend is "jsonl" or "sqlite".
	Backend string `json:"backend"`
	Path    string `json:"path"`
}

func (c *AuditConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		c.Path = "audit.log"
	}
}

func (c AuditConfig) Validate() error {
	if c.Backend != "jsonl" && c.Backend != "sqlite" {
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// MetricsConfig configures the Prometheus scrape endpoint.
type MetricsConfig struct {
	PrometheusEnabled bool `json:"prometheus_enabled"`
	PrometheusPort    int  `json:"prometheus_port"`
}

func (c *MetricsConfig) SetDefaults() {
	if c.PrometheusPort == 0 {
		c.PrometheusPort = 9090
	}
}

func (c MetricsConfig) Validate() error {
	if c.PrometheusPort < 0 || c.PrometheusPort > 65535 {
		return fmt.Errorf("invalid port %d", c.PrometheusPort)
	}
	return nil
}

// Addr returns the listen address for the metrics server.
func (c MetricsConfig) Addr() string {
	return fmt.Sprintf(":%d", c.PrometheusPort)
}

// RouteConfig configures route planning and navigation handoff.
type RouteConfig struct {
	// Platform is "ios", "android" or "web".
	Platform string `json:"platform"`
	// OriginTimeoutSeconds bounds the device position fetch before the
	// planner falls back to the first stop as origin.
	OriginTimeoutSeconds int `json:"origin_timeout_seconds"`
}

func (c *RouteConfig) SetDefaults() {
	if c.Platform == "" {
		c.Platform = "web"
	}
	if c.OriginTimeoutSeconds == 0 {
		c.OriginTimeoutSeconds = 3
	}
}

func (c RouteConfig) Validate() error {
	switch c.Platform {
	case "ios", "android", "web":
		return nil
	}
	return fmt.Errorf("unknown platform %s", c.Platform)
}

// OriginTimeout converts OriginTimeoutSeconds.
func (c RouteConfig) OriginTimeout() time.Duration {
	return time.Duration(c.OriginTimeoutSeconds) * time.Second
}
