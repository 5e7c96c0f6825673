// Package config loads the service configuration from a YAML or JSON
// file with FD_ environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Store     StoreConfig     `json:"store"`
	Notify    NotifyConfig    `json:"notify"`
	Timetrack TimetrackConfig `json:"timetrack"`
	Location  LocationConfig  `json:"location"`
	Audit     AuditConfig     `json:"audit"`
	Metrics   MetricsConfig   `json:"metrics"`
	Route     RouteConfig     `json:"route"`
}

// Load reads the file at path, applies FD_ environment overrides
// (FD_STORE__BACKEND=postgres sets store.backend), then defaults and
// validation per section.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("FD_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "fd_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Store.SetDefaults()
	cfg.Notify.SetDefaults()
	cfg.Timetrack.SetDefaults()
	cfg.Location.SetDefaults()
	cfg.Audit.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Route.SetDefaults()
	for name, v := range map[string]interface{ Validate() error }{
		"store":     cfg.Store,
		"notify":    cfg.Notify,
		"timetrack": cfg.Timetrack,
		"location":  cfg.Location,
		"audit":     cfg.Audit,
		"metrics":   cfg.Metrics,
		"route":     cfg.Route,
	} {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("config: %s: %w", name, err)
		}
	}
	return &cfg, nil
}
