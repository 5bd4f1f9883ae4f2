// YAML server configuration with CUE schema validation.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DroneSeed describes one drone registered at startup.
type DroneSeed struct {
	ID             string  `yaml:"id"`
	Name           string  `yaml:"name"`
	Model          string  `yaml:"model"`
	Status         string  `yaml:"status"`
	Battery        float64 `yaml:"battery"`
	Latitude       float64 `yaml:"latitude"`
	Longitude      float64 `yaml:"longitude"`
	Altitude       float64 `yaml:"altitude"`
	Speed          float64 `yaml:"speed"`
	Heading        float64 `yaml:"heading"`
	SignalStrength float64 `yaml:"signal_strength"`
}

// Vertex is one polygon corner of a seeded geofence.
type Vertex struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

// GeofenceSeed describes one restricted zone registered at startup.
type GeofenceSeed struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Coordinates []Vertex `yaml:"coordinates"`
	MinAltitude float64  `yaml:"min_altitude"`
	MaxAltitude float64  `yaml:"max_altitude"`
	Active      bool     `yaml:"active"`
}

// GreptimeExport configures the optional GreptimeDB telemetry sink.
type GreptimeExport struct {
	Endpoint string `yaml:"endpoint"`
	Database string `yaml:"database"`
	Table    string `yaml:"table"`
}

// Export selects where synthesized telemetry is additionally written.
// The in-memory ring is always kept regardless of export settings.
type Export struct {
	StdoutJSON bool           `yaml:"stdout_json"`
	File       string         `yaml:"file"`
	Greptime   GreptimeExport `yaml:"greptime"`
}

// ServerConfig is the root configuration for the fleet-operations server.
type ServerConfig struct {
	Listen    string         `yaml:"listen"`
	SeedDemo  bool           `yaml:"seed_demo"`
	Fleet     []DroneSeed    `yaml:"fleet"`
	Geofences []GeofenceSeed `yaml:"geofences"`
	Export    Export         `yaml:"export"`
}

// Load reads the YAML config, validates it against the CUE schema, and
// applies defaults.
func Load(configPath, cueSchemaPath string) (*ServerConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg ServerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("cannot unmarshal config: %w", err)
	}

	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if cfg.Export.Greptime.Database == "" {
		cfg.Export.Greptime.Database = "public"
	}
	return &cfg, nil
}
