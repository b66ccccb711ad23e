// Package config loads the collector's runtime configuration.
//
// Configuration is a JSON file with optional fields; anything omitted
// falls back to a default through the Get* accessors, so partial configs
// are safe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Defaults applied by the Get* accessors.
const (
	DefaultSerialPort    = "/dev/ttyUSB0"
	DefaultBaudRate      = 115200
	DefaultDataDir       = "imu_dataset"
	DefaultDatabasePath  = "gestures.db"
	DefaultClassifierURL = "http://localhost:8501"

	DefaultFilterCutoffHz = 20.0
	DefaultFilterOrder    = 2
	DefaultSampleRateHz   = 100.0
)

// Config is the root configuration for the gesture collector. All fields
// are pointers so a JSON file can override any subset of them.
type Config struct {
	// Transport
	SerialPort *string `json:"serial_port,omitempty"`
	BaudRate   *int    `json:"baud_rate,omitempty"`

	// Storage
	DataDir      *string `json:"data_dir,omitempty"`
	DatabasePath *string `json:"database_path,omitempty"`

	// Inference
	ClassifierURL *string `json:"classifier_url,omitempty"`

	// Filter parameters. These must match the parameters the training
	// data was collected with; override them only alongside a retrain.
	FilterCutoffHz *float64 `json:"filter_cutoff_hz,omitempty"`
	FilterOrder    *int     `json:"filter_order,omitempty"`
	SampleRateHz   *float64 `json:"sample_rate_hz,omitempty"`
}

// Load reads a Config from a JSON file. The file must have a .json
// extension; fields omitted from it retain their defaults.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func (c *Config) GetSerialPort() string {
	if c != nil && c.SerialPort != nil {
		return *c.SerialPort
	}
	return DefaultSerialPort
}

func (c *Config) GetBaudRate() int {
	if c != nil && c.BaudRate != nil {
		return *c.BaudRate
	}
	return DefaultBaudRate
}

func (c *Config) GetDataDir() string {
	if c != nil && c.DataDir != nil {
		return *c.DataDir
	}
	return DefaultDataDir
}

func (c *Config) GetDatabasePath() string {
	if c != nil && c.DatabasePath != nil {
		return *c.DatabasePath
	}
	return DefaultDatabasePath
}

func (c *Config) GetClassifierURL() string {
	if c != nil && c.ClassifierURL != nil {
		return *c.ClassifierURL
	}
	return DefaultClassifierURL
}

func (c *Config) GetFilterCutoffHz() float64 {
	if c != nil && c.FilterCutoffHz != nil {
		return *c.FilterCutoffHz
	}
	return DefaultFilterCutoffHz
}

func (c *Config) GetFilterOrder() int {
	if c != nil && c.FilterOrder != nil {
		return *c.FilterOrder
	}
	return DefaultFilterOrder
}

func (c *Config) GetSampleRateHz() float64 {
	if c != nil && c.SampleRateHz != nil {
		return *c.SampleRateHz
	}
	return DefaultSampleRateHz
}
