// Package config holds planner server configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	// ListenAddr is the host:port the API binds to.
	// Default: ":8080"
	ListenAddr string `yaml:"listenAddr"`

	// ReadTimeout bounds how long a request body read may take.
	// Default: 10 seconds
	ReadTimeout time.Duration `yaml:"readTimeout"`

	// WriteTimeout bounds how long a response write may take.
	// Default: 30 seconds
	WriteTimeout time.Duration `yaml:"writeTimeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10 seconds
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// PlannerConfig holds tunables for plan generation.
type PlannerConfig struct {
	// CruiseSpeedMPS is the assumed ground speed for flight time estimates.
	// Default: 10
	CruiseSpeedMPS float64 `yaml:"cruiseSpeedMPS"`

	// BatteryDrainPerSecond is the battery percentage consumed each second
	// of flight. Default: 0.2
	BatteryDrainPerSecond float64 `yaml:"batteryDrainPerSecond"`

	// WaypointLimit is the firmware waypoint ceiling enforced on plans.
	// Default: 256
	WaypointLimit int `yaml:"waypointLimit"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// Config is the root planner-server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Planner PlannerConfig `yaml:"planner"`
	Logging LoggingConfig `yaml:"logging"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			ListenAddr:      ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Planner: PlannerConfig{
			CruiseSpeedMPS:        10,
			BatteryDrainPerSecond: 0.2,
			WaypointLimit:         256,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// ApplyDefaults fills zero or invalid fields with their defaults.
func (c Config) ApplyDefaults() Config {
	def := Default()

	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = def.Server.ListenAddr
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = def.Server.ReadTimeout
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = def.Server.WriteTimeout
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = def.Server.ShutdownTimeout
	}
	if c.Planner.CruiseSpeedMPS <= 0 {
		c.Planner.CruiseSpeedMPS = def.Planner.CruiseSpeedMPS
	}
	if c.Planner.BatteryDrainPerSecond <= 0 {
		c.Planner.BatteryDrainPerSecond = def.Planner.BatteryDrainPerSecond
	}
	if c.Planner.WaypointLimit <= 0 {
		c.Planner.WaypointLimit = def.Planner.WaypointLimit
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
	return c
}

// Load reads a YAML config file, applies environment overrides, then fills
// defaults. An empty path skips the file and uses env plus defaults.
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg = cfg.applyEnv()
	return cfg.ApplyDefaults(), nil
}

// applyEnv overlays PLANNER_* environment variables onto the config.
func (c Config) applyEnv() Config {
	if v := os.Getenv("PLANNER_LISTEN_ADDR"); v != "" {
		c.Server.ListenAddr = v
	}
	if v := os.Getenv("PLANNER_CRUISE_SPEED_MPS"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Planner.CruiseSpeedMPS = parsed
		}
	}
	if v := os.Getenv("PLANNER_BATTERY_DRAIN_PER_SECOND"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Planner.BatteryDrainPerSecond = parsed
		}
	}
	if v := os.Getenv("PLANNER_WAYPOINT_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Planner.WaypointLimit = parsed
		}
	}
	if v := os.Getenv("PLANNER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("PLANNER_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	return c
}
