// Package config provides configuration management for the reconstruction
// pipeline and its surrounding services.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hepqca/qca/pkg/utils"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
}

// PipelineConfig holds the reconstruction pipeline's tunable parameters.
type PipelineConfig struct {
	CellAngle      float64 `mapstructure:"cell_angle"`
	NeighAngle     float64 `mapstructure:"neigh_angle"`
	MinTrackLength int     `mapstructure:"min_track_length"`
	VolumeIDs      []int64 `mapstructure:"volume_ids"`
	Parallel       bool    `mapstructure:"parallel"`
	DataDir        string  `mapstructure:"data_dir"`
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Type     string `mapstructure:"type"` // postgres, mysql, or sqlite
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	MaxConns int    `mapstructure:"max_conns"`
}

// StorageConfig holds object storage configuration.
type StorageConfig struct {
	Type      string `mapstructure:"type"` // cos or local
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"`     // e.g., "myqcloud.com"
	Scheme    string `mapstructure:"scheme"`     // e.g., "https" or "http"
	LocalPath string `mapstructure:"local_path"` // for local storage
}

// TelemetryConfig holds OpenTelemetry exporter configuration.
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"` // json or text
}

// Load reads configuration from the specified file path.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/qca")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			utils.GetGlobalLogger().Info("Config file not found, using defaults")
		} else if os.IsNotExist(err) {
			utils.GetGlobalLogger().Info("Config file %s not found, using defaults", configPath)
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from raw bytes (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("pipeline.cell_angle", 0.3)
	v.SetDefault("pipeline.neigh_angle", 0.2)
	v.SetDefault("pipeline.min_track_length", 3)
	v.SetDefault("pipeline.parallel", true)
	v.SetDefault("pipeline.data_dir", "./data")

	v.SetDefault("database.type", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.max_conns", 10)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "./storage")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "qca")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.output_path", "./logs")
	v.SetDefault("log.format", "text")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.Type != "postgres" && c.Database.Type != "mysql" && c.Database.Type != "sqlite" {
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}

	if c.Pipeline.MinTrackLength < 1 {
		return fmt.Errorf("min_track_length must be at least 1")
	}
	if c.Pipeline.CellAngle <= 0 {
		return fmt.Errorf("cell_angle must be positive")
	}
	if c.Pipeline.NeighAngle <= 0 {
		return fmt.Errorf("neigh_angle must be positive")
	}

	return nil
}

// EnsureDataDir creates the pipeline's data directory if it doesn't exist.
func (c *Config) EnsureDataDir() error {
	if c.Pipeline.DataDir == "" {
		return nil
	}
	return os.MkdirAll(c.Pipeline.DataDir, 0755)
}

// GetRunDir returns the run-specific directory path.
func (c *Config) GetRunDir(runID string) string {
	return filepath.Join(c.Pipeline.DataDir, runID)
}
