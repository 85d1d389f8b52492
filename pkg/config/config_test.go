package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
database:
  host: localhost
  type: postgres
storage:
  type: local
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(configFile)
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.InDelta(t, 0.3, cfg.Pipeline.CellAngle, 1e-9)
	assert.InDelta(t, 0.2, cfg.Pipeline.NeighAngle, 1e-9)
	assert.Equal(t, 3, cfg.Pipeline.MinTrackLength)
	assert.True(t, cfg.Pipeline.Parallel)
	assert.Equal(t, "./data", cfg.Pipeline.DataDir)
}

func TestLoad_CustomValues(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
pipeline:
  cell_angle: 0.35
  neigh_angle: 0.15
  min_track_length: 4
  volume_ids: [8, 13]
  parallel: false
  data_dir: "/tmp/data"
database:
  type: postgres
  host: db.example.com
  port: 5432
  database: qca
  user: admin
  password: secret
storage:
  type: local
  local_path: /tmp/storage
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.InDelta(t, 0.35, cfg.Pipeline.CellAngle, 1e-9)
	assert.Equal(t, 4, cfg.Pipeline.MinTrackLength)
	assert.Equal(t, []int64{8, 13}, cfg.Pipeline.VolumeIDs)
	assert.False(t, cfg.Pipeline.Parallel)
	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "qca", cfg.Database.Database)
}

func TestLoad_InvalidDatabaseType(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
database:
  type: oracle
  host: localhost
storage:
  type: local
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	_, err = Load(configFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}

// Note: storage validation tests live in internal/storage.

func TestLoad_COSWithCredentials(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
database:
  type: postgres
  host: localhost
storage:
  type: cos
  bucket: test-bucket
  region: ap-guangzhou
  secret_id: test-id
  secret_key: test-key
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(configFile)
	require.NoError(t, err)
	assert.Equal(t, "cos", cfg.Storage.Type)
	assert.Equal(t, "test-bucket", cfg.Storage.Bucket)
}

func TestValidate_EmptyHost(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Type: "postgres", Host: ""},
		Storage:  StorageConfig{Type: "local"},
		Pipeline: PipelineConfig{CellAngle: 0.3, NeighAngle: 0.2, MinTrackLength: 3},
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database host is required")
}

func TestValidate_InvalidMinTrackLength(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Type: "postgres", Host: "localhost"},
		Storage:  StorageConfig{Type: "local"},
		Pipeline: PipelineConfig{CellAngle: 0.3, NeighAngle: 0.2, MinTrackLength: 0},
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "min_track_length must be at least 1")
}

func TestValidate_NonPositiveAngles(t *testing.T) {
	base := Config{
		Database: DatabaseConfig{Type: "postgres", Host: "localhost"},
		Storage:  StorageConfig{Type: "local"},
	}

	cellCfg := base
	cellCfg.Pipeline = PipelineConfig{CellAngle: 0, NeighAngle: 0.2, MinTrackLength: 3}
	assert.Contains(t, cellCfg.Validate().Error(), "cell_angle must be positive")

	neighCfg := base
	neighCfg.Pipeline = PipelineConfig{CellAngle: 0.3, NeighAngle: -0.1, MinTrackLength: 3}
	assert.Contains(t, neighCfg.Validate().Error(), "neigh_angle must be positive")
}

func TestGetRunDir(t *testing.T) {
	cfg := &Config{Pipeline: PipelineConfig{DataDir: "/tmp/data"}}

	runDir := cfg.GetRunDir("run-uuid-123")
	assert.Equal(t, "/tmp/data/run-uuid-123", runDir)
}

func TestEnsureDataDir(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "pipeline", "data")

	cfg := &Config{Pipeline: PipelineConfig{DataDir: dataDir}}

	err := cfg.EnsureDataDir()
	require.NoError(t, err)

	_, err = os.Stat(dataDir)
	assert.NoError(t, err)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestLoadFromReader(t *testing.T) {
	content := []byte(`
database:
  type: mysql
  host: mysql.local
storage:
  type: local
`)
	cfg, err := LoadFromReader("yaml", content)
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Database.Type)
	assert.Equal(t, "mysql.local", cfg.Database.Host)
}
