// Package ingest loads a HitTable/Truth pair for one pipeline run, applying
// the volume-remapping and deduplication responsibilities the core spec
// assigns to an external loader.
package ingest

import (
	"context"
	"fmt"
	"sync"

	"github.com/hepqca/qca/internal/hits"
	"github.com/hepqca/qca/internal/truth"
)

// SourceType identifies a registered ingest source implementation.
type SourceType string

const (
	SourceTypeCSV SourceType = "csv"
	SourceTypeDir SourceType = "dir"
)

// Source loads a HitTable/Truth pair. Unlike the scheduler's polling task
// sources, Load runs once and returns; there is no Start/Stop/Ack/Nack
// lifecycle.
type Source interface {
	// Name returns the instance name.
	Name() string

	// Load reads and returns the hit table and, if available, the
	// ground-truth table.
	Load(ctx context.Context) (*hits.Table, *truth.Table, error)
}

// SourceConfig holds the configuration needed to construct a Source.
type SourceConfig struct {
	Type      SourceType
	Name      string
	Path      string
	VolumeIDs []int64
	Options   map[string]interface{}
}

// GetString retrieves a string option with a default value.
func (c *SourceConfig) GetString(key, defaultValue string) string {
	if c.Options == nil {
		return defaultValue
	}
	if v, ok := c.Options[key].(string); ok {
		return v
	}
	return defaultValue
}

// GetBool retrieves a bool option with a default value.
func (c *SourceConfig) GetBool(key string, defaultValue bool) bool {
	if c.Options == nil {
		return defaultValue
	}
	if v, ok := c.Options[key].(bool); ok {
		return v
	}
	return defaultValue
}

// SourceCreator constructs a Source from a SourceConfig.
type SourceCreator func(cfg *SourceConfig) (Source, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[SourceType]SourceCreator)
)

// Register registers a source creator for a given source type. Called from
// the init() of each concrete source file.
func Register(sourceType SourceType, creator SourceCreator) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[sourceType] = creator
}

// RegisteredTypes returns all registered source types.
func RegisteredTypes() []SourceType {
	registryMu.RLock()
	defer registryMu.RUnlock()
	types := make([]SourceType, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	return types
}

// CreateSource builds a Source from the given configuration.
func CreateSource(cfg *SourceConfig) (Source, error) {
	registryMu.RLock()
	creator, exists := registry[cfg.Type]
	registryMu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown ingest source type: %s (registered: %v)", cfg.Type, RegisteredTypes())
	}

	return creator(cfg)
}
