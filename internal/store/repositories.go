package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/JonMunkholm/platesync/internal/core"
)

// Keys under which the repositories store their values.
const (
	ConfigKey  = "import_config"
	RecordsKey = "records"
)

// ConfigRepository stores the core.ImportConfig as JSON.
type ConfigRepository struct {
	backend Backend
}

// NewConfigRepository creates a repository over backend.
func NewConfigRepository(b Backend) *ConfigRepository {
	return &ConfigRepository{backend: b}
}

// Load returns the saved config, or core.DefaultImportConfig when none was saved.
func (r *ConfigRepository) Load(ctx context.Context) (*core.ImportConfig, error) {
	data, err := r.backend.Get(ctx, ConfigKey)
	if errors.Is(err, ErrNotFound) {
		return core.DefaultImportConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg := core.DefaultImportConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ConfigKey, err)
	}
	cfg.Normalize()
	return cfg, nil
}

func (r *ConfigRepository) Save(ctx context.Context, cfg *core.ImportConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ConfigKey, err)
	}
	return r.backend.Put(ctx, ConfigKey, data)
}

// Delete removes the saved config.
func (r *ConfigRepository) Delete(ctx context.Context) error {
	return r.backend.Delete(ctx, ConfigKey)
}

// RecordRepository stores the last imported core.Snapshot as one JSON value,
// so replacing it is a single write.
type RecordRepository struct {
	backend Backend
}

// NewRecordRepository creates a repository over backend.
func NewRecordRepository(b Backend) *RecordRepository {
	return &RecordRepository{backend: b}
}

func (r *RecordRepository) ReplaceSnapshot(ctx context.Context, snap core.Snapshot) error {
	if snap.Records == nil {
		snap.Records = []core.PersonRecord{}
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode %s: %w", RecordsKey, err)
	}
	return r.backend.Put(ctx, RecordsKey, data)
}

// LoadSnapshot returns the stored snapshot, or an empty one.
func (r *RecordRepository) LoadSnapshot(ctx context.Context) (*core.Snapshot, error) {
	data, err := r.backend.Get(ctx, RecordsKey)
	if errors.Is(err, ErrNotFound) {
		return &core.Snapshot{Records: []core.PersonRecord{}}, nil
	}
	if err != nil {
		return nil, err
	}

	var snap core.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode %s: %w", RecordsKey, err)
	}
	return &snap, nil
}

var (
	_ core.ConfigRepository = (*ConfigRepository)(nil)
	_ core.RecordRepository = (*RecordRepository)(nil)
)
