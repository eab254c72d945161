package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/platesync/internal/core"
)

func newFileRepos(t *testing.T) (*ConfigRepository, *RecordRepository, Backend) {
	t.Helper()
	b, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)
	return NewConfigRepository(b), NewRecordRepository(b), b
}

func TestConfigRepository_DefaultsWhenAbsent(t *testing.T) {
	configs, _, _ := newFileRepos(t)

	cfg, err := configs.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.DefaultImportConfig(), cfg)
}

func TestConfigRepository_SaveLoad(t *testing.T) {
	configs, _, _ := newFileRepos(t)
	ctx := context.Background()

	cfg := core.DefaultImportConfig()
	require.NoError(t, cfg.SetSourceURL("https://docs.google.com/spreadsheets/d/abc/edit#gid=9"))
	require.NoError(t, cfg.SetHeaderRow(3))
	require.NoError(t, cfg.SetColumn(core.FieldName, "2"))
	require.NoError(t, cfg.SetKeywords(core.PlateKey(1), "ppu, patente"))
	cfg.CachedHeaderLabels = []string{"A", "B", "NOMBRE"}

	require.NoError(t, configs.Save(ctx, cfg))

	got, err := configs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestConfigRepository_NormalizesStoredValue(t *testing.T) {
	configs, _, b := newFileRepos(t)
	ctx := context.Background()

	require.NoError(t, b.Put(ctx, ConfigKey, []byte(`{"sourceUrl":"x","headerRowNumber":0}`)))

	cfg, err := configs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.HeaderRowNumber)
	assert.NotNil(t, cfg.ColumnMapping)
}

func TestConfigRepository_CorruptValue(t *testing.T) {
	configs, _, b := newFileRepos(t)
	require.NoError(t, b.Put(context.Background(), ConfigKey, []byte("{not json")))

	_, err := configs.Load(context.Background())
	assert.Error(t, err)
}

func TestConfigRepository_Delete(t *testing.T) {
	configs, _, _ := newFileRepos(t)
	ctx := context.Background()

	cfg := core.DefaultImportConfig()
	cfg.SourceURL = "https://docs.google.com/spreadsheets/d/abc"
	require.NoError(t, configs.Save(ctx, cfg))
	require.NoError(t, configs.Delete(ctx))

	got, err := configs.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.SourceURL)
}

func TestRecordRepository(t *testing.T) {
	_, records, _ := newFileRepos(t)
	ctx := context.Background()

	empty, err := records.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Records)
	assert.Empty(t, empty.LastSync)

	first := core.Snapshot{
		Records: []core.PersonRecord{{
			ID: "a", Name: "Ana", RUT: "1-9", Group: "General", Gender: "Unspecified",
			Vehicles: []core.Vehicle{{Plate: "AB12", Brand: "Unknown"}},
		}},
		LastSync: "2024-03-05 14:07:09",
	}
	require.NoError(t, records.ReplaceSnapshot(ctx, first))

	second := core.Snapshot{
		Records:  []core.PersonRecord{{ID: "b", Name: "Luis", Vehicles: []core.Vehicle{}}},
		LastSync: "2024-03-06 08:00:00",
	}
	require.NoError(t, records.ReplaceSnapshot(ctx, second))

	got, err := records.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, &second, got, "snapshot is replaced, never merged")
}
