package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/platesync/internal/logging"
	"github.com/JonMunkholm/platesync/internal/sheet"
)

// GridResolver produces a grid for a source. *sheet.Resolver implements it.
type GridResolver interface {
	Resolve(ctx context.Context, src sheet.Source) (sheet.Grid, error)
}

// ConfigRepository persists the import configuration.
type ConfigRepository interface {
	// Load returns DefaultImportConfig when nothing has been saved yet.
	Load(ctx context.Context) (*ImportConfig, error)
	Save(ctx context.Context, cfg *ImportConfig) error
}

// RecordRepository holds the last imported record collection.
type RecordRepository interface {
	// ReplaceSnapshot overwrites the stored collection in one write.
	ReplaceSnapshot(ctx context.Context, snap Snapshot) error
	// LoadSnapshot returns an empty snapshot when nothing has been stored.
	LoadSnapshot(ctx context.Context) (*Snapshot, error)
}

// Options tunes an Importer. Zero values select defaults.
type Options struct {
	VehicleSlots   int
	HeaderScanRows int
	Keywords       Keywords // base groups; nil means DefaultKeywords
	Progress       ProgressCallback
	NewID          IDFunc
	Now            func() time.Time
}

// RunOptions selects per-run behavior.
type RunOptions struct {
	// Discover scans for the header row when the config has no cached labels.
	Discover bool
}

// Importer runs the fetch, header, mapping and extraction pipeline and
// stores the result.
type Importer struct {
	resolver GridResolver
	configs  ConfigRepository
	records  RecordRepository
	gate     *RunGate

	slots    int
	scanRows int
	keywords Keywords
	progress ProgressCallback
	newID    IDFunc
	now      func() time.Time
}

// NewImporter creates an importer.
func NewImporter(resolver GridResolver, configs ConfigRepository, records RecordRepository, opts Options) *Importer {
	kw := DefaultKeywords()
	if opts.Keywords != nil {
		kw = kw.Merge(opts.Keywords)
	}
	imp := &Importer{
		resolver: resolver,
		configs:  configs,
		records:  records,
		gate:     NewRunGate(),
		slots:    clampSlots(opts.VehicleSlots),
		scanRows: opts.HeaderScanRows,
		keywords: kw,
		progress: opts.Progress,
		newID:    opts.NewID,
		now:      opts.Now,
	}
	if imp.scanRows <= 0 {
		imp.scanRows = DefaultHeaderScanRows
	}
	if imp.newID == nil {
		imp.newID = RandomID
	}
	if imp.now == nil {
		imp.now = time.Now
	}
	return imp
}

// Gate exposes the run gate for status reporting and shutdown.
func (imp *Importer) Gate() *RunGate { return imp.gate }

// VehicleSlots returns the configured slot count.
func (imp *Importer) VehicleSlots() int { return imp.slots }

// KeywordsFor returns the effective keyword groups for cfg: the importer's
// base groups overlaid with the user's edits.
func (imp *Importer) KeywordsFor(cfg *ImportConfig) Keywords {
	return imp.keywords.Merge(cfg.Keywords)
}

// Run imports src using cfg. A zero src falls back to cfg.SourceURL. On
// success the stored records are replaced; on failure they are untouched.
// When discovery runs, cfg is updated with the header row and labels and
// saved.
func (imp *Importer) Run(ctx context.Context, cfg *ImportConfig, src sheet.Source, opts RunOptions) (*Result, error) {
	runID := uuid.NewString()
	if err := imp.gate.Acquire(runID); err != nil {
		return nil, err
	}
	defer imp.gate.Release()

	ctx = logging.WithRunID(ctx, runID)
	start := time.Now()

	src, err := sourceFor(cfg, src)
	if err != nil {
		return nil, imp.fail(ctx, runID, src, err)
	}

	logger := logging.WithFields(ctx, "source", src.Describe())
	logger.Info("import started", "discover", opts.Discover)

	imp.report(Progress{RunID: runID, Phase: PhaseFetching, Source: src.Describe()})
	grid, err := imp.resolver.Resolve(ctx, src)
	if err != nil {
		return nil, imp.fail(ctx, runID, src, err)
	}

	imp.report(Progress{RunID: runID, Phase: PhaseHeaderResolving, Source: src.Describe(), TotalRows: len(grid)})
	kw := imp.KeywordsFor(cfg)
	headerIdx, headers, err := imp.resolveHeader(ctx, cfg, grid, kw, opts.Discover)
	if err != nil {
		return nil, imp.fail(ctx, runID, src, err)
	}
	logger.Debug("header resolved", "row", headerIdx+1, "labels", headers)

	imp.report(Progress{RunID: runID, Phase: PhaseMapping, Source: src.Describe(), TotalRows: len(grid)})
	mapper := NewMapper(cfg.ColumnMapping, headers, kw)
	cols := mapper.ResolveAll(imp.slots)
	if _, ok := cols[FieldName]; !ok {
		return nil, imp.fail(ctx, runID, src, fmt.Errorf("%w: %s", ErrMissingRequiredColumn, FieldName))
	}
	logger.Debug("columns mapped", "heuristic", mapper.Heuristic(), "mapping", cols)

	imp.report(Progress{RunID: runID, Phase: PhaseRowScanning, Source: src.Describe(), TotalRows: len(grid)})
	ext, err := Extract(grid, headerIdx, cols, imp.slots, imp.newID)
	if err != nil {
		return nil, imp.fail(ctx, runID, src, err)
	}

	lastSync := imp.now().Format(LastSyncLayout)
	if err := imp.records.ReplaceSnapshot(ctx, Snapshot{Records: ext.Records, LastSync: lastSync}); err != nil {
		return nil, imp.fail(ctx, runID, src, fmt.Errorf("%w: save records: %w", ErrStore, err))
	}

	res := &Result{
		RunID:          runID,
		Records:        ext.Records,
		Skipped:        ext.Skipped,
		EmptyRows:      ext.EmptyRows,
		HeaderRowIndex: headerIdx,
		Headers:        headers,
		Mapping:        cols,
		Duration:       time.Since(start),
		LastSync:       lastSync,
	}

	imp.report(Progress{
		RunID:     runID,
		Phase:     PhaseDone,
		Source:    src.Describe(),
		TotalRows: len(grid),
		Records:   len(res.Records),
		Skipped:   res.Skipped,
	})
	logger.Info("import complete",
		"records", len(res.Records),
		"skipped", res.Skipped,
		"empty_rows", res.EmptyRows,
		"duration", res.Duration,
	)
	return res, nil
}

// Discover fetches src, scans for the header row, and saves the discovered
// row and labels into cfg. It does not touch stored records.
func (imp *Importer) Discover(ctx context.Context, cfg *ImportConfig, src sheet.Source) (*Discovery, error) {
	runID := uuid.NewString()
	if err := imp.gate.Acquire(runID); err != nil {
		return nil, err
	}
	defer imp.gate.Release()
	ctx = logging.WithRunID(ctx, runID)

	src, err := sourceFor(cfg, src)
	if err != nil {
		return nil, err
	}

	grid, err := imp.resolver.Resolve(ctx, src)
	if err != nil {
		return nil, err
	}

	kw := imp.KeywordsFor(cfg)
	idx, headers, err := DiscoverHeader(grid, kw, imp.scanRows)
	if err != nil {
		return nil, err
	}
	if err := imp.cacheHeader(ctx, cfg, idx, headers); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("header discovered", "row", idx+1, "columns", len(headers))
	return &Discovery{
		HeaderRowIndex: idx,
		Headers:        headers,
		Suggested:      SuggestMapping(headers, kw, imp.slots),
	}, nil
}

func (imp *Importer) resolveHeader(ctx context.Context, cfg *ImportConfig, grid sheet.Grid, kw Keywords, discover bool) (int, []string, error) {
	if !discover || len(cfg.CachedHeaderLabels) > 0 {
		return LocateHeader(grid, cfg.HeaderRowNumber)
	}

	idx, headers, err := DiscoverHeader(grid, kw, imp.scanRows)
	if err != nil {
		return 0, nil, err
	}
	if err := imp.cacheHeader(ctx, cfg, idx, headers); err != nil {
		return 0, nil, err
	}
	return idx, headers, nil
}

// cacheHeader records a discovered header in cfg and persists it.
func (imp *Importer) cacheHeader(ctx context.Context, cfg *ImportConfig, idx int, headers []string) error {
	cfg.HeaderRowNumber = idx + 1
	cfg.CachedHeaderLabels = append([]string(nil), headers...)
	if err := imp.configs.Save(ctx, cfg); err != nil {
		return fmt.Errorf("%w: save config: %w", ErrStore, err)
	}
	return nil
}

func (imp *Importer) fail(ctx context.Context, runID string, src sheet.Source, err error) error {
	level := slog.LevelWarn
	if !IsUserFacing(err) || errors.Is(err, ErrStore) {
		level = slog.LevelError
	}
	logging.FromContext(ctx).Log(ctx, level, "import failed",
		"source", src.Describe(),
		"code", MapError(err).Code,
		"error", err,
	)
	imp.report(Progress{RunID: runID, Phase: PhaseFailed, Source: src.Describe(), Error: progressError(err)})
	return err
}

// progressError is the coded user message for known failures and the raw
// error text otherwise.
func progressError(err error) string {
	if IsUserFacing(err) {
		return FormatUserError(err)
	}
	return err.Error()
}

func (imp *Importer) report(p Progress) {
	if imp.progress != nil {
		imp.progress(p)
	}
}

func sourceFor(cfg *ImportConfig, src sheet.Source) (sheet.Source, error) {
	if src.IsFile() || src.URL != "" {
		return src, nil
	}
	if cfg.SourceURL == "" {
		return src, ErrNoSource
	}
	return sheet.URLSource(cfg.SourceURL), nil
}
