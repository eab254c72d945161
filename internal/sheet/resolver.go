package sheet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/platesync/internal/logging"
)

// DefaultBaseURL is the host the export endpoints live on.
const DefaultBaseURL = "https://docs.google.com"

// Source is either a hosted spreadsheet URL or the bytes of an uploaded file.
type Source struct {
	URL      string
	FileName string
	Data     []byte
}

// URLSource names a hosted spreadsheet.
func URLSource(url string) Source { return Source{URL: url} }

// FileSource wraps uploaded file bytes. The name drives format detection.
func FileSource(name string, data []byte) Source {
	return Source{FileName: name, Data: data}
}

// IsFile reports whether the source carries file bytes.
func (s Source) IsFile() bool { return s.Data != nil || s.FileName != "" }

// Describe is a short label for logs.
func (s Source) Describe() string {
	if s.IsFile() {
		return "file:" + s.FileName
	}
	return "url:" + s.URL
}

// ResolverConfig configures a Resolver. Zero values fall back to defaults.
type ResolverConfig struct {
	BaseURL     string
	MaxFileSize int64
}

// Resolver turns a Source into a Grid.
type Resolver struct {
	fetcher Fetcher
	baseURL string
	maxSize int64
}

// NewResolver creates a resolver that downloads through fetcher.
func NewResolver(fetcher Fetcher, cfg ResolverConfig) *Resolver {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Resolver{fetcher: fetcher, baseURL: base, maxSize: cfg.MaxFileSize}
}

type strategy struct {
	name   string
	url    string
	decode func([]byte) (Grid, error)
}

// strategies lists the export endpoints in the order they are tried. The
// per-sheet CSV export only exists when the URL selects a sheet.
func (r *Resolver) strategies(ref SpreadsheetRef) []strategy {
	var out []strategy
	if ref.GID != "" {
		out = append(out, strategy{"csv", ref.csvExportURL(r.baseURL), DecodeCSV})
	}
	out = append(out,
		strategy{"xlsx", ref.xlsxExportURL(r.baseURL), DecodeXLSX},
		strategy{"gviz", ref.gvizCSVURL(r.baseURL), DecodeCSV},
	)
	return out
}

// Resolve produces the grid for src. For URLs each export strategy is tried
// in turn and the first that downloads and decodes wins; for files the
// extension picks the decoder.
func (r *Resolver) Resolve(ctx context.Context, src Source) (Grid, error) {
	if src.IsFile() {
		return r.resolveFile(src)
	}
	if strings.TrimSpace(src.URL) == "" {
		return nil, ErrEmptySource
	}
	return r.resolveURL(ctx, src.URL)
}

func (r *Resolver) resolveFile(src Source) (Grid, error) {
	if len(src.Data) == 0 {
		return nil, fmt.Errorf("%w: %s has no content", ErrEmptySource, src.FileName)
	}
	if r.maxSize > 0 && int64(len(src.Data)) > r.maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrFileTooLarge, len(src.Data), r.maxSize)
	}
	return DecodeFile(src.FileName, src.Data)
}

func (r *Resolver) resolveURL(ctx context.Context, raw string) (Grid, error) {
	ref, err := ParseSpreadsheetURL(raw)
	if err != nil {
		return nil, err
	}

	logger := logging.WithFields(ctx, "spreadsheet_id", ref.ID)

	var errs []error
	for _, s := range r.strategies(ref) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		grid, err := r.try(ctx, s)
		if err != nil {
			logger.Warn("export strategy failed", "strategy", s.name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
			continue
		}

		// The workbook export has no notion of gid; it is read from its first sheet.
		if s.name == "xlsx" && ref.GID != "" {
			logger.Warn("selected sheet unavailable, using first sheet of workbook", "gid", ref.GID)
		}
		logger.Info("spreadsheet fetched",
			"strategy", s.name,
			"rows", len(grid),
			"duration", time.Since(start),
		)
		return grid, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrSourceUnreachable, errors.Join(errs...))
}

func (r *Resolver) try(ctx context.Context, s strategy) (Grid, error) {
	body, err := r.fetcher.Fetch(ctx, s.url)
	if err != nil {
		return nil, err
	}
	return s.decode(body)
}
