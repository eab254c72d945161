package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/platesync/internal/core"
	"github.com/JonMunkholm/platesync/internal/sheet"
)

type runFlags struct {
	discover bool
	progress bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.discover, "discover", false, "Scan for the header row when none has been found yet")
	cmd.Flags().BoolVar(&f.progress, "progress", false, "Print each pipeline phase to stderr")
}

func newSyncCommand(app *App) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Import from the configured spreadsheet link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runImport(cmd, sheet.Source{}, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func newImportCommand(app *App) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import from a local .xlsx, .xls, .csv or .txt file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := app.readFileSource(args[0])
			if err != nil {
				return err
			}
			return app.runImport(cmd, src, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func newDiscoverCommand(app *App) *cobra.Command {
	var apply bool
	cmd := &cobra.Command{
		Use:   "discover [file]",
		Short: "Find the header row and suggest a column mapping",
		Long: `discover scans the first rows of the source for a header, saves the row
number and labels, and prints the columns the keyword heuristics would pick.
With --apply the suggestion is saved as the manual mapping.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src sheet.Source
			if len(args) == 1 {
				var err error
				if src, err = app.readFileSource(args[0]); err != nil {
					return err
				}
			}
			return app.discover(cmd, src, apply)
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "Save the suggested mapping")
	return cmd
}

func (a *App) readFileSource(path string) (sheet.Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return sheet.Source{}, fmt.Errorf("file not found: %s", path)
	}
	if limit := a.cfg.Import.MaxFileSize; limit > 0 && info.Size() > limit {
		return sheet.Source{}, fmt.Errorf("%w: %s is %d bytes, limit %d", sheet.ErrFileTooLarge, path, info.Size(), limit)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return sheet.Source{}, fmt.Errorf("read %s: %w", path, err)
	}
	return sheet.FileSource(filepath.Base(path), data), nil
}

func (a *App) runContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	if t := a.cfg.Import.Timeout; t > 0 {
		return context.WithTimeout(cmd.Context(), t)
	}
	return context.WithCancel(cmd.Context())
}

func (a *App) runImport(cmd *cobra.Command, src sheet.Source, flags runFlags) error {
	ctx, cancel := a.runContext(cmd)
	defer cancel()

	if flags.progress {
		a.progress = cmd.ErrOrStderr()
		defer func() { a.progress = nil }()
	}

	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return err
	}

	res, err := a.importer.Run(ctx, cfg, src, core.RunOptions{Discover: flags.discover})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Imported %d records (header row %d, %d skipped, %d empty rows) in %s\n",
		len(res.Records), res.HeaderRowIndex+1, res.Skipped, res.EmptyRows, res.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "Last sync: %s\n", res.LastSync)
	return nil
}

func (a *App) discover(cmd *cobra.Command, src sheet.Source, apply bool) error {
	ctx, cancel := a.runContext(cmd)
	defer cancel()

	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return err
	}

	d, err := a.importer.Discover(ctx, cfg, src)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Header row: %d\n\nColumns:\n", d.HeaderRowIndex+1)
	for i, label := range d.Headers {
		fmt.Fprintf(out, "  %3d  %s\n", i, label)
	}
	fmt.Fprintln(out, "\nSuggested mapping:")
	printMapping(out, d.Suggested, a.importer.VehicleSlots())

	if apply {
		cfg.ColumnMapping = d.Suggested
		if err := a.configs.Save(ctx, cfg); err != nil {
			return fmt.Errorf("%w: save config: %w", core.ErrStore, err)
		}
		fmt.Fprintln(out, "\nMapping saved.")
	}
	return nil
}

// printMapping lists keys in field order, then any stray keys alphabetically.
func printMapping(w io.Writer, m core.ColumnMapping, slots int) {
	seen := make(map[core.FieldKey]bool)
	for _, k := range core.AllFieldKeys(slots) {
		seen[k] = true
		if v := strings.TrimSpace(m[k]); v != "" {
			fmt.Fprintf(w, "  %-11s %s\n", k, v)
		}
	}

	var extra []string
	for k := range m {
		if !seen[k] {
			extra = append(extra, string(k))
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		fmt.Fprintf(w, "  %-11s %s\n", k, m[core.FieldKey(k)])
	}
}
