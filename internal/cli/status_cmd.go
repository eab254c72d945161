package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/platesync/internal/core"
	"github.com/JonMunkholm/platesync/internal/sheet"
)

func newStatusCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored records and the source they came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := app.loadConfig(ctx)
			if err != nil {
				return err
			}
			snap, err := app.records.LoadSnapshot(ctx)
			if err != nil {
				return fmt.Errorf("%w: load records: %w", core.ErrStore, err)
			}

			vehicles := 0
			for _, r := range snap.Records {
				vehicles += len(r.Vehicles)
			}
			lastSync := snap.LastSync
			if lastSync == "" {
				lastSync = "never"
			}
			source := cfg.SourceURL
			if source == "" {
				source = "(not set)"
			}
			mode := "heuristic"
			if cfg.ColumnMapping.IsManual() {
				mode = "manual"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Source:      %s\n", source)
			fmt.Fprintf(out, "Header row:  %d\n", cfg.HeaderRowNumber)
			fmt.Fprintf(out, "Mapping:     %s\n", mode)
			fmt.Fprintf(out, "Records:     %d (%d vehicles)\n", len(snap.Records), vehicles)
			fmt.Fprintf(out, "Last sync:   %s\n", lastSync)
			fmt.Fprintf(out, "Store:       %s\n", app.cfg.Store.Backend)
			return nil
		},
	}
}

func newExportCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.csv|file.xlsx>",
		Short: "Write the stored records to a spreadsheet that re-imports cleanly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			snap, err := app.records.LoadSnapshot(cmd.Context())
			if err != nil {
				return fmt.Errorf("%w: load records: %w", core.ErrStore, err)
			}

			rows := core.ExportGrid(snap.Records, app.importer.VehicleSlots())

			var data []byte
			switch ext := strings.ToLower(filepath.Ext(path)); ext {
			case ".csv":
				data, err = sheet.EncodeCSV(rows)
			case ".xlsx":
				data, err = sheet.EncodeXLSX("Records", rows)
			default:
				return fmt.Errorf("%w: %q", sheet.ErrUnsupportedFormat, ext)
			}
			if err != nil {
				return err
			}

			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", len(snap.Records), path)
			return nil
		},
	}
}
