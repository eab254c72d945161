package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/platesync/internal/config"
	"github.com/JonMunkholm/platesync/internal/core"
)

// Execute runs the command line against os.Args and returns the process
// exit code.
func Execute(ctx context.Context, cfg *config.Config) int {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		printError(os.Stderr, err)
		return 1
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Close(closeCtx); err != nil {
			slog.Error("close store", "error", err)
		}
	}()

	root := NewRootCommand(app)
	if err := root.ExecuteContext(ctx); err != nil {
		printError(root.ErrOrStderr(), err)
		return 1
	}
	return 0
}

// NewRootCommand builds the command tree over app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "platesync",
		Short: "Import people and vehicle plates from a spreadsheet",
		Long: `platesync reads a hosted spreadsheet link or an uploaded file, finds the
header row, maps columns to person and vehicle fields, and stores the
resulting records. Each successful import replaces the previous one.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newSyncCommand(app),
		newImportCommand(app),
		newDiscoverCommand(app),
		newConfigCommand(app),
		newStatusCommand(app),
		newExportCommand(app),
	)
	return root
}

// printError shows the coded message for known failures, followed by the
// technical detail, and the raw error otherwise.
func printError(w io.Writer, err error) {
	if !core.IsUserFacing(err) {
		fmt.Fprintln(w, "Error:", err)
		return
	}
	ue := core.NewUserError(err)
	fmt.Fprintln(w, "Error:", ue.Format())
	fmt.Fprintln(w, "  detail:", ue.Technical)
}
