package history

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// NewExportCommand creates the history export command
func NewExportCommand(provider ServiceProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [FILE]",
		Short: "Export history as JSON",
		Long:  `Write every history record as a JSON array to FILE, or to stdout when FILE is omitted.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			svc, cleanup, err := provider(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if len(args) == 0 {
				return svc.ExportJSON(ctx, cmd.OutOrStdout())
			}

			file, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("failed to create export file: %w", err)
			}
			defer file.Close()

			if err := svc.ExportJSON(ctx, file); err != nil {
				return err
			}
			cmd.Printf("✅ Exported history to %s\n", args[0])
			return nil
		},
	}

	return cmd
}

// NewImportCommand creates the history import command
func NewImportCommand(provider ServiceProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [FILE]",
		Short: "Import history from a JSON export",
		Long:  `Add records from a JSON export. Videos already in history are skipped.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open import file: %w", err)
			}
			defer file.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			svc, cleanup, err := provider(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			imported, err := svc.ImportJSON(ctx, file)
			if err != nil {
				return fmt.Errorf("failed to import history: %w", err)
			}

			cmd.Printf("✅ Imported %d record(s)\n", imported)
			return nil
		},
	}

	return cmd
}
