package history

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-notes/internal/service/history"
)

// ServiceProvider opens the history service and returns a cleanup function
type ServiceProvider func(ctx context.Context) (history.Service, func(), error)

// NewHistoryCommand creates the history command and its subcommands
func NewHistoryCommand(provider ServiceProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage processed-video history",
		Long:  `List, inspect, export, import and delete processed videos stored in the history database.`,
	}

	cmd.AddCommand(NewListCommand(provider))
	cmd.AddCommand(NewGetCommand(provider))
	cmd.AddCommand(NewDeleteCommand(provider))
	cmd.AddCommand(NewClearCommand(provider))
	cmd.AddCommand(NewExportCommand(provider))
	cmd.AddCommand(NewImportCommand(provider))

	return cmd
}
