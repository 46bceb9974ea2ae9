package history

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the history delete command
func NewDeleteCommand(provider ServiceProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [VIDEO_ID]",
		Short: "Delete a processed video from history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID := args[0]

			confirm, _ := cmd.Flags().GetBool("confirm")
			if !confirm {
				cmd.Printf("Are you sure you want to delete %s? Use --confirm flag to proceed.\n", videoID)
				return nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			svc, cleanup, err := provider(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.Delete(ctx, videoID); err != nil {
				return fmt.Errorf("failed to delete history record: %w", err)
			}

			cmd.Printf("✅ Deleted %s from history\n", videoID)
			return nil
		},
	}

	cmd.Flags().Bool("confirm", false, "Confirm deletion without prompt")

	return cmd
}

// NewClearCommand creates the history clear command
func NewClearCommand(provider ServiceProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every history record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			confirm, _ := cmd.Flags().GetBool("confirm")
			if !confirm {
				cmd.Println("Are you sure you want to delete all history records? Use --confirm flag to proceed.")
				return nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			svc, cleanup, err := provider(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			removed, err := svc.Clear(ctx)
			if err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}

			cmd.Printf("✅ Removed %d history record(s)\n", removed)
			return nil
		},
	}

	cmd.Flags().Bool("confirm", false, "Confirm deletion without prompt")

	return cmd
}
