package history

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewGetCommand creates the history get command
func NewGetCommand(provider ServiceProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [VIDEO_ID]",
		Short: "Show a processed video",
		Long:  `Show a history record. --format notes prints the stored Markdown notes.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID := args[0]
			format, _ := cmd.Flags().GetString("format")

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			svc, cleanup, err := provider(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			record, err := svc.Get(ctx, videoID)
			if err != nil {
				return fmt.Errorf("failed to get history record: %w", err)
			}

			if format == "notes" {
				fmt.Fprintln(cmd.OutOrStdout(), record.NotesMarkdown)
				return nil
			}

			f, err := NewFormatter(format)
			if err != nil {
				return err
			}
			output, err := f.FormatRecord(record)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().String("format", "text", "Output format: text, json, notes")

	return cmd
}
