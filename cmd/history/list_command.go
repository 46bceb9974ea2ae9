package history

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewListCommand creates the history list command
func NewListCommand(provider ServiceProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List processed videos, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")
			grouped, _ := cmd.Flags().GetBool("groups")

			f, err := NewFormatter(format)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			svc, cleanup, err := provider(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var output string
			if grouped {
				groups, err := svc.Groups(ctx)
				if err != nil {
					return fmt.Errorf("failed to list history: %w", err)
				}
				output, err = f.FormatGroups(groups)
				if err != nil {
					return err
				}
			} else {
				records, err := svc.List(ctx, limit, offset)
				if err != nil {
					return fmt.Errorf("failed to list history: %w", err)
				}
				output, err = f.FormatList(records)
				if err != nil {
					return err
				}
			}

			fmt.Fprint(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().String("format", "text", "Output format: text, json")
	cmd.Flags().Int("limit", 0, "Maximum number of records (default: history.max_records)")
	cmd.Flags().Int("offset", 0, "Number of records to skip")
	cmd.Flags().Bool("groups", false, "Group parts of the same collection")

	return cmd
}
