package cmd

import (
	"os"

	"github.com/spf13/cobra"

	historycmd "github.com/Taichi-iskw/yt-notes/cmd/history"
	"github.com/Taichi-iskw/yt-notes/cmd/process"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ytnotes",
	Short: "Turn videos into study notes and mind maps",
	Long: `ytnotes fetches a Bilibili or YouTube video, uses its subtitles or transcribes its audio,
and asks an LLM for a summary and a mind-map outline. Results are written as Markdown notes
and an interactive HTML mind map, and kept in a local history.`,
	SilenceUsage: true,
}

// factory is shared by every command that needs configured services
var factory = newServiceFactory()

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&factory.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(process.NewProcessCommand(factory))
	rootCmd.AddCommand(historycmd.NewHistoryCommand(factory.History))
}
