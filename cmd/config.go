package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-notes/internal/config"
	"github.com/Taichi-iskw/yt-notes/internal/service/common"
	"github.com/Taichi-iskw/yt-notes/internal/service/transcription"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration settings",
	Long:  `Manage configuration settings for ytnotes.`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init [LLM_API_KEY]",
	Short: "Initialize configuration file",
	Long:  `Create ~/.yt-notes/config.yaml with default settings and, optionally, the LLM API key.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var apiKey string
		if len(args) > 0 {
			apiKey = args[0]
		}

		if err := config.InitConfig(apiKey); err != nil {
			return err
		}

		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		cmd.Printf("Created configuration file: %s\n", configPath)
		if apiKey == "" {
			cmd.Println("Please edit llm.api_key in this file before processing videos.")
		}
		return nil
	},
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the configuration file path and the effective settings. Secrets are masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration file: %s\n\n", configPath)
		printConfig(out, cfg)
		return nil
	},
}

// configDoctorCmd checks external tools and backends
var configDoctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check external tools and the transcription backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if !runDoctor(ctx, cmd.OutOrStdout(), cfg) {
			return fmt.Errorf("some checks failed")
		}
		return nil
	},
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintf(out, "DATABASE_URL: %s\n", cfg.DatabaseURL)
	fmt.Fprintf(out, "Output dir: %s\n", cfg.OutputDir)
	fmt.Fprintf(out, "Temp dir: %s\n", cfg.TempDir)
	fmt.Fprintf(out, "LLM: %s @ %s (key %s, prompt %s)\n", cfg.LLM.Model, cfg.LLM.BaseURL, mask(cfg.LLM.APIKey), cfg.LLM.PromptLanguage)
	fmt.Fprintf(out, "Transcription: %s (language %s)\n", cfg.Transcription.Mode, cfg.Transcription.Language)
	switch cfg.Transcription.Mode {
	case config.ModeUnmetered:
		fmt.Fprintf(out, "  Service URL: %s\n", cfg.Transcription.Unmetered.URL)
	case config.ModeMetered:
		fmt.Fprintf(out, "  Model: %s @ %s (key %s, segment ceiling %ds)\n",
			cfg.Transcription.Metered.Model, cfg.Transcription.Metered.BaseURL,
			mask(cfg.Transcription.Metered.APIKey), cfg.Transcription.Metered.MaxSegmentSeconds)
	}
	fmt.Fprintf(out, "Subtitle languages: %v\n", cfg.Fetcher.SubtitleLanguages)
	fmt.Fprintf(out, "History: max %d records\n", cfg.History.MaxRecords)
	if cfg.Storage.S3.Enabled() {
		fmt.Fprintf(out, "S3: bucket %s, prefix %q\n", cfg.Storage.S3.Bucket, cfg.Storage.S3.Prefix)
	}
}

func runDoctor(ctx context.Context, out io.Writer, cfg *config.Config) bool {
	ok := true
	for _, dep := range common.DependencyStatus(common.RequiredBinaries...) {
		if dep.Found {
			fmt.Fprintf(out, "✅ %-8s %s\n", dep.Name, dep.Path)
		} else {
			fmt.Fprintf(out, "❌ %-8s not found on PATH\n", dep.Name)
			ok = false
		}
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(out, "❌ config   %v\n", err)
		ok = false
	} else {
		fmt.Fprintf(out, "✅ config   valid\n")
	}

	if cfg.Transcription.Mode == config.ModeUnmetered {
		client := transcription.NewUnmeteredClient(cfg.Transcription.Unmetered.URL)
		if err := client.Health(ctx); err != nil {
			fmt.Fprintf(out, "❌ whisper  %s: %v\n", cfg.Transcription.Unmetered.URL, err)
			ok = false
		} else {
			fmt.Fprintf(out, "✅ whisper  %s\n", cfg.Transcription.Unmetered.URL)
		}
	}
	return ok
}

func mask(secret string) string {
	if secret == "" {
		return "<unset>"
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "****" + secret[len(secret)-4:]
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configDoctorCmd)
}
