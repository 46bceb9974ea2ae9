package process

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-notes/internal/model"
	"github.com/Taichi-iskw/yt-notes/internal/service/bundle"
	"github.com/Taichi-iskw/yt-notes/internal/service/history"
	"github.com/Taichi-iskw/yt-notes/internal/service/pipeline"
)

// Uploader puts a note bundle in remote storage
type Uploader interface {
	Upload(ctx context.Context, record *model.HistoryRecord) (string, error)
}

// Dependencies builds the services the process command needs.
// Services are created lazily so that flags are validated before any configuration is loaded.
type Dependencies interface {
	Processor(ctx context.Context) (pipeline.Processor, error)
	History(ctx context.Context) (history.Service, func(), error)
	Uploader(ctx context.Context) (Uploader, error)
	OutputDir() string
}

type options struct {
	plain     bool
	bundle    bool
	upload    bool
	save      bool
	outputDir string
	timeout   time.Duration
}

// NewProcessCommand creates the process command
func NewProcessCommand(deps Dependencies) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "process [URL]",
		Short: "Turn a video into notes and a mind map",
		Long: `Fetch subtitles (or transcribe the audio), summarize the transcript with an LLM and
write notes.md, mindmap.html and transcript.txt into {output_dir}/{video_id}/.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := newRunContext(opts.timeout)
			defer cancel()
			return run(ctx, cancel, cmd, deps, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Print progress as plain lines instead of a progress bar")
	cmd.Flags().BoolVar(&opts.bundle, "bundle", false, "Also write {video_id}.zip with every output")
	cmd.Flags().BoolVar(&opts.upload, "upload", false, "Upload the bundle to the configured S3 bucket")
	cmd.Flags().BoolVar(&opts.save, "save", true, "Save the result to history")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "Output directory (default from config)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Give up after this long (0 means no limit)")

	return cmd
}

func newRunContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.WithCancel(context.Background())
}

func run(ctx context.Context, cancel context.CancelFunc, cmd *cobra.Command, deps Dependencies, opts *options, rawURL string) error {
	out := cmd.OutOrStdout()

	processor, err := deps.Processor(ctx)
	if err != nil {
		return err
	}

	var result *model.ProcessingResult
	if opts.plain {
		result, err = processor.Process(ctx, rawURL, plainObserver(out))
	} else {
		result, err = runWithView(ctx, cancel, processor, rawURL, out)
	}
	if err != nil {
		return err
	}

	outputDir := opts.outputDir
	if outputDir == "" {
		outputDir = deps.OutputDir()
	}
	return writeOutputs(ctx, out, deps, opts, outputDir, result)
}

func writeOutputs(ctx context.Context, out io.Writer, deps Dependencies, opts *options, outputDir string, result *model.ProcessingResult) error {
	record := model.NewHistoryRecord(result)

	dir, err := bundle.WriteDir(outputDir, record)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✅ %s\n", result.Title)
	fmt.Fprintf(out, "Notes:      %s\n", dir)

	if opts.bundle || opts.upload {
		zipPath, err := bundle.WriteZipFile(outputDir, record)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Bundle:     %s\n", zipPath)
	}

	if opts.upload {
		uploader, err := deps.Uploader(ctx)
		if err != nil {
			return err
		}
		key, err := uploader.Upload(ctx, record)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Uploaded:   %s\n", key)
	}

	if opts.save {
		svc, cleanup, err := deps.History(ctx)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer cleanup()
		if _, err := svc.Save(ctx, result); err != nil {
			return fmt.Errorf("failed to save history: %w", err)
		}
		fmt.Fprintf(out, "History:    saved %s\n", record.VideoID)
	}

	return nil
}

// plainObserver prints one line per progress event
func plainObserver(out io.Writer) pipeline.Observer {
	return pipeline.ObserverFunc(func(event model.ProgressEvent) {
		fmt.Fprintln(out, event.String())
	})
}
