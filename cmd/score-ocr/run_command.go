package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vibescout/scoreboard-ocr/internal/config"
	"github.com/vibescout/scoreboard-ocr/internal/pipeline"
	"github.com/vibescout/scoreboard-ocr/internal/scoreboard"
	"github.com/vibescout/scoreboard-ocr/internal/store"
)

type runFlags struct {
	videosDir  string
	outputFile string
	framesDir  string
	workers    int
	profile    string
	filterMode string
	keepFrames bool
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Extract and recognize scores from every video in the videos directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyRunFlags(cmd, cfg, flags); err != nil {
				return err
			}

			logger, logCloser, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer logCloser.Close()

			p, sinks, err := newPipeline(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.CloseAll(sinks); err != nil {
					logger.Warn("failed to close export sinks", "error", err)
				}
			}()

			summary, runErr := p.Run(cmd.Context())
			if summary != nil && len(summary.Videos) > 0 {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderSummary(summary, shouldColorize(out)))
				printSummaryFooter(out, summary)
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&flags.videosDir, "videos", "", "Directory of match videos (overrides paths.videos_dir)")
	cmd.Flags().StringVar(&flags.outputFile, "output", "", "Dataset output file (overrides paths.output_file)")
	cmd.Flags().StringVar(&flags.framesDir, "frames", "", "Frame working directory (overrides paths.frames_dir)")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "OCR worker count, 0 = one per CPU (overrides ocr.workers)")
	cmd.Flags().StringVar(&flags.profile, "profile", "", "Region profile name (overrides extract.profile)")
	cmd.Flags().StringVar(&flags.filterMode, "filter-mode", "", "ffmpeg or native (overrides extract.filter_mode)")
	cmd.Flags().BoolVar(&flags.keepFrames, "keep-frames", true, "Keep extracted frames after recognition (overrides extract.keep_frames)")
	return cmd
}

// applyRunFlags copies explicitly set flags onto cfg and re-validates it.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config, flags runFlags) error {
	changed := cmd.Flags().Changed
	if changed("videos") {
		cfg.Paths.VideosDir = flags.videosDir
	}
	if changed("output") {
		cfg.Paths.OutputFile = flags.outputFile
	}
	if changed("frames") {
		cfg.Paths.FramesDir = flags.framesDir
	}
	if changed("workers") {
		cfg.OCR.Workers = flags.workers
	}
	if changed("profile") {
		cfg.Extract.Profile = flags.profile
	}
	if changed("filter-mode") {
		cfg.Extract.FilterMode = flags.filterMode
	}
	if changed("keep-frames") {
		cfg.Extract.KeepFrames = flags.keepFrames
	}
	if err := cfg.Finalize(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

func renderSummary(summary *pipeline.Summary, colorize bool) string {
	headers := []string{"Match", "Status", "Frames", "Red", "Blue", "Repaired", "Leading gap", "Time"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight}

	rows := make([][]string, 0, len(summary.Videos))
	for _, v := range summary.Videos {
		ok := v.Status == pipeline.StatusOK
		row := []string{v.Match, colorStatus(string(v.Status), ok, colorize), strconv.Itoa(v.Frames)}
		if ok {
			red, blue := v.Alliances[scoreboard.Red], v.Alliances[scoreboard.Blue]
			row = append(row,
				red.Final.String(),
				blue.Final.String(),
				fmt.Sprintf("%d / %d", red.Repaired, blue.Repaired),
				fmt.Sprintf("%d / %d", red.Leading, blue.Leading),
			)
		} else {
			row = append(row, "-", "-", "-", "-")
		}
		row = append(row, v.Duration.Round(time.Second).String())
		rows = append(rows, row)
	}
	return renderTable(headers, rows, aligns)
}

func printSummaryFooter(out io.Writer, summary *pipeline.Summary) {
	fmt.Fprintf(out, "Run %s: %d succeeded, %d failed\n", summary.RunID, summary.Succeeded(), summary.Failed())
	for _, v := range summary.Videos {
		if v.Err != nil {
			fmt.Fprintf(out, "  %s: %v\n", v.Match, v.Err)
		}
	}
	if summary.Duration > 0 {
		fmt.Fprintf(out, "Dataset: %s\n", summary.Output)
	}
	for _, name := range summary.Exported {
		fmt.Fprintf(out, "Exported to %s\n", name)
	}
}
