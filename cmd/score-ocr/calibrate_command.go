package main

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/vibescout/scoreboard-ocr/internal/detection"
	"github.com/vibescout/scoreboard-ocr/internal/imaging"
	"github.com/vibescout/scoreboard-ocr/internal/ocr"
	"github.com/vibescout/scoreboard-ocr/internal/pipeline"
	"github.com/vibescout/scoreboard-ocr/internal/scoreboard"
)

func newCalibrateCommand(ctx *commandContext) *cobra.Command {
	var (
		offset    float64
		outDir    string
		recognize bool
		detect    bool
	)

	cmd := &cobra.Command{
		Use:   "calibrate VIDEO",
		Short: "Snapshot a video and preview both scoreboard crops",
		Long: "Grabs one full frame, crops the configured red and blue regions, " +
			"saves raw and normalized crops, and reports the detected region color " +
			"and OCR reading so a region profile can be checked against new footage.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, logCloser, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer logCloser.Close()
			video := args[0]
			if outDir == "" {
				outDir = filepath.Join(cfg.Paths.FramesDir, pipeline.MatchKey(video), "calibrate")
			}

			extractor, err := newExtractor(cfg, logger)
			if err != nil {
				return err
			}
			snapshot := filepath.Join(outDir, "snapshot.png")
			if err := extractor.Snapshot(cmd.Context(), video, offset, snapshot); err != nil {
				return err
			}

			img, err := imaging.Load(snapshot)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if detect {
				if err := printSuggestedProfile(out, img, cfg.Extract.Profile); err != nil {
					logger.Warn("panel detection failed", "error", err)
				}
			}

			layout, err := cfg.Layout()
			if err != nil {
				return err
			}
			bounds := img.Bounds()
			if err := layout.Validate(bounds.Dx(), bounds.Dy()); err != nil {
				return fmt.Errorf("profile %s does not fit %dx%d footage: %w", cfg.Extract.Profile, bounds.Dx(), bounds.Dy(), err)
			}

			var recognizer *ocr.Recognizer
			if recognize {
				recognizer = ocr.NewRecognizer(ocr.NewTesseractEngine(ocrOptions(cfg)))
			}
			normOpts := imaging.NormalizeOptions{Contrast: cfg.Extract.Contrast, Threshold: uint8(cfg.Extract.Threshold)}

			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(scoreboard.Alliances))
			for _, alliance := range scoreboard.Alliances {
				region := layout.Region(alliance)
				crop, err := imaging.Crop(img, region.Rect())
				if err != nil {
					return fmt.Errorf("%s: %w", alliance, err)
				}
				rawPath := filepath.Join(outDir, alliance.String()+"-raw.png")
				normPath := filepath.Join(outDir, alliance.String()+"-normalized.png")
				if err := imaging.Save(rawPath, crop); err != nil {
					return err
				}
				if err := imaging.Save(normPath, imaging.Normalize(crop, normOpts)); err != nil {
					return err
				}

				est := imaging.EstimateColor(crop)
				matches := est.Alliance == alliance
				reading := "-"
				if recognizer != nil {
					r, err := recognizer.Recognize(cmd.Context(), normPath)
					if err != nil {
						logger.Warn("calibration OCR failed", "alliance", alliance, "error", err)
					}
					reading = r.String()
				}
				rows = append(rows, []string{
					alliance.String(),
					fmt.Sprintf("%dx%d+%d+%d", region.Width, region.Height, region.X, region.Y),
					strconv.FormatFloat(est.Hue, 'f', 0, 64),
					fmt.Sprintf("%.0f%%", est.Coverage*100),
					colorStatus(yesNo(matches), matches, colorize),
					reading,
				})
			}

			fmt.Fprintln(out, renderTable(
				[]string{"Alliance", "Region", "Hue", "Color coverage", "Color matches", "Reading"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignRight},
			))
			fmt.Fprintf(out, "Snapshot and crops written to %s\n", outDir)
			return nil
		},
	}

	cmd.Flags().Float64Var(&offset, "at", 30, "Snapshot offset in seconds")
	cmd.Flags().StringVar(&outDir, "out", "", "Directory for the snapshot and crops")
	cmd.Flags().BoolVar(&recognize, "ocr", true, "Run OCR on the normalized crops")
	cmd.Flags().BoolVar(&detect, "detect", false, "Locate the red and blue panels and print a suggested profile")
	return cmd
}

// printSuggestedProfile writes a [profiles.<name>] TOML block for the panels
// detected in img.
func printSuggestedProfile(w io.Writer, img image.Image, name string) error {
	layout, err := detection.Suggest(img, detection.DefaultOptions())
	if err != nil {
		return err
	}
	data, err := toml.Marshal(map[string]map[string]scoreboard.Layout{
		"profiles": {name: layout},
	})
	if err != nil {
		return fmt.Errorf("encode suggested profile: %w", err)
	}
	fmt.Fprintln(w, "# Suggested region profile")
	_, err = w.Write(data)
	return err
}
