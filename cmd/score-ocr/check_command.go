package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vibescout/scoreboard-ocr/internal/deps"
	"github.com/vibescout/scoreboard-ocr/internal/ocr"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report availability of ffmpeg, ffprobe and Tesseract",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			statuses := deps.CheckBinaries(deps.MediaRequirements(cfg.Extract.FFmpegBinary, cfg.Extract.FFprobeBinary))
			statuses = deps.ProbeVersions(cmd.Context(), statuses)

			info := ocr.NewTesseractEngine(ocrOptions(cfg)).GetInfo()
			tesseract := deps.Status{
				Name:        "Tesseract",
				Command:     info.Backend,
				Description: "Recognizes scoreboard digits (language " + info.Language + ")",
				Available:   info.Available,
				Version:     info.Version,
			}
			if !info.Available {
				tesseract.Detail = "library not linked or not initialized"
			}
			statuses = append(statuses, tesseract)

			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				detail := s.Version
				if detail == "" {
					detail = s.Detail
				}
				rows = append(rows, []string{s.Name, s.Command, colorStatus(yesNo(s.Available), s.Available, colorize), detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Dependency", "Command", "Available", "Version"}, rows, nil))

			if ctx.configSeen {
				fmt.Fprintf(out, "Config: %s\n", ctx.configPath)
			} else {
				fmt.Fprintln(out, "Config: defaults (no config file found)")
			}

			if missing := deps.Missing(statuses); len(missing) > 0 {
				var errs []error
				for _, m := range missing {
					errs = append(errs, fmt.Errorf("%s: %s", m.Name, m.Detail))
				}
				return fmt.Errorf("missing dependencies: %w", errors.Join(errs...))
			}
			return nil
		},
	}
}
