package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vibescout/scoreboard-ocr/internal/config"
	"github.com/vibescout/scoreboard-ocr/internal/extract"
	"github.com/vibescout/scoreboard-ocr/internal/ocr"
	"github.com/vibescout/scoreboard-ocr/internal/pipeline"
	"github.com/vibescout/scoreboard-ocr/internal/scheduler"
	"github.com/vibescout/scoreboard-ocr/internal/store"
)

func extractOptions(cfg *config.Config) extract.Options {
	opts := extract.DefaultOptions()
	opts.FFmpegBinary = cfg.Extract.FFmpegBinary
	opts.FFprobeBinary = cfg.Extract.FFprobeBinary
	opts.FPS = cfg.Extract.FPS
	opts.StartNumber = cfg.Extract.StartNumber
	opts.ImageExt = cfg.Extract.ImageExt
	opts.FilterMode = cfg.Extract.FilterMode
	opts.Contrast = cfg.Extract.Contrast
	opts.Threshold = uint8(cfg.Extract.Threshold)
	opts.Timeout = cfg.ExtractTimeout()
	opts.Workers = cfg.OCR.Workers
	opts.ValidateRegionColor = cfg.Extract.ValidateRegionColor
	return opts
}

func ocrOptions(cfg *config.Config) ocr.Options {
	return ocr.Options{
		Language:       cfg.OCR.Language,
		PageSegMode:    cfg.OCR.PageSegMode,
		Whitelist:      cfg.OCR.Whitelist,
		TessdataPrefix: cfg.OCR.TessdataPrefix,
		Variables:      cfg.OCR.Variables,
	}
}

func schedulerOptions(cfg *config.Config) scheduler.Options {
	return scheduler.Options{
		Workers: cfg.OCR.Workers,
		Timeout: cfg.RecognizeTimeout(),
	}
}

func pipelineOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		VideosDir:  cfg.Paths.VideosDir,
		VideoExt:   cfg.Extract.VideoExt,
		FramesDir:  cfg.Paths.FramesDir,
		OutputFile: cfg.Paths.OutputFile,
		LockPath:   cfg.LockPath(),
		Indent:     cfg.Output.Indent,
		KeepFrames: cfg.Extract.KeepFrames,
	}
}

func newExtractor(cfg *config.Config, logger *slog.Logger) (*extract.Extractor, error) {
	layout, err := cfg.Layout()
	if err != nil {
		return nil, err
	}
	return extract.New(extractOptions(cfg), layout, logger)
}

// openSinks opens every configured export sink. On failure the sinks opened
// so far are closed.
func openSinks(ctx context.Context, cfg *config.Config) ([]store.Sink, error) {
	var sinks []store.Sink
	if cfg.Export.SQLitePath != "" {
		sink, err := store.OpenSQLite(ctx, cfg.Export.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite export: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Export.PostgresURL != "" {
		sink, err := store.OpenPostgres(ctx, cfg.Export.PostgresURL)
		if err != nil {
			_ = store.CloseAll(sinks)
			return nil, fmt.Errorf("open postgres export: %w", err)
		}
		sinks = append(sinks, sink)
	}
	return sinks, nil
}

func newScheduler(cfg *config.Config, rec scheduler.Recognizer, logger *slog.Logger) *scheduler.Scheduler {
	sched := scheduler.New(rec, schedulerOptions(cfg), logger)
	logger.Debug("ocr pool ready",
		"workers", sched.Workers(),
		"timeout", cfg.RecognizeTimeout(),
	)
	return sched
}

func newPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pipeline.Pipeline, []store.Sink, error) {
	extractor, err := newExtractor(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	recognizer := ocr.NewRecognizer(ocr.NewTesseractEngine(ocrOptions(cfg)))
	sched := newScheduler(cfg, recognizer, logger)

	sinks, err := openSinks(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return pipeline.New(extractor, sched, sinks, pipelineOptions(cfg), logger), sinks, nil
}
