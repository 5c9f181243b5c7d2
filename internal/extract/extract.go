package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vibescout/scoreboard-ocr/internal/imaging"
	"github.com/vibescout/scoreboard-ocr/internal/logging"
	"github.com/vibescout/scoreboard-ocr/internal/media/ffprobe"
	"github.com/vibescout/scoreboard-ocr/internal/scoreboard"
)

// Filter modes.
const (
	FilterModeFFmpeg = "ffmpeg"
	FilterModeNative = "native"
)

// Prober inspects a video file.
type Prober func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Options controls frame extraction.
type Options struct {
	FFmpegBinary  string
	FFprobeBinary string

	FPS         float64
	StartNumber int
	ImageExt    string
	FilterMode  string

	// Contrast is a percentage (-100..100) and Threshold a luminance
	// midpoint (0-255). Both modes use them.
	Contrast  float64
	Threshold uint8

	// Timeout bounds each ffprobe and ffmpeg invocation. Zero disables it.
	Timeout time.Duration

	// Workers bounds in-process normalization in native mode.
	Workers int

	// ValidateRegionColor enables the raw crop color check in native mode.
	ValidateRegionColor bool
	MinColorCoverage    float64

	Runner CommandRunner
	Prober Prober
}

// DefaultOptions returns the extraction defaults.
func DefaultOptions() Options {
	return Options{
		FFmpegBinary:     "ffmpeg",
		FFprobeBinary:    "ffprobe",
		FPS:              15,
		StartNumber:      1,
		ImageExt:         "png",
		FilterMode:       FilterModeFFmpeg,
		Contrast:         60,
		Threshold:        128,
		Timeout:          10 * time.Minute,
		Workers:          runtime.NumCPU(),
		MinColorCoverage: 0.05,
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if strings.TrimSpace(o.FFmpegBinary) == "" {
		o.FFmpegBinary = def.FFmpegBinary
	}
	if strings.TrimSpace(o.FFprobeBinary) == "" {
		o.FFprobeBinary = def.FFprobeBinary
	}
	if o.FPS <= 0 {
		o.FPS = def.FPS
	}
	o.ImageExt = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(o.ImageExt)), ".")
	if o.ImageExt == "" {
		o.ImageExt = def.ImageExt
	}
	if o.FilterMode == "" {
		o.FilterMode = def.FilterMode
	}
	if o.Workers <= 0 {
		o.Workers = def.Workers
	}
	if o.Runner == nil {
		o.Runner = execRunner
	}
	if o.Prober == nil {
		o.Prober = ffprobe.Inspect
	}
	return o
}

// Extractor produces per-alliance frames from match videos.
type Extractor struct {
	opts   Options
	layout scoreboard.Layout
	logger *slog.Logger
}

// New constructs an extractor for the given region layout.
func New(opts Options, layout scoreboard.Layout, logger *slog.Logger) (*Extractor, error) {
	opts = opts.normalized()
	if opts.FilterMode != FilterModeFFmpeg && opts.FilterMode != FilterModeNative {
		return nil, fmt.Errorf("unsupported filter mode %q", opts.FilterMode)
	}
	if err := layout.Validate(0, 0); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeometry, err)
	}
	e := &Extractor{opts: opts, layout: layout, logger: logging.OrDiscard(logger)}
	if opts.FilterMode == FilterModeNative {
		chain := imaging.DefaultChain(e.normalizeOptions())
		e.logger.Debug("native filter chain", "filters", strings.Join(chain.Names(), ","))
	}
	return e, nil
}

// Options returns the effective options.
func (e *Extractor) Options() Options {
	return e.opts
}

// Extract samples both scoreboard regions of videoPath into matchDir and
// returns the resulting frames. Stale frames from earlier runs are removed
// first.
func (e *Extractor) Extract(ctx context.Context, videoPath, matchDir string) (scoreboard.FrameSet, error) {
	width, height, err := e.probe(ctx, videoPath)
	if err != nil {
		return nil, err
	}
	if err := e.layout.Validate(width, height); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrGeometry, filepath.Base(videoPath), err)
	}
	if e.resolutionMismatch(width, height) {
		e.logger.Warn("video resolution differs from region profile",
			"video", filepath.Base(videoPath),
			"width", width,
			"height", height,
			"profile_width", e.layout.SourceWidth,
			"profile_height", e.layout.SourceHeight,
		)
	}

	results := make([][]scoreboard.Frame, len(scoreboard.Alliances))
	g, gctx := errgroup.WithContext(ctx)
	for i, alliance := range scoreboard.Alliances {
		g.Go(func() error {
			frames, err := e.extractAlliance(gctx, videoPath, filepath.Join(matchDir, alliance.String()), alliance)
			if err != nil {
				return fmt.Errorf("%s: %w", alliance, err)
			}
			results[i] = frames
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := make(scoreboard.FrameSet, len(scoreboard.Alliances))
	for i, alliance := range scoreboard.Alliances {
		set[alliance] = results[i]
	}
	return set, nil
}

// resolutionMismatch reports whether the layout records a source resolution
// and the video has a different one. Regions that still fit are used as is.
func (e *Extractor) resolutionMismatch(width, height int) bool {
	if e.layout.SourceWidth <= 0 || e.layout.SourceHeight <= 0 {
		return false
	}
	return width != e.layout.SourceWidth || height != e.layout.SourceHeight
}

func (e *Extractor) normalizeOptions() imaging.NormalizeOptions {
	return imaging.NormalizeOptions{Contrast: e.opts.Contrast, Threshold: e.opts.Threshold}
}

func (e *Extractor) probe(ctx context.Context, videoPath string) (int, int, error) {
	pctx, cancel := e.withTimeout(ctx)
	defer cancel()

	result, err := e.opts.Prober(pctx, e.opts.FFprobeBinary, videoPath)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrProbe, err)
	}
	stream, ok := result.VideoStream()
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s has no video stream", ErrProbe, filepath.Base(videoPath))
	}
	e.logger.Debug("video probed",
		"video", filepath.Base(videoPath),
		"width", stream.Width,
		"height", stream.Height,
		"frame_rate", stream.FrameRate(),
		"duration", result.DurationSeconds(),
	)
	return stream.Width, stream.Height, nil
}

func (e *Extractor) extractAlliance(ctx context.Context, videoPath, dir string, alliance scoreboard.Alliance) ([]scoreboard.Frame, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create frame directory: %w", ErrExtract, err)
	}
	removed, err := clearFrames(dir, e.opts.ImageExt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtract, err)
	}
	if removed > 0 {
		e.logger.Debug("removed stale frames", "alliance", alliance, "count", removed)
	}

	start := time.Now()
	args := FFmpegArgs(videoPath, e.layout.Region(alliance), dir, e.opts)
	rctx, cancel := e.withTimeout(ctx)
	output, err := e.opts.Runner(rctx, e.opts.FFmpegBinary, args...)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: ffmpeg: %w: %s", ErrExtract, err, strings.TrimSpace(string(output)))
	}

	frames, err := ListFrames(dir, e.opts.ImageExt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtract, err)
	}
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}

	if e.opts.FilterMode == FilterModeNative {
		if e.opts.ValidateRegionColor {
			e.checkColor(frames[0], alliance)
		}
		if err := e.normalizeFrames(ctx, frames); err != nil {
			return nil, err
		}
	}

	e.logger.Debug("frames extracted",
		"alliance", alliance,
		"frames", len(frames),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return frames, nil
}

func (e *Extractor) checkColor(frame scoreboard.Frame, alliance scoreboard.Alliance) {
	img, err := imaging.Load(frame.Path)
	if err != nil {
		e.logger.Warn("region color check skipped", "alliance", alliance, "error", err)
		return
	}
	est, err := imaging.CheckAllianceColor(img, alliance, e.opts.MinColorCoverage)
	if err != nil {
		e.logger.Warn("region color mismatch, check the region profile",
			"alliance", alliance,
			"hue", est.Hue,
			"coverage", est.Coverage,
			"error", err,
		)
	}
}

func (e *Extractor) normalizeFrames(ctx context.Context, frames []scoreboard.Frame) error {
	opts := e.normalizeOptions()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for _, frame := range frames {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return imaging.NormalizeFile(frame.Path, opts)
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: normalize: %w", ErrExtract, err)
	}
	return nil
}

// Snapshot writes one full-resolution frame of videoPath, taken offsetSeconds
// into the video, to dest.
func (e *Extractor) Snapshot(ctx context.Context, videoPath string, offsetSeconds float64, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrExtract, err)
	}
	rctx, cancel := e.withTimeout(ctx)
	defer cancel()
	output, err := e.opts.Runner(rctx, e.opts.FFmpegBinary, SnapshotArgs(videoPath, offsetSeconds, dest)...)
	if err != nil {
		return fmt.Errorf("%w: ffmpeg snapshot: %w: %s", ErrExtract, err, strings.TrimSpace(string(output)))
	}
	if _, err := os.Stat(dest); err != nil {
		return fmt.Errorf("%w: snapshot not written: %w", ErrExtract, err)
	}
	return nil
}

func (e *Extractor) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.opts.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.opts.Timeout)
}
