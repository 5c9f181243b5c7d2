package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/vibescout/scoreboard-ocr/internal/dataset"
	"github.com/vibescout/scoreboard-ocr/internal/logging"
	"github.com/vibescout/scoreboard-ocr/internal/scheduler"
	"github.com/vibescout/scoreboard-ocr/internal/scoreboard"
	"github.com/vibescout/scoreboard-ocr/internal/store"
	"github.com/vibescout/scoreboard-ocr/internal/timeline"
)

// ErrLocked reports that another run holds the output lock.
var ErrLocked = errors.New("another run is writing the output file")

// ErrDuplicateMatch reports a video whose match key was already taken by an
// earlier video in the same run, e.g. qm1.m4v and qm1.M4V.
var ErrDuplicateMatch = errors.New("duplicate match key")

// Extractor produces the frames of one video.
type Extractor interface {
	Extract(ctx context.Context, videoPath, matchDir string) (scoreboard.FrameSet, error)
}

// Scheduler recognizes a frame set.
type Scheduler interface {
	Run(ctx context.Context, frames scoreboard.FrameSet) (scheduler.Result, error)
}

// Options configures a run.
type Options struct {
	VideosDir  string
	VideoExt   string
	FramesDir  string
	OutputFile string
	// LockPath defaults to OutputFile + ".lock".
	LockPath   string
	Indent     int
	KeepFrames bool
}

// Pipeline runs extraction, recognition, repair and aggregation.
type Pipeline struct {
	extractor Extractor
	scheduler Scheduler
	sinks     []store.Sink
	opts      Options
	logger    *slog.Logger
}

// New constructs a pipeline. Sinks may be empty.
func New(extractor Extractor, sched Scheduler, sinks []store.Sink, opts Options, logger *slog.Logger) *Pipeline {
	if opts.LockPath == "" {
		opts.LockPath = opts.OutputFile + ".lock"
	}
	if opts.Indent == 0 {
		opts.Indent = dataset.DefaultIndent
	}
	return &Pipeline{
		extractor: extractor,
		scheduler: sched,
		sinks:     sinks,
		opts:      opts,
		logger:    logging.OrDiscard(logger),
	}
}

// Run processes every video in the videos directory, writes the dataset and
// runs the export sinks. Per-video failures are recorded in the summary; the
// returned error covers lock contention, cancellation, and write or export
// failures.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	if err := os.MkdirAll(filepath.Dir(p.opts.LockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	lock := flock.New(p.opts.LockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrLocked, p.opts.LockPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			p.logger.Warn("failed to release output lock", "lock", p.opts.LockPath, "error", err)
		}
	}()

	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)
	summary := &Summary{RunID: runID, Output: p.opts.OutputFile}

	videos, err := Scan(p.opts.VideosDir, p.opts.VideoExt)
	if err != nil {
		return summary, err
	}
	logger.Info("run started", "videos", len(videos), "dir", p.opts.VideosDir)

	ds := dataset.New()
	seen := make(map[string]string, len(videos))
	for _, video := range videos {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("run interrupted: %w", err)
		}

		match := MatchKey(video)
		if first, ok := seen[match]; ok {
			err := fmt.Errorf("%w %q: %s already recorded from %s", ErrDuplicateMatch, match, filepath.Base(video), filepath.Base(first))
			logger.Error("video skipped", "video", match, "path", video, "error", err)
			summary.Videos = append(summary.Videos, VideoSummary{Match: match, Path: video, Status: StatusFailed, Err: err})
			continue
		}
		seen[match] = video

		vs := p.processVideo(ctx, logger, video, ds)
		summary.Videos = append(summary.Videos, vs)
		if vs.Status == StatusFailed && ctx.Err() != nil {
			return summary, fmt.Errorf("run interrupted: %w", ctx.Err())
		}
	}

	if err := dataset.Write(p.opts.OutputFile, ds, p.opts.Indent); err != nil {
		return summary, err
	}
	logger.Info("dataset written", "path", p.opts.OutputFile, "matches", ds.Len())

	for _, sink := range p.sinks {
		if err := sink.Export(ctx, ds, runID); err != nil {
			return summary, fmt.Errorf("%s export: %w", sink.Name(), err)
		}
		summary.Exported = append(summary.Exported, sink.Name())
		logger.Info("dataset exported", "sink", sink.Name(), "matches", ds.Len())
	}

	summary.Duration = time.Since(start)
	logger.Info("run finished",
		"succeeded", summary.Succeeded(),
		"failed", summary.Failed(),
		"duration", summary.Duration.Round(time.Millisecond),
	)
	return summary, nil
}

func (p *Pipeline) processVideo(ctx context.Context, logger *slog.Logger, video string, ds *dataset.Dataset) VideoSummary {
	start := time.Now()
	match := MatchKey(video)
	logger = logger.With("video", match)
	vs := VideoSummary{Match: match, Path: video, Status: StatusFailed}

	record, alliances, frames, err := p.ProcessVideo(ctx, video)
	vs.Duration = time.Since(start)
	vs.Frames = frames
	if err != nil {
		vs.Err = err
		logger.Error("video failed", "error", err)
		return vs
	}

	ds.Add(match, record)
	vs.Status = StatusOK
	vs.Alliances = alliances
	logger.Info("video complete",
		"frames", frames,
		"red_final", alliances[scoreboard.Red].Final,
		"blue_final", alliances[scoreboard.Blue].Final,
		"duration", vs.Duration.Round(time.Millisecond),
	)
	return vs
}

// ProcessVideo runs extraction, recognition and gap repair for one video and
// returns its record, per-alliance summaries and the extracted frame count.
func (p *Pipeline) ProcessVideo(ctx context.Context, video string) (dataset.MatchRecord, map[scoreboard.Alliance]AllianceSummary, int, error) {
	matchDir := filepath.Join(p.opts.FramesDir, MatchKey(video))

	if !p.opts.KeepFrames {
		defer func() {
			if err := os.RemoveAll(matchDir); err != nil {
				p.logger.Warn("failed to remove frames", "dir", matchDir, "error", err)
			}
		}()
	}

	frames, err := p.extractor.Extract(ctx, video, matchDir)
	if err != nil {
		return dataset.MatchRecord{}, nil, 0, err
	}

	result, err := p.scheduler.Run(ctx, frames)
	if err != nil {
		return dataset.MatchRecord{}, nil, frames.Count(), err
	}

	timelines := make(map[scoreboard.Alliance]timeline.Timeline, len(scoreboard.Alliances))
	summaries := make(map[scoreboard.Alliance]AllianceSummary, len(scoreboard.Alliances))
	for _, alliance := range scoreboard.Alliances {
		raw := result.Readings[alliance]
		repaired := timeline.GapFill(raw)
		timelines[alliance] = repaired

		st := result.Stats[alliance]
		summaries[alliance] = AllianceSummary{
			Stats:    st,
			Repaired: st.Unreadable - repaired.Unreadable(),
			Leading:  repaired.Leading(),
			Final:    repaired.Final(),
		}
	}
	return dataset.NewMatchRecord(timelines), summaries, frames.Count(), nil
}
