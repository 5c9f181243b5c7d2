// Package scheduler runs digit recognition over extracted frames on a
// bounded worker pool.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vibescout/scoreboard-ocr/internal/logging"
	"github.com/vibescout/scoreboard-ocr/internal/scoreboard"
)

// Recognizer reads one frame image.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (scoreboard.Reading, error)
}

// Options bounds the pool.
type Options struct {
	// Workers is the maximum number of concurrent recognitions across both
	// alliances. Zero means runtime.NumCPU().
	Workers int
	// Timeout bounds a single recognition. Zero disables it.
	Timeout time.Duration
}

// Stats counts recognition outcomes for one alliance.
type Stats struct {
	Frames       int
	Readable     int
	Unreadable   int
	EngineErrors int
	Timeouts     int
}

// Result holds the raw readings of one video, keyed by alliance then frame
// index, plus per-alliance stats.
type Result struct {
	Readings map[scoreboard.Alliance]map[int]scoreboard.Reading
	Stats    map[scoreboard.Alliance]Stats
	Duration time.Duration
}

// Scheduler fans frames out to a Recognizer.
//
// A recognition that exceeds Timeout is abandoned but keeps its engine slot
// until the Recognizer actually returns, so hung engine calls count against
// Workers. Once every slot is held by an abandoned call, further frames are
// marked unreadable without calling the engine.
type Scheduler struct {
	rec    Recognizer
	opts   Options
	logger *slog.Logger

	// slots holds one token per running engine call, abandoned or not.
	slots     chan struct{}
	abandoned atomic.Int64
}

// New constructs a scheduler.
func New(rec Recognizer, opts Options, logger *slog.Logger) *Scheduler {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Scheduler{
		rec:    rec,
		opts:   opts,
		logger: logging.OrDiscard(logger),
		slots:  make(chan struct{}, opts.Workers),
	}
}

// Workers returns the effective pool size.
func (s *Scheduler) Workers() int {
	return s.opts.Workers
}

type outcome int

const (
	outcomeOK outcome = iota
	outcomeEngineError
	outcomeTimeout
)

// Run recognizes every frame in frames. Every input frame gets exactly one
// reading; failures and timeouts become scoreboard.Unreadable. The only
// error returned is the context's, when ctx is canceled.
func (s *Scheduler) Run(ctx context.Context, frames scoreboard.FrameSet) (Result, error) {
	start := time.Now()
	result := Result{
		Readings: make(map[scoreboard.Alliance]map[int]scoreboard.Reading, len(frames)),
		Stats:    make(map[scoreboard.Alliance]Stats, len(frames)),
	}
	remaining := make(map[scoreboard.Alliance]int, len(frames))
	for alliance, list := range frames {
		result.Readings[alliance] = make(map[int]scoreboard.Reading, len(list))
		result.Stats[alliance] = Stats{Frames: len(list)}
		remaining[alliance] = len(list)
	}

	var mu sync.Mutex
	record := func(alliance scoreboard.Alliance, frame scoreboard.Frame, reading scoreboard.Reading, out outcome) {
		mu.Lock()
		defer mu.Unlock()

		result.Readings[alliance][frame.Index] = reading
		st := result.Stats[alliance]
		switch {
		case out == outcomeTimeout:
			st.Timeouts++
			st.Unreadable++
		case out == outcomeEngineError:
			st.EngineErrors++
			st.Unreadable++
		case reading.Valid():
			st.Readable++
		default:
			st.Unreadable++
		}
		result.Stats[alliance] = st

		remaining[alliance]--
		if remaining[alliance] == 0 {
			s.logger.Info("alliance OCR finished",
				"alliance", alliance,
				"frames", st.Frames,
				"readable", st.Readable,
				"unreadable", st.Unreadable,
			)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

submit:
	for _, alliance := range scoreboard.Alliances {
		for _, frame := range frames[alliance] {
			if gctx.Err() != nil {
				break submit
			}
			g.Go(func() error {
				reading, out := s.recognize(gctx, alliance, frame)
				if gctx.Err() != nil {
					return gctx.Err()
				}
				record(alliance, frame, reading, out)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	result.Duration = time.Since(start)
	return result, nil
}

// Engine call states.
const (
	callRunning int32 = iota
	callFinished
	callAbandoned
)

func (s *Scheduler) recognize(ctx context.Context, alliance scoreboard.Alliance, frame scoreboard.Frame) (scoreboard.Reading, outcome) {
	if s.abandoned.Load() >= int64(s.opts.Workers) {
		s.logTimeout(alliance, frame, "engine_saturated")
		return scoreboard.Unreadable, outcomeTimeout
	}

	tctx, cancel := ctx, context.CancelFunc(func() {})
	if s.opts.Timeout > 0 {
		tctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
	}
	defer cancel()

	select {
	case s.slots <- struct{}{}:
	case <-tctx.Done():
		if ctx.Err() == nil {
			s.logTimeout(alliance, frame, "waiting_for_engine")
		}
		return scoreboard.Unreadable, outcomeTimeout
	}

	type answer struct {
		reading scoreboard.Reading
		err     error
	}
	// Buffered so an abandoned call can still deliver and exit.
	ch := make(chan answer, 1)
	var state atomic.Int32
	go func() {
		reading, err := s.rec.Recognize(tctx, frame.Path)
		<-s.slots
		if !state.CompareAndSwap(callRunning, callFinished) {
			s.abandoned.Add(-1)
		}
		ch <- answer{reading: reading, err: err}
	}()

	select {
	case ans := <-ch:
		if ans.err != nil {
			if errors.Is(ans.err, context.DeadlineExceeded) && ctx.Err() == nil {
				s.logTimeout(alliance, frame, "engine_call")
				return scoreboard.Unreadable, outcomeTimeout
			}
			s.logger.Debug("frame unreadable",
				"alliance", alliance,
				"frame", frame.Index,
				"reason", "engine_error",
				"error", ans.err,
			)
			return scoreboard.Unreadable, outcomeEngineError
		}
		return ans.reading, outcomeOK
	case <-tctx.Done():
		if state.CompareAndSwap(callRunning, callAbandoned) {
			s.abandoned.Add(1)
		}
		if ctx.Err() == nil {
			s.logTimeout(alliance, frame, "engine_call")
		}
		return scoreboard.Unreadable, outcomeTimeout
	}
}

func (s *Scheduler) logTimeout(alliance scoreboard.Alliance, frame scoreboard.Frame, stage string) {
	s.logger.Warn("frame unreadable",
		"alliance", alliance,
		"frame", frame.Index,
		"reason", "timeout",
		"stage", stage,
		"timeout", s.opts.Timeout,
		"abandoned_calls", s.abandoned.Load(),
	)
}
