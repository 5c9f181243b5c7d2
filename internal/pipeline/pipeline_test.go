package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"github.com/vibescout/scoreboard-ocr/internal/dataset"
	"github.com/vibescout/scoreboard-ocr/internal/extract"
	"github.com/vibescout/scoreboard-ocr/internal/scheduler"
	"github.com/vibescout/scoreboard-ocr/internal/scoreboard"
	"github.com/vibescout/scoreboard-ocr/internal/store"
)

const u = scoreboard.Unreadable

// fakeExtractor produces len(values) frames per alliance for each match and
// fails for matches listed in failures.
type fakeExtractor struct {
	values   map[string]map[scoreboard.Alliance][]scoreboard.Reading
	failures map[string]error
}

func (f *fakeExtractor) Extract(ctx context.Context, videoPath, matchDir string) (scoreboard.FrameSet, error) {
	match := MatchKey(videoPath)
	if err, ok := f.failures[match]; ok {
		return nil, err
	}
	set := scoreboard.FrameSet{}
	for _, alliance := range scoreboard.Alliances {
		dir := filepath.Join(matchDir, alliance.String())
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		for i := range f.values[match][alliance] {
			path := filepath.Join(dir, fmt.Sprintf("%03d.png", i+1))
			if err := os.WriteFile(path, []byte("frame"), 0o644); err != nil {
				return nil, err
			}
			set[alliance] = append(set[alliance], scoreboard.Frame{Index: i + 1, Path: path})
		}
	}
	return set, nil
}

// fakeScheduler returns the extractor's table values for each frame.
type fakeScheduler struct {
	values map[string]map[scoreboard.Alliance][]scoreboard.Reading
}

func (f *fakeScheduler) Run(ctx context.Context, frames scoreboard.FrameSet) (scheduler.Result, error) {
	if err := ctx.Err(); err != nil {
		return scheduler.Result{}, err
	}
	res := scheduler.Result{
		Readings: map[scoreboard.Alliance]map[int]scoreboard.Reading{},
		Stats:    map[scoreboard.Alliance]scheduler.Stats{},
	}
	for alliance, list := range frames {
		res.Readings[alliance] = map[int]scoreboard.Reading{}
		st := scheduler.Stats{Frames: len(list)}
		for _, frame := range list {
			match := filepath.Base(filepath.Dir(filepath.Dir(frame.Path)))
			r := f.values[match][alliance][frame.Index-1]
			res.Readings[alliance][frame.Index] = r
			if r.Valid() {
				st.Readable++
			} else {
				st.Unreadable++
			}
		}
		res.Stats[alliance] = st
	}
	return res, nil
}

type recordingSink struct {
	runID string
	keys  []string
	err   error
}

func (s *recordingSink) Name() string { return "recording" }
func (s *recordingSink) Export(ctx context.Context, d *dataset.Dataset, runID string) error {
	s.runID = runID
	s.keys = d.Keys()
	return s.err
}
func (s *recordingSink) Close() error { return nil }

type fixture struct {
	videos string
	frames string
	output string
}

func newFixture(t *testing.T, names ...string) fixture {
	t.Helper()
	root := t.TempDir()
	f := fixture{
		videos: filepath.Join(root, "matches"),
		frames: filepath.Join(root, "frames"),
		output: filepath.Join(root, "out", "data.json"),
	}
	if err := os.MkdirAll(f.videos, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(f.videos, name), []byte("video"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func (f fixture) options() Options {
	return Options{
		VideosDir:  f.videos,
		VideoExt:   ".m4v",
		FramesDir:  f.frames,
		OutputFile: f.output,
		KeepFrames: true,
	}
}

func TestRun_CorruptVideoSkipped(t *testing.T) {
	fx := newFixture(t, "qm1.m4v", "corrupt.m4v", "notes.txt")
	values := map[string]map[scoreboard.Alliance][]scoreboard.Reading{
		"qm1": {
			scoreboard.Red:  {0, 3, u, 8},
			scoreboard.Blue: {u, 2, 2, 5},
		},
	}
	ext := &fakeExtractor{
		values:   values,
		failures: map[string]error{"corrupt": fmt.Errorf("%w: moov atom not found", extract.ErrProbe)},
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	p := New(ext, &fakeScheduler{values: values}, nil, fx.options(), logger)

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(summary.Videos) != 2 || summary.Succeeded() != 1 || summary.Failed() != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.RunID == "" {
		t.Error("expected a run id")
	}

	ds, err := dataset.Read(fx.output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if keys := ds.Keys(); len(keys) != 1 || keys[0] != "qm1" {
		t.Fatalf("dataset keys = %v, want [qm1]", keys)
	}
	rec, _ := ds.Get("qm1")
	if got := fmt.Sprint(rec.Red.Values()); got != "[0 3 3 8]" {
		t.Errorf("red timeline = %s", got)
	}
	if got := fmt.Sprint(rec.Blue.Values()); got != "[unreadable 2 2 5]" {
		t.Errorf("blue timeline = %s", got)
	}

	var failed VideoSummary
	for _, v := range summary.Videos {
		if v.Match == "corrupt" {
			failed = v
		}
	}
	if failed.Status != StatusFailed || !errors.Is(failed.Err, extract.ErrProbe) {
		t.Errorf("corrupt video summary = %+v", failed)
	}
	out := logs.String()
	if !strings.Contains(out, "video failed") || !strings.Contains(out, "video=corrupt") {
		t.Errorf("expected an error log for the corrupt video, got %q", out)
	}
	if !strings.Contains(out, "run_id="+summary.RunID) {
		t.Errorf("log lines should carry the run id, got %q", out)
	}
}

func TestProcessVideo_GapFillSummary(t *testing.T) {
	fx := newFixture(t)
	values := map[string]map[scoreboard.Alliance][]scoreboard.Reading{
		"qf1": {
			scoreboard.Red:  {7, u, u},
			scoreboard.Blue: {u, 5},
		},
	}
	p := New(&fakeExtractor{values: values}, &fakeScheduler{values: values}, nil, fx.options(), nil)

	rec, summaries, frames, err := p.ProcessVideo(context.Background(), filepath.Join(fx.videos, "qf1.m4v"))
	if err != nil {
		t.Fatalf("ProcessVideo: %v", err)
	}
	if frames != 5 {
		t.Errorf("frames = %d, want 5", frames)
	}
	if got := fmt.Sprint(rec.Red.Values()); got != "[7 7 7]" {
		t.Errorf("red = %s, want [7 7 7]", got)
	}
	if got := fmt.Sprint(rec.Blue.Values()); got != "[unreadable 5]" {
		t.Errorf("blue = %s", got)
	}

	red := summaries[scoreboard.Red]
	if red.Repaired != 2 || red.Leading != 0 || red.Final != 7 {
		t.Errorf("red summary = %+v", red)
	}
	blue := summaries[scoreboard.Blue]
	if blue.Repaired != 0 || blue.Leading != 1 || blue.Final != 5 {
		t.Errorf("blue summary = %+v", blue)
	}
}

func TestRun_LockContention(t *testing.T) {
	fx := newFixture(t, "qm1.m4v")
	opts := fx.options()
	if err := os.MkdirAll(filepath.Dir(fx.output), 0o755); err != nil {
		t.Fatal(err)
	}
	held := flock.New(fx.output + ".lock")
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("could not take lock: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	p := New(&fakeExtractor{}, &fakeScheduler{}, nil, opts, nil)
	if _, err := p.Run(context.Background()); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if _, err := os.Stat(fx.output); !os.IsNotExist(err) {
		t.Error("locked run must not write the output")
	}
}

func TestRun_RemovesFramesWhenNotKept(t *testing.T) {
	fx := newFixture(t, "qm4.m4v")
	values := map[string]map[scoreboard.Alliance][]scoreboard.Reading{
		"qm4": {scoreboard.Red: {1}, scoreboard.Blue: {2}},
	}
	opts := fx.options()
	opts.KeepFrames = false
	p := New(&fakeExtractor{values: values}, &fakeScheduler{values: values}, nil, opts, nil)

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(fx.frames, "qm4")); !os.IsNotExist(err) {
		t.Error("frame directory should be removed when frames are not kept")
	}
}

// partialExtractor writes one frame and then fails, like an ffmpeg run
// that dies midway.
type partialExtractor struct{}

func (partialExtractor) Extract(ctx context.Context, videoPath, matchDir string) (scoreboard.FrameSet, error) {
	dir := filepath.Join(matchDir, scoreboard.Red.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, "001.png"), []byte("frame"), 0o644); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: ffmpeg exited with status 1", extract.ErrExtract)
}

func TestRun_RemovesPartialFramesOnFailure(t *testing.T) {
	fx := newFixture(t, "qm6.m4v")
	opts := fx.options()
	opts.KeepFrames = false
	p := New(partialExtractor{}, &fakeScheduler{}, nil, opts, nil)

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Failed() != 1 {
		t.Fatalf("expected the video to fail, got %+v", summary.Videos)
	}
	if _, err := os.Stat(filepath.Join(fx.frames, "qm6")); !os.IsNotExist(err) {
		t.Error("partial frame directory should be removed when frames are not kept")
	}
}

func TestRun_DuplicateMatchKey(t *testing.T) {
	fx := newFixture(t, "qm1.m4v", "qm1.M4V")
	videos, err := Scan(fx.videos, ".m4v")
	if err != nil {
		t.Fatal(err)
	}
	if len(videos) != 2 {
		t.Skip("filesystem is case-insensitive")
	}

	values := map[string]map[scoreboard.Alliance][]scoreboard.Reading{
		"qm1": {scoreboard.Red: {4}, scoreboard.Blue: {6}},
	}
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	p := New(&fakeExtractor{values: values}, &fakeScheduler{values: values}, nil, fx.options(), logger)

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Succeeded() != 1 || summary.Failed() != 1 {
		t.Fatalf("expected one success and one duplicate, got %+v", summary.Videos)
	}
	dup := summary.Videos[1]
	if dup.Status != StatusFailed || !errors.Is(dup.Err, ErrDuplicateMatch) {
		t.Errorf("second video summary = %+v", dup)
	}
	if dup.Path != videos[1] {
		t.Errorf("duplicate path = %s, want %s", dup.Path, videos[1])
	}
	if !strings.Contains(logs.String(), "duplicate match key") {
		t.Errorf("expected a duplicate error log, got %q", logs.String())
	}

	ds, err := dataset.Read(fx.output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if ds.Len() != 1 {
		t.Errorf("dataset entries = %d, want 1", ds.Len())
	}
}

func TestRun_KeepsFrames(t *testing.T) {
	fx := newFixture(t, "qm5.m4v")
	values := map[string]map[scoreboard.Alliance][]scoreboard.Reading{
		"qm5": {scoreboard.Red: {1}, scoreboard.Blue: {2}},
	}
	p := New(&fakeExtractor{values: values}, &fakeScheduler{values: values}, nil, fx.options(), nil)

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(fx.frames, "qm5", "red", "001.png")); err != nil {
		t.Errorf("frames should be kept: %v", err)
	}
}

func TestRun_Sinks(t *testing.T) {
	fx := newFixture(t, "qm1.m4v", "qm2.m4v")
	values := map[string]map[scoreboard.Alliance][]scoreboard.Reading{
		"qm1": {scoreboard.Red: {1}, scoreboard.Blue: {2}},
		"qm2": {scoreboard.Red: {3}, scoreboard.Blue: {4}},
	}
	sink := &recordingSink{}
	p := New(&fakeExtractor{values: values}, &fakeScheduler{values: values}, []store.Sink{sink}, fx.options(), nil)

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if sink.runID != summary.RunID || fmt.Sprint(sink.keys) != "[qm1 qm2]" {
		t.Errorf("sink saw run=%q keys=%v", sink.runID, sink.keys)
	}
	if fmt.Sprint(summary.Exported) != "[recording]" {
		t.Errorf("exported = %v", summary.Exported)
	}

	failing := &recordingSink{err: errors.New("disk full")}
	p = New(&fakeExtractor{values: values}, &fakeScheduler{values: values}, []store.Sink{failing}, fx.options(), nil)
	if _, err := p.Run(context.Background()); err == nil || !strings.Contains(err.Error(), "recording export") {
		t.Fatalf("expected sink error, got %v", err)
	}
	if _, err := dataset.Read(fx.output); err != nil {
		t.Errorf("dataset should be written before sinks run: %v", err)
	}
}

func TestRun_Canceled(t *testing.T) {
	fx := newFixture(t, "qm1.m4v")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(&fakeExtractor{}, &fakeScheduler{}, nil, fx.options(), nil)
	if _, err := p.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(fx.output); !os.IsNotExist(err) {
		t.Error("interrupted run must not write the output")
	}
}

func TestRun_EmptyDirectoryWritesEmptyDataset(t *testing.T) {
	fx := newFixture(t)
	p := New(&fakeExtractor{}, &fakeScheduler{}, nil, fx.options(), nil)

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(summary.Videos) != 0 {
		t.Errorf("videos = %v", summary.Videos)
	}
	data, err := os.ReadFile(fx.output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if strings.TrimSpace(string(data)) != "{}" {
		t.Errorf("output = %q, want {}", data)
	}
}

func TestRun_MissingVideosDir(t *testing.T) {
	fx := newFixture(t)
	opts := fx.options()
	opts.VideosDir = filepath.Join(fx.videos, "missing")
	p := New(&fakeExtractor{}, &fakeScheduler{}, nil, opts, nil)
	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("expected error for missing videos directory")
	}
}
