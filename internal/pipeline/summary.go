package pipeline

import (
	"time"

	"github.com/vibescout/scoreboard-ocr/internal/scheduler"
	"github.com/vibescout/scoreboard-ocr/internal/scoreboard"
)

// Status is the outcome of one video.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// AllianceSummary describes one repaired alliance timeline.
type AllianceSummary struct {
	Stats scheduler.Stats
	// Repaired counts unreadable frames filled from their predecessor.
	Repaired int
	// Leading counts unreadable frames at the start that could not be filled.
	Leading int
	// Final is the last valid reading, or Unreadable.
	Final scoreboard.Reading
}

// VideoSummary describes one processed video.
type VideoSummary struct {
	Match     string
	Path      string
	Status    Status
	Err       error
	Frames    int
	Alliances map[scoreboard.Alliance]AllianceSummary
	Duration  time.Duration
}

// Summary describes a whole run.
type Summary struct {
	RunID    string
	Output   string
	Videos   []VideoSummary
	Exported []string
	Duration time.Duration
}

// Succeeded counts videos recorded in the dataset.
func (s *Summary) Succeeded() int {
	n := 0
	for _, v := range s.Videos {
		if v.Status == StatusOK {
			n++
		}
	}
	return n
}

// Failed counts skipped videos.
func (s *Summary) Failed() int {
	return len(s.Videos) - s.Succeeded()
}
