// Package dataset aggregates repaired alliance timelines into per-match
// records and persists the whole run as one JSON document.
package dataset

import (
	"sort"
	"sync"

	"github.com/vibescout/scoreboard-ocr/internal/scoreboard"
	"github.com/vibescout/scoreboard-ocr/internal/timeline"
)

// MatchRecord holds both alliances' timelines for one video.
type MatchRecord struct {
	Red  timeline.Timeline `json:"red"`
	Blue timeline.Timeline `json:"blue"`
}

// Alliance returns the timeline for the given side.
func (m MatchRecord) Alliance(a scoreboard.Alliance) timeline.Timeline {
	if a == scoreboard.Blue {
		return m.Blue
	}
	return m.Red
}

// NewMatchRecord builds a record from the repaired timelines keyed by alliance.
func NewMatchRecord(timelines map[scoreboard.Alliance]timeline.Timeline) MatchRecord {
	return MatchRecord{
		Red:  timelines[scoreboard.Red],
		Blue: timelines[scoreboard.Blue],
	}
}

// Dataset maps a video key (file name without extension) to its record.
//
// Dataset is safe for concurrent use, although the pipeline only mutates it
// from its sequential per-video loop.
type Dataset struct {
	mu      sync.RWMutex
	matches map[string]MatchRecord
}

// New returns an empty dataset.
func New() *Dataset {
	return &Dataset{matches: make(map[string]MatchRecord)}
}

// Add stores the record for a video, replacing any earlier one with the same key.
func (d *Dataset) Add(key string, record MatchRecord) {
	d.mu.Lock()
	d.matches[key] = record
	d.mu.Unlock()
}

// Get returns the record for a video key.
func (d *Dataset) Get(key string) (MatchRecord, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rec, ok := d.matches[key]
	return rec, ok
}

// Keys returns the video keys in sorted order.
func (d *Dataset) Keys() []string {
	d.mu.RLock()
	keys := make([]string, 0, len(d.matches))
	for k := range d.matches {
		keys = append(keys, k)
	}
	d.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Len returns the number of matches.
func (d *Dataset) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.matches)
}

// Matches returns a copy of the underlying mapping.
func (d *Dataset) Matches() map[string]MatchRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]MatchRecord, len(d.matches))
	for k, v := range d.matches {
		out[k] = v
	}
	return out
}
