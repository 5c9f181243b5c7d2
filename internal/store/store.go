// Package store exports finished datasets into relational databases.
//
// Every sink writes the same frame_scores table, one row per
// (match, alliance, frame). Exporting a match replaces all of its earlier
// rows so re-running a video never leaves stale frames behind.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/vibescout/scoreboard-ocr/internal/dataset"
	"github.com/vibescout/scoreboard-ocr/internal/scoreboard"
)

// Sink receives a completed dataset.
type Sink interface {
	Name() string
	Export(ctx context.Context, d *dataset.Dataset, runID string) error
	Close() error
}

// Row is one exported frame score.
type Row struct {
	Match    string
	Alliance scoreboard.Alliance
	Frame    int
	Score    scoreboard.Reading
}

// Rows flattens a dataset into rows, ordered by match, alliance, frame.
func Rows(d *dataset.Dataset) []Row {
	var rows []Row
	for _, key := range d.Keys() {
		record, _ := d.Get(key)
		for _, alliance := range scoreboard.Alliances {
			for _, entry := range record.Alliance(alliance).Entries() {
				rows = append(rows, Row{Match: key, Alliance: alliance, Frame: entry.Frame, Score: entry.Value})
			}
		}
	}
	return rows
}

// CloseAll closes every sink and joins their errors.
func CloseAll(sinks []Sink) error {
	var errs []error
	for _, sink := range sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", sink.Name(), err))
		}
	}
	return errors.Join(errs...)
}
