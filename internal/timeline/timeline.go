// Package timeline holds per-alliance score timelines and the temporal repair
// that fills OCR dropouts from the preceding frame.
package timeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/vibescout/scoreboard-ocr/internal/scoreboard"
)

// Entry is one frame of a timeline.
type Entry struct {
	Frame int
	Value scoreboard.Reading
}

// Timeline is a frame-ordered sequence of readings for one alliance.
//
// Entries are kept sorted by ascending frame index and frame indices are
// unique. The JSON form is an object keyed by frame index in ascending numeric
// order, which encoding/json cannot produce from a map.
type Timeline struct {
	entries []Entry
}

// FromMap builds a sorted timeline from an unordered frame mapping.
func FromMap(raw map[int]scoreboard.Reading) Timeline {
	entries := make([]Entry, 0, len(raw))
	for frame, value := range raw {
		entries = append(entries, Entry{Frame: frame, Value: value})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Frame < entries[j].Frame })
	return Timeline{entries: entries}
}

// Len returns the number of frames.
func (t Timeline) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the ordered entries.
func (t Timeline) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Values returns the readings in frame order.
func (t Timeline) Values() []scoreboard.Reading {
	values := make([]scoreboard.Reading, len(t.entries))
	for i, e := range t.entries {
		values[i] = e.Value
	}
	return values
}

// Map returns the timeline as an unordered frame mapping.
func (t Timeline) Map() map[int]scoreboard.Reading {
	out := make(map[int]scoreboard.Reading, len(t.entries))
	for _, e := range t.entries {
		out[e.Frame] = e.Value
	}
	return out
}

// Get returns the reading recorded for a frame.
func (t Timeline) Get(frame int) (scoreboard.Reading, bool) {
	i := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].Frame >= frame })
	if i < len(t.entries) && t.entries[i].Frame == frame {
		return t.entries[i].Value, true
	}
	return scoreboard.Unreadable, false
}

// Final returns the last valid reading, or Unreadable when none exists.
func (t Timeline) Final() scoreboard.Reading {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].Value.Valid() {
			return t.entries[i].Value
		}
	}
	return scoreboard.Unreadable
}

// Unreadable counts entries that still hold the sentinel.
func (t Timeline) Unreadable() int {
	count := 0
	for _, e := range t.entries {
		if !e.Value.Valid() {
			count++
		}
	}
	return count
}

// Leading counts the sentinel entries before the first valid reading.
func (t Timeline) Leading() int {
	for i, e := range t.entries {
		if e.Value.Valid() {
			return i
		}
	}
	return len(t.entries)
}

// MarshalJSON writes the timeline as {"<frame>": <value>, ...} in frame order.
func (t Timeline) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range t.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strconv.Itoa(e.Frame))
		buf.WriteString(`":`)
		buf.WriteString(strconv.Itoa(int(e.Value)))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses the object form written by MarshalJSON.
func (t *Timeline) UnmarshalJSON(data []byte) error {
	var raw map[string]scoreboard.Reading
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	frames := make(map[int]scoreboard.Reading, len(raw))
	for key, value := range raw {
		frame, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("timeline: invalid frame index %q", key)
		}
		frames[frame] = value
	}
	*t = FromMap(frames)
	return nil
}
