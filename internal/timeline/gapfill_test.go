package timeline

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/vibescout/scoreboard-ocr/internal/scoreboard"
)

const u = scoreboard.Unreadable

// seq builds a raw mapping with frames numbered from 1.
func seq(values ...scoreboard.Reading) map[int]scoreboard.Reading {
	out := make(map[int]scoreboard.Reading, len(values))
	for i, v := range values {
		out[i+1] = v
	}
	return out
}

func TestGapFill_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		in   []scoreboard.Reading
		want []scoreboard.Reading
	}{
		{"trailing dropouts carry forward", []scoreboard.Reading{7, u, u}, []scoreboard.Reading{7, 7, 7}},
		{"no dropouts unchanged", []scoreboard.Reading{0, 1, 2, 3}, []scoreboard.Reading{0, 1, 2, 3}},
		{"leading dropout has no predecessor", []scoreboard.Reading{u, 5}, []scoreboard.Reading{u, 5}},
		{"interior dropouts", []scoreboard.Reading{3, u, 4, u, u, 9}, []scoreboard.Reading{3, 3, 4, 4, 4, 9}},
		{"leading run then values", []scoreboard.Reading{u, u, u, 2, u}, []scoreboard.Reading{u, u, u, 2, 2}},
		{"all unreadable", []scoreboard.Reading{u, u, u}, []scoreboard.Reading{u, u, u}},
		{"zero is a real score", []scoreboard.Reading{0, u}, []scoreboard.Reading{0, 0}},
		{"empty", nil, []scoreboard.Reading{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GapFill(seq(tt.in...)).Values()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GapFill(%v): got %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestGapFill_MissingPredecessorIndex(t *testing.T) {
	raw := map[int]scoreboard.Reading{1: 4, 2: 5, 4: u, 5: u}
	got := GapFill(raw).Map()
	want := map[int]scoreboard.Reading{1: 4, 2: 5, 4: u, 5: u}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("frame 4 has no frame 3 to copy from: got %v, want %v", got, want)
	}
}

func TestGapFill_UnorderedInputSortedOutput(t *testing.T) {
	raw := map[int]scoreboard.Reading{10: u, 3: 1, 9: 2, 4: u, 8: u, 5: u, 6: u, 7: u}
	tl := GapFill(raw)

	prev := 0
	for _, e := range tl.Entries() {
		if e.Frame <= prev {
			t.Fatalf("entries not ascending: %d after %d", e.Frame, prev)
		}
		prev = e.Frame
	}
	if v, _ := tl.Get(8); v != 1 {
		t.Errorf("frame 8: got %v, want 1", v)
	}
	if v, _ := tl.Get(10); v != 2 {
		t.Errorf("frame 10: got %v, want 2", v)
	}
}

func randomRaw(r *rand.Rand, n int) map[int]scoreboard.Reading {
	raw := make(map[int]scoreboard.Reading, n)
	for i := 1; i <= n; i++ {
		if r.Intn(3) == 0 {
			raw[i] = u
		} else {
			raw[i] = scoreboard.Reading(r.Intn(200))
		}
	}
	return raw
}

func TestGapFill_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		raw := randomRaw(r, 1+r.Intn(60))
		filled := GapFill(raw)

		// Index preservation.
		if filled.Len() != len(raw) {
			t.Fatalf("trial %d: length changed %d -> %d", trial, len(raw), filled.Len())
		}
		for frame := range raw {
			if _, ok := filled.Get(frame); !ok {
				t.Fatalf("trial %d: frame %d dropped", trial, frame)
			}
		}

		// Sentinels only in a contiguous leading run.
		seenValid := false
		for _, e := range filled.Entries() {
			if e.Value.Valid() {
				seenValid = true
				continue
			}
			if seenValid {
				t.Fatalf("trial %d: sentinel at frame %d after a valid reading", trial, e.Frame)
			}
			if e.Value != u {
				t.Fatalf("trial %d: negative value %d is not the sentinel", trial, e.Value)
			}
		}

		// Valid input values are never altered.
		for frame, v := range raw {
			if v.Valid() {
				if got, _ := filled.Get(frame); got != v {
					t.Fatalf("trial %d: valid frame %d changed %v -> %v", trial, frame, v, got)
				}
			}
		}

		// Idempotence.
		again := GapFill(filled.Map())
		if !reflect.DeepEqual(again.Entries(), filled.Entries()) {
			t.Fatalf("trial %d: second pass changed the timeline", trial)
		}
	}
}
