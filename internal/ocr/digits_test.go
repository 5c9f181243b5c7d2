package ocr

import (
	"testing"

	"github.com/vibescout/scoreboard-ocr/internal/scoreboard"
)

func TestParseDigits(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want scoreboard.Reading
	}{
		{"plain number", "42", 42},
		{"trailing newline", "42\n", 42},
		{"zero", "0", 0},
		{"leading zeros", "007", 7},
		{"spaces between digits", "1 2 3", 123},
		{"noise around digits", "|O8.\x0c", 8},
		{"empty", "", scoreboard.Unreadable},
		{"whitespace only", " \n\t", scoreboard.Unreadable},
		{"letters only", "OIl", scoreboard.Unreadable},
		{"non-ascii digits ignored", "٣", scoreboard.Unreadable},
		{"minus sign stripped", "-5", 5},
		{"overflow", "99999999999999999999999999", scoreboard.Unreadable},
		{"longest plausible score", "999999", 999999},
		{"too many digits", "40000000000", scoreboard.Unreadable},
		{"padded with zeros", "0000000123", 123},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDigits(tt.raw); got != tt.want {
				t.Errorf("ParseDigits(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseDigits_NeverNegativeExceptSentinel(t *testing.T) {
	inputs := []string{"-1", "--", "-0", "- 1 -", "1-2", "x"}
	for _, in := range inputs {
		got := ParseDigits(in)
		if got < 0 && got != scoreboard.Unreadable {
			t.Errorf("ParseDigits(%q) = %d, a negative non-sentinel value", in, got)
		}
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.Whitelist != DigitWhitelist {
		t.Errorf("Whitelist: got %q", opts.Whitelist)
	}
	if opts.PageSegMode != 6 || opts.Language != "eng" {
		t.Errorf("unexpected defaults: %+v", opts)
	}

	n := Options{PageSegMode: 42}.normalized()
	if n.PageSegMode != DefaultPageSegMode || n.Language != "eng" || n.Whitelist != DigitWhitelist {
		t.Errorf("normalized: got %+v", n)
	}
}
