package ocr

import (
	"strconv"
	"strings"

	"github.com/vibescout/scoreboard-ocr/internal/scoreboard"
)

// MaxScoreDigits bounds the significant digits of a plausible score. Longer
// runs are OCR noise, such as several glyphs read off the panel border.
const MaxScoreDigits = 6

// ParseDigits converts raw OCR output into a reading.
//
// Every character that is not an ASCII digit is removed and the remainder is
// parsed as a base-10 integer. An empty remainder, or one with more than
// MaxScoreDigits significant digits, yields scoreboard.Unreadable.
func ParseDigits(raw string) scoreboard.Reading {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if digits == "" {
		return scoreboard.Unreadable
	}
	if significant := strings.TrimLeft(digits, "0"); len(significant) > MaxScoreDigits {
		return scoreboard.Unreadable
	}
	value, err := strconv.Atoi(digits)
	if err != nil {
		return scoreboard.Unreadable
	}
	return scoreboard.Reading(value)
}
