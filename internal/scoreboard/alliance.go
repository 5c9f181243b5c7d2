package scoreboard

import (
	"fmt"
	"strings"
)

// Alliance identifies one of the two competing sides of a match.
type Alliance string

const (
	Red  Alliance = "red"
	Blue Alliance = "blue"
)

// Alliances lists both sides in output order.
var Alliances = []Alliance{Red, Blue}

// ParseAlliance converts a case-insensitive name into an Alliance.
func ParseAlliance(value string) (Alliance, error) {
	switch Alliance(strings.ToLower(strings.TrimSpace(value))) {
	case Red:
		return Red, nil
	case Blue:
		return Blue, nil
	default:
		return "", fmt.Errorf("unknown alliance %q", value)
	}
}

// String returns the alliance name as used in paths and output keys.
func (a Alliance) String() string {
	return string(a)
}
