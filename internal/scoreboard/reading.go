package scoreboard

import "strconv"

// Reading is a recognized score value for one frame, or Unreadable.
type Reading int

// Unreadable marks a frame whose digits could not be recognized.
const Unreadable Reading = -1

// Valid reports whether the reading holds a real score.
func (r Reading) Valid() bool {
	return r >= 0
}

func (r Reading) String() string {
	if r == Unreadable {
		return "unreadable"
	}
	return strconv.Itoa(int(r))
}
