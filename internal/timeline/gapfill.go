package timeline

import "github.com/vibescout/scoreboard-ocr/internal/scoreboard"

// GapFill repairs OCR dropouts in one alliance's raw readings.
//
// Frames are visited in ascending index order starting after the lowest
// observed index. An Unreadable frame takes the already repaired value of the
// frame immediately before it (index-1) when that frame exists; otherwise the
// sentinel stays. The scoreboard is assumed never to reset mid-match, so a
// dropout is a transient visual glitch and the last known value persists.
//
// The result contains exactly the input's frame indices. Applying GapFill to
// its own output changes nothing.
func GapFill(raw map[int]scoreboard.Reading) Timeline {
	t := FromMap(raw)
	for i := 1; i < len(t.entries); i++ {
		cur := &t.entries[i]
		if cur.Value != scoreboard.Unreadable {
			continue
		}
		prev := t.entries[i-1]
		if prev.Frame != cur.Frame-1 {
			continue
		}
		cur.Value = prev.Value
	}
	return t
}
