package scoreboard

// Frame is one sampled still image of one alliance's scoreboard region.
type Frame struct {
	// Index is the sequential frame number assigned by the extractor.
	Index int
	// Path is the normalized image file on disk.
	Path string
}

// FrameSet groups the extracted frames of a single video by alliance.
type FrameSet map[Alliance][]Frame

// Count returns the total number of frames across both alliances.
func (s FrameSet) Count() int {
	total := 0
	for _, frames := range s {
		total += len(frames)
	}
	return total
}
