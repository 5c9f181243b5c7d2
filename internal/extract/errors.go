package extract

import "errors"

var (
	// ErrProbe reports that the video could not be inspected or has no video stream.
	ErrProbe = errors.New("probe video")
	// ErrGeometry reports that a scoreboard region does not fit the video frame.
	ErrGeometry = errors.New("region geometry")
	// ErrExtract reports an ffmpeg or frame normalization failure.
	ErrExtract = errors.New("extract frames")
	// ErrNoFrames reports that extraction produced no frames for an alliance.
	ErrNoFrames = errors.New("no frames extracted")
)
