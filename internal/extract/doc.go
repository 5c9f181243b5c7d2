// Package extract turns a match video into per-alliance scoreboard frames.
//
// Each video is probed with ffprobe, both scoreboard regions are validated
// against the probed resolution, and ffmpeg samples the cropped regions at a
// fixed rate into <matchDir>/<alliance>/<NNN>.<ext>. The two alliances are
// extracted concurrently.
//
// Normalization (grayscale, invert, contrast, desaturate, threshold) runs in
// one of two modes:
//
//   - ffmpeg: the whole chain is part of the ffmpeg filtergraph.
//   - native: ffmpeg only crops and samples; frames are then normalized in
//     process with the imaging package. This mode also allows an optional
//     color sanity check of the raw crops.
//
// Failures are wrapped with ErrProbe, ErrGeometry, ErrExtract or ErrNoFrames.
package extract
