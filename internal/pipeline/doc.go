// Package pipeline drives a full scoreboard OCR run.
//
// Videos are processed one at a time: extract frames, recognize digits on a
// bounded pool, repair gaps, and record the match. A failing video is logged
// and skipped. After the loop the dataset is written atomically and handed
// to the configured export sinks.
//
// Only one run may write a given output file at a time; a lock file next to
// the output enforces that.
package pipeline
