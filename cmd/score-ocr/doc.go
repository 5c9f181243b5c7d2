// Command score-ocr reads alliance scores off match recordings.
//
// It scans a directory of videos, crops the red and blue scoreboard regions
// at a fixed frame rate, recognizes the digits with Tesseract, repairs
// dropouts from the previous frame, and writes one JSON timeline per match.
// Results can also be exported to SQLite or PostgreSQL.
//
// Subcommands:
//
//	run        process every video in the configured directory
//	check      report ffmpeg, ffprobe and Tesseract availability
//	calibrate  snapshot one video and preview both scoreboard crops
//	config     create or print configuration
//	version    print build information
package main
