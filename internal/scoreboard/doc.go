// Package scoreboard defines the domain values shared by the OCR pipeline:
// alliances, scoreboard regions, frames and score readings.
//
// # Readings
//
// A Reading is the outcome of recognizing one frame of one alliance. Valid
// scores are non-negative. The single negative value Unreadable (-1) marks a
// frame for which no digits could be recognized. It never collides with a real
// score, so it can be stored and serialized as a plain integer.
//
// # Regions
//
// Region coordinates are 0-based source-frame pixels with the origin at the
// top-left corner. A Layout pairs the red and blue regions measured for one
// venue's broadcast framing; layouts are selected from configuration rather
// than compiled in.
package scoreboard
