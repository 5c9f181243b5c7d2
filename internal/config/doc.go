// Package config loads, normalizes, and validates score-ocr configuration.
//
// Settings come from a TOML file decoded over Default(). The file is looked up
// in order: the explicit --config path, ~/.config/score-ocr/config.toml, then
// ./score-ocr.toml. When none exists the defaults are used unchanged.
//
// Scoreboard geometry lives in named [profiles.<name>] tables so one install
// can process broadcasts with different framings; [extract].profile selects
// the active one.
package config
