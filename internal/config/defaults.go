package config

import "github.com/vibescout/scoreboard-ocr/internal/scoreboard"

const (
	defaultVideosDir        = "matches"
	defaultFramesDir        = "frames"
	defaultOutputFile       = "data.json"
	defaultVideoExt         = ".m4v"
	defaultFPS              = 15
	defaultStartNumber      = 1
	defaultImageExt         = "png"
	defaultFilterMode       = "ffmpeg"
	defaultContrast         = 60
	defaultThreshold        = 128
	defaultProfile          = "frc-1080p"
	defaultExtractTimeout   = 600
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultOCRLanguage      = "eng"
	defaultPageSegMode      = 6
	defaultWhitelist        = "0123456789"
	defaultRecognizeTimeout = 30
	defaultIndent           = 4
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// DefaultLayout is the scoreboard geometry of a 1920x1080 FRC broadcast.
func DefaultLayout() scoreboard.Layout {
	return scoreboard.Layout{
		Red:          scoreboard.Region{X: 640, Y: 970, Width: 180, Height: 100},
		Blue:         scoreboard.Region{X: 1100, Y: 970, Width: 180, Height: 100},
		SourceWidth:  1920,
		SourceHeight: 1080,
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			VideosDir:  defaultVideosDir,
			FramesDir:  defaultFramesDir,
			OutputFile: defaultOutputFile,
		},
		Extract: Extract{
			VideoExt:       defaultVideoExt,
			FPS:            defaultFPS,
			StartNumber:    defaultStartNumber,
			ImageExt:       defaultImageExt,
			FilterMode:     defaultFilterMode,
			Contrast:       defaultContrast,
			Threshold:      defaultThreshold,
			Profile:        defaultProfile,
			TimeoutSeconds: defaultExtractTimeout,
			FFmpegBinary:   defaultFFmpegBinary,
			FFprobeBinary:  defaultFFprobeBinary,
			KeepFrames:     true,
		},
		Profiles: map[string]scoreboard.Layout{
			defaultProfile: DefaultLayout(),
		},
		OCR: OCR{
			Language:       defaultOCRLanguage,
			PageSegMode:    defaultPageSegMode,
			Whitelist:      defaultWhitelist,
			TimeoutSeconds: defaultRecognizeTimeout,
		},
		Output: Output{
			Indent: defaultIndent,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
