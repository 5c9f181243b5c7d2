package extract

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vibescout/scoreboard-ocr/internal/scoreboard"
)

// FrameNamePattern is the ffmpeg output pattern for sequential frame files.
const FrameNamePattern = "%03d"

// CommandRunner executes an external binary and returns its combined output.
type CommandRunner func(ctx context.Context, binary string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	return cmd.CombinedOutput()
}

// EQContrast converts a contrast percentage (-100..100) into the factor taken
// by ffmpeg's eq filter, following the same curve as the in-process chain.
func EQContrast(percent float64) float64 {
	switch {
	case percent <= -100:
		return 0
	case percent < 0:
		return 1 + percent/100
	case percent >= 99.9:
		return 1000
	default:
		return math.Min(1000, 1/(1-percent/100))
	}
}

// Filtergraph builds the -vf argument for one region.
func Filtergraph(region scoreboard.Region, opts Options) string {
	parts := []string{
		fmt.Sprintf("crop=%d:%d:%d:%d", region.Width, region.Height, region.X, region.Y),
		"fps=" + formatFloat(opts.FPS),
	}
	if opts.FilterMode == FilterModeFFmpeg {
		parts = append(parts,
			"hue=s=0",
			"negate",
			"eq=contrast="+formatFloat(EQContrast(opts.Contrast)),
			fmt.Sprintf("lutyuv=y='if(gte(val,%d),255,0)':u=128:v=128", opts.Threshold),
			"format=gray",
		)
	}
	return strings.Join(parts, ",")
}

// FFmpegArgs builds the full argument list that samples one region of source
// into outDir.
func FFmpegArgs(source string, region scoreboard.Region, outDir string, opts Options) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-an",
		"-sn",
		"-dn",
		"-vf", Filtergraph(region, opts),
		"-start_number", strconv.Itoa(opts.StartNumber),
		"-f", "image2",
		filepath.Join(outDir, FrameNamePattern+"."+opts.ImageExt),
	}
}

// SnapshotArgs builds the argument list that grabs a single full frame at
// the given offset in seconds.
func SnapshotArgs(source string, offsetSeconds float64, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", formatFloat(offsetSeconds),
		"-i", source,
		"-frames:v", "1",
		dest,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
