// Package deps reports whether the external tools score-ocr shells out to
// are installed.
package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Requirement defines an external binary score-ocr relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Version     string
	Detail      string
}

// MediaRequirements lists the ffmpeg tools used for probing and extraction.
func MediaRequirements(ffmpegBinary, ffprobeBinary string) []Requirement {
	return []Requirement{
		{Name: "FFmpeg", Command: ffmpegBinary, Description: "Crops, samples and filters scoreboard frames"},
		{Name: "FFprobe", Command: ffprobeBinary, Description: "Reads video resolution before extraction"},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// ProbeVersions fills in Version for every available status by running
// "<command> -version" and keeping the first output line.
func ProbeVersions(ctx context.Context, statuses []Status) []Status {
	out := make([]Status, len(statuses))
	for i, status := range statuses {
		out[i] = status
		if !status.Available {
			continue
		}
		vctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		output, err := exec.CommandContext(vctx, status.Command, "-version").CombinedOutput() //nolint:gosec
		cancel()
		if err != nil {
			out[i].Detail = fmt.Sprintf("version check failed: %v", err)
			continue
		}
		line, _, _ := strings.Cut(strings.TrimSpace(string(output)), "\n")
		out[i].Version = strings.TrimSpace(line)
	}
	return out
}

// Missing returns the required dependencies that are not available.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}
