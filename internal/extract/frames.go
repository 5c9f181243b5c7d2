package extract

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/vibescout/scoreboard-ocr/internal/scoreboard"
)

// ListFrames returns the frames in dir whose file name is an integer stem
// with the given extension, ordered by index.
func ListFrames(dir, ext string) ([]scoreboard.Frame, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list frames: %w", err)
	}
	suffix := "." + strings.TrimPrefix(strings.ToLower(ext), ".")

	var frames []scoreboard.Frame
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(strings.ToLower(name), suffix) {
			continue
		}
		index, err := strconv.Atoi(name[:len(name)-len(suffix)])
		if err != nil || index < 0 {
			continue
		}
		frames = append(frames, scoreboard.Frame{Index: index, Path: filepath.Join(dir, name)})
	}
	sort.Slice(frames, func(i, j int) bool { return frames[i].Index < frames[j].Index })
	return frames, nil
}

// clearFrames removes files left in dir by an earlier extraction.
func clearFrames(dir, ext string) (int, error) {
	frames, err := ListFrames(dir, ext)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	for _, frame := range frames {
		if err := os.Remove(frame.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("remove stale frame: %w", err)
		}
	}
	return len(frames), nil
}
