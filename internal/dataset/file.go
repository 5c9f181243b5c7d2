package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultIndent matches the four-space layout of earlier score exports.
const DefaultIndent = 4

// Marshal renders the dataset as indented JSON. Match keys are sorted and
// frame keys ascend numerically.
func Marshal(d *Dataset, indent int) ([]byte, error) {
	if indent != 2 && indent != 4 {
		return nil, fmt.Errorf("dataset: unsupported indent %d (want 2 or 4)", indent)
	}
	// encoding/json sorts map keys, so the copy gives a stable match order.
	data, err := json.MarshalIndent(d.Matches(), "", strings.Repeat(" ", indent))
	if err != nil {
		return nil, fmt.Errorf("dataset: encode: %w", err)
	}
	return append(data, '\n'), nil
}

// Write serializes the dataset to path, replacing any previous file in full.
//
// The document is written to a temporary file in the same directory and
// renamed over path, so a failed write leaves the prior output untouched.
func Write(path string, d *Dataset, indent int) error {
	data, err := Marshal(d, indent)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("dataset: create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("dataset: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("dataset: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("dataset: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("dataset: close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("dataset: chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("dataset: replace %s: %w", path, err)
	}
	return nil
}

// Read parses a dataset file written by Write.
func Read(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read: %w", err)
	}
	var matches map[string]MatchRecord
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&matches); err != nil {
		return nil, fmt.Errorf("dataset: decode %s: %w", path, err)
	}
	d := New()
	for k, v := range matches {
		d.Add(k, v)
	}
	return d, nil
}
