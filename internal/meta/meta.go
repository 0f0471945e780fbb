// Package meta extracts the embedded capture timestamp ("media created")
// from a video file. MP4/MOV containers are read directly via the moov/mvhd
// atom; everything else goes through an ffprobe creation_time tag lookup.
package meta

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoTimestamp is returned when the file carries no usable capture
// timestamp. Callers warn and skip the file; it is not a batch failure.
var ErrNoTimestamp = errors.New("no capture timestamp in file metadata")

// Creation returns the embedded capture time of the video at path, in UTC.
//
// For .mp4/.mov the mvhd atom is read straight from the file with a scoped
// handle, avoiding a subprocess per file. When the atom is missing or the
// container is something else (.mkv, .avi), a single ffprobe call reads the
// container-level creation_time tag.
func Creation(ctx context.Context, ffprobePath, path string) (time.Time, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".mov":
		t, err := mvhdCreation(path)
		if err == nil {
			return t, nil
		}
		if errors.Is(err, ErrNoTimestamp) {
			return time.Time{}, err
		}
		// Atom walk failed (fragmented or unusual layout); let ffprobe decide.
	}
	return ffprobeCreation(ctx, ffprobePath, path)
}

// ffprobeCreation reads the format-level creation_time tag via ffprobe.
func ffprobeCreation(ctx context.Context, ffprobePath, path string) (time.Time, error) {
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_entries", "format_tags=creation_time",
		"-i", path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return time.Time{}, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	var result struct {
		Format struct {
			Tags struct {
				CreationTime string `json:"creation_time"`
			} `json:"tags"`
		} `json:"format"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return time.Time{}, fmt.Errorf("parse ffprobe output for %q: %w", path, err)
	}

	return ParseCreationTimeTag(result.Format.Tags.CreationTime)
}

// Tag layouts seen in the wild: MP4/MOV muxers write RFC3339(.nano), older
// Matroska muxers write a plain space-separated form.
var tagLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseCreationTimeTag parses a creation_time tag value into a UTC time.
// Empty or unparseable values map to ErrNoTimestamp: a malformed tag means
// the file has no usable capture timestamp, which is a skip, not a failure.
func ParseCreationTimeTag(tag string) (time.Time, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return time.Time{}, ErrNoTimestamp
	}
	for _, layout := range tagLayouts {
		if t, err := time.Parse(layout, tag); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrNoTimestamp
}
