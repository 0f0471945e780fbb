package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Supported video file extensions (lowercase, with leading dot).
var videoExtensions = map[string]bool{
	".mp4": true,
	".avi": true,
	".mkv": true,
	".mov": true,
}

// Discover lists inputDir (non-recursive) and returns the paths of entries
// with a recognized video extension, case-insensitive. Subdirectories and
// other files are ignored. The error wraps fs.ErrNotExist when the
// directory is missing. os.ReadDir returns entries sorted by filename, so
// processing order is deterministic.
func Discover(inputDir string) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("input directory %q: %w", inputDir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if videoExtensions[ext] {
			files = append(files, filepath.Join(inputDir, e.Name()))
		}
	}
	return files, nil
}
