package video

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Frame files are named with an eight-digit zero-padded sequence number so
// that sorting names as strings yields chronological order. Extraction,
// scheduling and reassembly all depend on this.
const (
	FramePrefix    = "frame"
	OutputPrefix   = "out_"
	SequenceDigits = 8
	DefaultExt     = "jpg"
)

// NormalizeExt lowercases ext and strips any leading dot.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// FramePattern is the printf pattern of extracted frames, e.g. frame%08d.jpg.
func FramePattern(ext string) string {
	return fmt.Sprintf("%s%%0%dd.%s", FramePrefix, SequenceDigits, NormalizeExt(ext))
}

// OutputPattern is the printf pattern of rendered frames, e.g. out_frame%08d.jpg.
func OutputPattern(ext string) string {
	return OutputPrefix + FramePattern(ext)
}

func FrameName(seq int, ext string) string {
	return fmt.Sprintf(FramePattern(ext), seq)
}

// OutputName maps a source frame name to its rendered counterpart.
func OutputName(frame string) string {
	return OutputPrefix + frame
}

// ListFrames returns the names of files in dir ending in ext, sorted
// lexicographically.
func ListFrames(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list frames: %w", err)
	}

	suffix := "." + NormalizeExt(ext)
	var frames []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), suffix) {
			frames = append(frames, entry.Name())
		}
	}
	sort.Strings(frames)
	return frames, nil
}

// ClearFrames deletes every file in dir ending in ext and returns how many
// were removed. A missing dir is not an error.
func ClearFrames(dir, ext string) (int, error) {
	frames, err := ListFrames(dir, ext)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, name := range frames {
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("remove frame: %w", err)
		}
		removed++
	}
	return removed, nil
}
