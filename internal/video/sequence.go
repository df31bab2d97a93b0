// Package video turns a numbered image sequence into per-cell brightness
// frames that drive the prism grid.
package video

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FramePath returns the path of the n-th frame (1-based, ffmpeg style).
func FramePath(dir string, n int) string {
	return filepath.Join(dir, fmt.Sprintf("f%04d.png", n))
}

// Sequence is a decoded clip sampled on a Width×Height grid.
type Sequence struct {
	Width  int
	Height int
	frames [][]float32
}

// Load reads f0001.png, f0002.png, ... from dir until the first missing
// file. A directory with no first frame is an error.
func Load(dir string, w, h int) (*Sequence, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("video: invalid grid %dx%d", w, h)
	}
	seq := &Sequence{Width: w, Height: h}
	for n := 1; ; n++ {
		path := FramePath(dir, n)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			break
		}
		img, err := LoadFrame(path)
		if err != nil {
			return nil, err
		}
		seq.frames = append(seq.frames, Luminance(img, w, h))
	}
	if len(seq.frames) == 0 {
		return nil, fmt.Errorf("video: no frames in %s", dir)
	}
	return seq, nil
}

// Len returns the number of frames.
func (s *Sequence) Len() int { return len(s.frames) }

// FrameIndex maps a playback time to a frame number. Times past the end
// hold the last frame.
func (s *Sequence) FrameIndex(t, fps float32) int {
	i := FrameIndex(t, fps)
	if i >= len(s.frames) {
		return len(s.frames) - 1
	}
	return i
}

// FrameIndex is floor(t·fps), clamped at zero.
func FrameIndex(t, fps float32) int {
	if t <= 0 || fps <= 0 {
		return 0
	}
	return int(t * fps)
}

// Value returns the brightness of cell (x, y) in frame n.
func (s *Sequence) Value(n, x, y int) float32 {
	return s.frames[n][y*s.Width+x]
}
