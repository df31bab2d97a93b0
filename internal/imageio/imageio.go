// Package imageio writes rendered frames and animations to disk.
package imageio

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
)

// Format is an output image format.
type Format string

const (
	PNG  Format = "png"
	WebP Format = "webp"
	TGA  Format = "tga"
	GIF  Format = "gif"
)

// ParseFormat accepts a still-image format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case PNG, WebP, TGA:
		return f, nil
	}
	return "", fmt.Errorf("imageio: unknown format %q", s)
}

// Ext returns the file extension for f, with the dot.
func (f Format) Ext() string { return "." + string(f) }

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case WebP:
		return nativewebp.Encode(w, img, nil)
	case TGA:
		return tga.Encode(w, img)
	}
	return fmt.Errorf("imageio: unknown format %q", f)
}

// Save writes img to path, creating parent directories.
func Save(path string, img image.Image, f Format) error {
	return writeFile(path, func(w io.Writer) error { return Encode(w, img, f) })
}

// SaveGIF writes frames as a looping GIF, delay in 1/100 s per frame.
// Frames are dithered onto the Plan 9 palette.
func SaveGIF(path string, frames []image.Image, delay int) error {
	if len(frames) == 0 {
		return fmt.Errorf("imageio: gif %s: no frames", path)
	}
	out := &gif.GIF{LoopCount: 0}
	for _, fr := range frames {
		p := image.NewPaletted(fr.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(p, p.Bounds(), fr, fr.Bounds().Min)
		out.Image = append(out.Image, p)
		out.Delay = append(out.Delay, delay)
	}
	return writeFile(path, func(w io.Writer) error { return gif.EncodeAll(w, out) })
}

// SaveAnimatedWebP writes frames as a looping lossless WebP animation,
// durationMS per frame.
func SaveAnimatedWebP(path string, frames []image.Image, durationMS uint) error {
	if len(frames) == 0 {
		return fmt.Errorf("imageio: webp %s: no frames", path)
	}
	ani := &nativewebp.Animation{
		Images:    frames,
		Durations: make([]uint, len(frames)),
		Disposals: make([]uint, len(frames)),
	}
	for i := range ani.Durations {
		ani.Durations[i] = durationMS
	}
	return writeFile(path, func(w io.Writer) error { return nativewebp.EncodeAll(w, ani, nil) })
}

func writeFile(path string, enc func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("imageio: mkdir: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}
	if err := enc(out); err != nil {
		out.Close()
		return fmt.Errorf("imageio: encode %s: %w", path, err)
	}
	return out.Close()
}
