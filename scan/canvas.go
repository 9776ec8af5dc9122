// Package scan renders an evaluator's parameters and a genome's accumulated
// correlation matrix as 16-color palette images for inspection. Scans are
// purely diagnostic.
package scan

import (
	"bufio"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	margin         = 10
	padding        = 10
	gradientHeight = 50
)

// Palette maps color indices to colors. Index 0 is the background, 1 and 15
// mark values clamped below and above the range, and 2..14 run from negative
// through zero (8) to positive.
var Palette = color.Palette{
	rgb(0x000000),
	rgb(0xffffff), rgb(0xaef8db),
	rgb(0x2fedb7), rgb(0x00d1c8), rgb(0x00a2b8), rgb(0x007495), rgb(0x244966),
	rgb(0x202433),
	rgb(0x4a3659), rgb(0x89416d), rgb(0xc74e68), rgb(0xf26d4d), rgb(0xffa01c),
	rgb(0xfacf00), rgb(0xe1ff00),
}

func rgb(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// Index maps value·multiplier in [-1, 1] onto the thirteen palette steps
// 2..14, clamping to 1 and 15 outside the range.
func Index(value, multiplier float64) uint8 {
	rel := (value*multiplier + 1) * 0.5
	step := int(rel*12+1.499999) - 1
	switch {
	case step < 0:
		return 1
	case step > 12:
		return 15
	}
	return uint8(2 + step)
}

type canvas struct {
	img  *image.Paletted
	hist [16]int
}

func newCanvas(w, h int) *canvas {
	return &canvas{img: image.NewPaletted(image.Rect(0, 0, w, h), Palette)}
}

// plot colors one pixel by value and counts it in the histogram.
func (c *canvas) plot(x, y int, value, multiplier float64) uint8 {
	idx := Index(value, multiplier)
	c.hist[idx]++
	c.img.SetColorIndex(x, y, idx)
	return idx
}

// legend draws the reference gradient and the histogram bar along the
// bottom margin.
func (c *canvas) legend() {
	b := c.img.Bounds()
	x0 := margin
	y0 := b.Dy() - margin - gradientHeight
	w := b.Dx() - 2*margin
	h := gradientHeight/2 - 1
	if w <= 0 {
		return
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := y - gradientHeight/2
			if 2*x < w {
				d = -d
			}
			v := -1.2 + 2.4*float64(x+d)/float64(w)
			c.img.SetColorIndex(x0+x, y0+y, Index(v, 1))
		}
	}
	y0 += h + 1

	total := 0
	for _, n := range c.hist {
		total += n
	}
	if total == 0 {
		return
	}
	for idx, n := range c.hist {
		wide := ((w-len(c.hist))*n + total - 1) / total
		for y := 0; y < h; y++ {
			for x := 0; x < wide; x++ {
				c.img.SetColorIndex(x0+x, y0+y, uint8(idx))
			}
		}
		x0 += wide
	}
}

// save writes the image to path unless a file already exists there. It
// reports whether a file was written.
func (c *canvas) save(path string) (written bool, err error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, errors.Wrap(err, "create scan directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return false, errors.Wrapf(err, "create scan %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	bw := bufio.NewWriter(f)
	if err := png.Encode(bw, c.img); err != nil {
		return false, errors.Wrapf(err, "encode scan %s", path)
	}
	if err := bw.Flush(); err != nil {
		return false, err
	}
	return true, nil
}
