package scan

import (
	"github.com/signalnine/thirtyone/network"
)

const (
	weightMultiplier = 15.0
	biasWidth        = 4
)

// Evaluator renders every layer of net left to right: a block of In columns
// by Out rows of weights, then a bias strip. A legend runs along the bottom.
// An existing file at path is kept.
func Evaluator(path string, net *network.Network) (bool, error) {
	layers := net.Layers()
	w := 2*margin - padding
	h := 2*margin + gradientHeight
	for _, l := range layers {
		w += padding + l.In + 1 + biasWidth
		h = max(h, 2*margin+l.Out+padding+gradientHeight)
	}

	c := newCanvas(w, h)
	x0, y0 := margin, margin
	for _, l := range layers {
		for y := 0; y < l.Out; y++ {
			for x := 0; x < l.In; x++ {
				c.plot(x0+x, y0+y, float64(l.Weights[x*l.Out+y]), weightMultiplier)
			}
		}
		x0 += l.In + 1
		for y := 0; y < l.Out; y++ {
			idx := c.plot(x0, y0+y, float64(l.Bias[y]), weightMultiplier)
			for x := 1; x < biasWidth; x++ {
				c.img.SetColorIndex(x0+x, y0+y, idx)
			}
		}
		x0 += biasWidth + padding
	}
	c.legend()
	return c.save(path)
}
