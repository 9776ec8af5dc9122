package scan

import (
	"github.com/pkg/errors"

	"github.com/signalnine/thirtyone/engine"
)

const (
	correlationMultiplier = 5.0
	separation            = 2
	meanWidth             = 5
)

// Correlation renders an accumulated output x input matrix, ActionSize rows
// of ViewSize columns, averaged over turns. Inputs and outputs are grouped in
// card-sized blocks; the last strip shows each output's mean. An existing
// file at path is kept.
func Correlation(path string, matrix []float64, turns int) (bool, error) {
	const cols, rows = engine.ViewSize, engine.ActionSize
	if len(matrix) != rows*cols {
		return false, errors.Errorf("correlation has %d values, want %d", len(matrix), rows*cols)
	}
	block := engine.NumCards + separation
	rowBlocks := (rows + engine.NumCards - 1) / engine.NumCards
	w := 2*margin + engine.NumViewSets*block + meanWidth
	h := 2*margin + rowBlocks*block + padding + gradientHeight

	c := newCanvas(w, h)
	turns = max(1, turns)
	offset := func(i int) int {
		return (i/engine.NumCards)*block + i%engine.NumCards
	}
	xMean := margin + engine.NumViewSets*block
	for y := 0; y < rows; y++ {
		var mean float64
		yy := margin + offset(y)
		for x := 0; x < cols; x++ {
			v := matrix[y*cols+x] / float64(turns)
			mean += v
			c.plot(margin+offset(x), yy, v, correlationMultiplier)
		}
		mean /= cols
		idx := c.plot(xMean, yy, mean, correlationMultiplier)
		for x := 1; x < meanWidth; x++ {
			c.img.SetColorIndex(xMean+x, yy, idx)
		}
	}
	c.legend()
	return c.save(path)
}
