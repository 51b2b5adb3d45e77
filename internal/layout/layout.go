// Package layout computes tile rectangles for each named layout. All
// arithmetic is integer; remainder pixels from uneven divisions are
// absorbed by the last row and column so the union always covers the
// canvas exactly.
package layout

import (
	"fmt"

	"github.com/backmassage/tilemaster/internal/config"
)

// Rect is one tile's region on the output canvas.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Area returns the rect's area in pixels.
func (r Rect) Area() int {
	return r.Width * r.Height
}

// pipInset is the margin between the PiP overlay tile and the canvas edge.
const pipInset = 20

// Rects returns the tile rectangles for l on a canvasW x canvasH canvas,
// ordered by tile index. Every layout except pip tiles the canvas exactly
// with no gaps or overlaps; pip's second rect intentionally overlays the
// first.
func Rects(l config.Layout, canvasW, canvasH int) ([]Rect, error) {
	if canvasW <= 0 || canvasH <= 0 {
		return nil, fmt.Errorf("invalid canvas %dx%d", canvasW, canvasH)
	}

	if rows, cols, ok := l.Grid(); ok {
		return grid(rows, cols, canvasW, canvasH), nil
	}

	halfW, restW := canvasW/2, canvasW-canvasW/2
	halfH, restH := canvasH/2, canvasH-canvasH/2

	switch l {
	case config.LayoutPiP:
		pipW, pipH := canvasW/4, canvasH/4
		return []Rect{
			{0, 0, canvasW, canvasH},
			{canvasW - pipW - pipInset, pipInset, pipW, pipH},
		}, nil

	case config.Layout1p2:
		return []Rect{
			{0, 0, halfW, canvasH},
			{halfW, 0, restW, halfH},
			{halfW, halfH, restW, restH},
		}, nil

	case config.Layout2p1:
		return []Rect{
			{0, 0, halfW, halfH},
			{0, halfH, halfW, restH},
			{halfW, 0, restW, canvasH},
		}, nil

	case config.Layout1p3:
		colW := canvasW / 3
		return []Rect{
			{0, 0, canvasW, halfH},
			{0, halfH, colW, restH},
			{colW, halfH, colW, restH},
			{2 * colW, halfH, canvasW - 2*colW, restH},
		}, nil
	}

	return nil, fmt.Errorf("unrecognized layout %q", l)
}

// grid divides the canvas into rows x cols rectangles in row-major tile
// order. The last column and row take the division remainder.
func grid(rows, cols, canvasW, canvasH int) []Rect {
	cellW := canvasW / cols
	cellH := canvasH / rows

	rects := make([]Rect, 0, rows*cols)
	for r := 0; r < rows; r++ {
		h := cellH
		if r == rows-1 {
			h = canvasH - cellH*(rows-1)
		}
		for c := 0; c < cols; c++ {
			w := cellW
			if c == cols-1 {
				w = canvasW - cellW*(cols-1)
			}
			rects = append(rects, Rect{X: c * cellW, Y: r * cellH, Width: w, Height: h})
		}
	}
	return rects
}
