package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/tilemaster/internal/config"
)

func TestRects2x2(t *testing.T) {
	rects, err := Rects(config.Layout2x2, 1920, 1080)
	require.NoError(t, err)
	assert.Equal(t, []Rect{
		{0, 0, 960, 540},
		{960, 0, 960, 540},
		{0, 540, 960, 540},
		{960, 540, 960, 540},
	}, rects)
}

func TestRects3x1RemainderGoesToLastColumn(t *testing.T) {
	rects, err := Rects(config.Layout3x1, 1920, 1080)
	require.NoError(t, err)
	require.Len(t, rects, 3)
	assert.Equal(t, Rect{0, 0, 640, 1080}, rects[0])
	assert.Equal(t, Rect{640, 0, 640, 1080}, rects[1])
	assert.Equal(t, Rect{1280, 0, 640, 1080}, rects[2])

	// Odd canvas width: last column absorbs the remainder pixel.
	rects, err = Rects(config.Layout3x1, 1921, 1080)
	require.NoError(t, err)
	assert.Equal(t, 641, rects[2].Width)
	assert.Equal(t, 1921, rects[2].X+rects[2].Width)
}

func TestRectsPiP(t *testing.T) {
	rects, err := Rects(config.LayoutPiP, 1920, 1080)
	require.NoError(t, err)
	require.Len(t, rects, 2)
	assert.Equal(t, Rect{0, 0, 1920, 1080}, rects[0])
	assert.Equal(t, Rect{1920 - 480 - 20, 20, 480, 270}, rects[1])
}

func TestRectsSpecialLayouts(t *testing.T) {
	tests := []struct {
		layout config.Layout
		want   []Rect
	}{
		{config.Layout1p2, []Rect{
			{0, 0, 960, 1080},
			{960, 0, 960, 540},
			{960, 540, 960, 540},
		}},
		{config.Layout2p1, []Rect{
			{0, 0, 960, 540},
			{0, 540, 960, 540},
			{960, 0, 960, 1080},
		}},
		{config.Layout1p3, []Rect{
			{0, 0, 1920, 540},
			{0, 540, 640, 540},
			{640, 540, 640, 540},
			{1280, 540, 640, 540},
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.layout), func(t *testing.T) {
			rects, err := Rects(tt.layout, 1920, 1080)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rects)
		})
	}
}

// Every non-overlay layout must cover the canvas exactly: tile areas sum
// to the canvas area and no two rects intersect.
func TestRectsCoverCanvas(t *testing.T) {
	canvases := [][2]int{{1920, 1080}, {1280, 720}, {1919, 1079}, {100, 100}}

	for _, l := range config.Layouts {
		if l == config.LayoutPiP {
			continue
		}
		for _, c := range canvases {
			rects, err := Rects(l, c[0], c[1])
			require.NoError(t, err)
			require.Len(t, rects, l.TileCount())

			total := 0
			for _, r := range rects {
				total += r.Area()
				assert.GreaterOrEqual(t, r.X, 0)
				assert.GreaterOrEqual(t, r.Y, 0)
				assert.LessOrEqual(t, r.X+r.Width, c[0])
				assert.LessOrEqual(t, r.Y+r.Height, c[1])
			}
			assert.Equal(t, c[0]*c[1], total, "layout %s on %dx%d", l, c[0], c[1])

			for i := 0; i < len(rects); i++ {
				for j := i + 1; j < len(rects); j++ {
					assert.False(t, overlaps(rects[i], rects[j]),
						"layout %s on %dx%d: tiles %d and %d overlap", l, c[0], c[1], i, j)
				}
			}
		}
	}
}

func overlaps(a, b Rect) bool {
	return a.X < b.X+b.Width && b.X < a.X+a.Width &&
		a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
}

func TestRectsInvalidCanvas(t *testing.T) {
	_, err := Rects(config.Layout2x2, 0, 1080)
	assert.Error(t, err)
	_, err = Rects(config.Layout2x2, 1920, -1)
	assert.Error(t, err)
}

func TestRectsUnknownLayout(t *testing.T) {
	_, err := Rects(config.Layout("5x5"), 1920, 1080)
	assert.Error(t, err)
}
