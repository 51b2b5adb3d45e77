package planner

import (
	"github.com/backmassage/tilemaster/internal/config"
	"github.com/backmassage/tilemaster/internal/layout"
	"github.com/backmassage/tilemaster/internal/timeline"
)

// TilePlan holds one tile's fully resolved rendering decisions: where it
// sits on the canvas, what it plays, and how its clips are fitted.
type TilePlan struct {
	Index    int // 0-based tile index, matching settings order.
	Rect     layout.Rect
	Timeline *timeline.Timeline
	FitMode  config.FitMode
	Anchor   config.CropAnchor
	Audio    bool // True for exactly one tile; all others are muted.
}

// RenderPlan is the complete, geometry- and timing-resolved description of
// one composition run. It is built fresh per run and handed to the ffmpeg
// package; it is never persisted.
type RenderPlan struct {
	Layout       config.Layout
	CanvasWidth  int
	CanvasHeight int
	Tiles        []TilePlan
	AudioTile    int // index into Tiles
}

// Duration returns the composition's output duration: every tile is
// aligned to the same target, so any tile's target is the answer.
func (p *RenderPlan) Duration() float64 {
	if len(p.Tiles) == 0 {
		return 0
	}
	return p.Tiles[0].Timeline.TargetDuration
}

// ClipCount returns the total number of timeline entries across tiles,
// counting a looped playlist once.
func (p *RenderPlan) ClipCount() int {
	n := 0
	for _, t := range p.Tiles {
		n += len(t.Timeline.Entries)
	}
	return n
}
