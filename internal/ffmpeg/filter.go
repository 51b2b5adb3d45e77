package ffmpeg

import (
	"fmt"
	"strings"

	"github.com/backmassage/tilemaster/internal/config"
	"github.com/backmassage/tilemaster/internal/timeline"
)

// ScaleFilter returns the per-input video filter that maps a clip frame
// into a w x h tile under the given fit mode. Crop scales to cover and
// trims the overflow on the side opposite the anchor; pad scales to fit
// and centers between black bars; stretch ignores aspect ratio.
func ScaleFilter(w, h int, mode config.FitMode, anchor config.CropAnchor) string {
	switch mode {
	case config.FitPad:
		return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2", w, h, w, h)
	case config.FitStretch:
		return fmt.Sprintf("scale=%d:%d", w, h)
	default:
		return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase,%s", w, h, cropFilter(w, h, anchor))
	}
}

// cropFilter positions a w x h crop window inside the scaled frame
// according to the anchor: the named edge or corner of the frame is kept,
// center crops evenly from all sides.
func cropFilter(w, h int, anchor config.CropAnchor) string {
	x, y := "(iw-ow)/2", "(ih-oh)/2"
	switch anchor {
	case config.AnchorTop:
		y = "0"
	case config.AnchorBottom:
		y = fmt.Sprintf("ih-%d", h)
	case config.AnchorLeft:
		x = "0"
	case config.AnchorRight:
		x = fmt.Sprintf("iw-%d", w)
	case config.AnchorTopLeft:
		x, y = "0", "0"
	case config.AnchorTopRight:
		x, y = fmt.Sprintf("iw-%d", w), "0"
	case config.AnchorBottomLeft:
		x, y = "0", fmt.Sprintf("ih-%d", h)
	case config.AnchorBottomRight:
		x, y = fmt.Sprintf("iw-%d", w), fmt.Sprintf("ih-%d", h)
	case config.AnchorCenter:
		return fmt.Sprintf("crop=%d:%d", w, h)
	}
	return fmt.Sprintf("crop=%d:%d:%s:%s", w, h, x, y)
}

// tileFilterGraph builds the -filter_complex graph for a multi-clip tile
// pass: every input is scaled into the tile and its audio normalized, then
// the sequence is joined under the tile's transition type. The graph's
// outputs are labeled [outv] and [outa].
func tileFilterGraph(tl *timeline.Timeline, scale string) string {
	n := len(tl.Entries)
	var parts []string

	for i := range tl.Entries {
		parts = append(parts, fmt.Sprintf("[%d:v]%s,setsar=1,fps=%d[v%d]", i, scale, fps, i))
		parts = append(parts, fmt.Sprintf("[%d:a]%s[a%d]", i, audioFormat, i))
	}

	switch tl.Entries[1].Transition {
	case config.TransitionFade:
		parts = append(parts, transitionChain(tl, "fade")...)
	case config.TransitionFadeBlack:
		// fadeblack spends the first half fading out to black and the
		// second half fading in, inside the same overlap window, so the
		// duration contract matches the cross-dissolve case.
		parts = append(parts, transitionChain(tl, "fadeblack")...)
	default:
		var in strings.Builder
		for i := 0; i < n; i++ {
			fmt.Fprintf(&in, "[v%d][a%d]", i, i)
		}
		parts = append(parts, fmt.Sprintf("%sconcat=n=%d:v=1:a=1[outv][outa]", in.String(), n))
	}

	return strings.Join(parts, ";")
}

// transitionChain joins clips with an xfade/acrossfade chain. Each joint
// starts at the running sum of prior clip durations minus the accumulated
// overlap, so the transition covers the tail of one clip and the head of
// the next.
func transitionChain(tl *timeline.Timeline, kind string) []string {
	n := len(tl.Entries)
	d := tl.Entries[1].TransitionDuration

	offsets := make([]float64, n)
	for i := 1; i < n; i++ {
		offsets[i] = offsets[i-1] + tl.Entries[i-1].Clip.Duration - d
	}

	var parts []string
	curV, curA := "v0", "a0"
	for i := 1; i < n; i++ {
		nextV, nextA := fmt.Sprintf("x%dv", i), fmt.Sprintf("x%da", i)
		if i == n-1 {
			nextV, nextA = "outv", "outa"
		}
		parts = append(parts, fmt.Sprintf("[%s][v%d]xfade=transition=%s:duration=%g:offset=%.3f[%s]", curV, i, kind, d, offsets[i], nextV))
		parts = append(parts, fmt.Sprintf("[%s][a%d]acrossfade=d=%g[%s]", curA, i, d, nextA))
		curV, curA = nextV, nextA
	}
	return parts
}

// composeGraph builds the final stacking graph over the pre-scaled tile
// files. Non-overlapping layouts place every tile by absolute canvas
// position with xstack; pip overlays the inset tile above the full-canvas
// base. Output is labeled [outv].
func composeGraph(plan composeLayout) string {
	if plan.PiP {
		return fmt.Sprintf("[0:v][1:v]overlay=%d:%d[outv]", plan.Positions[1][0], plan.Positions[1][1])
	}

	pos := make([]string, len(plan.Positions))
	for i, p := range plan.Positions {
		pos[i] = fmt.Sprintf("%d_%d", p[0], p[1])
	}
	var in strings.Builder
	for i := range plan.Positions {
		fmt.Fprintf(&in, "[%d:v]", i)
	}
	return fmt.Sprintf("%sxstack=inputs=%d:layout=%s[outv]", in.String(), len(plan.Positions), strings.Join(pos, "|"))
}

// composeLayout is the geometry slice of the plan the compose pass needs.
type composeLayout struct {
	PiP       bool
	Positions [][2]int // tile index -> canvas x,y
}
