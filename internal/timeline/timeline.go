// Package timeline builds each tile's ordered, transition-joined clip
// sequence and aligns all tiles to a common duration by looping.
package timeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/backmassage/tilemaster/internal/config"
	"github.com/backmassage/tilemaster/internal/source"
)

// ErrTransitionTooLong reports a transition duration exceeding the shorter
// of the two clips it joins. This is rejected at plan time, never clamped.
var ErrTransitionTooLong = errors.New("transition longer than adjacent clip")

// alignEpsilon is the duration slack below which a tile counts as already
// matching the longest tile, so float noise never forces a loop pass.
const alignEpsilon = 0.001

// Entry is one clip in a tile's sequence along with the transition that
// leads into it. The first entry always enters with a cut.
type Entry struct {
	Clip               source.Clip
	Transition         config.Transition
	TransitionDuration float64
}

// Timeline is one tile's fully ordered playback plan. Duration covers a
// single pass through Entries; when the tile is shorter than the longest
// tile in the composition, the whole pass is repeated LoopCount times and
// trimmed to TargetDuration (the last clip's tail is cut).
type Timeline struct {
	Entries        []Entry
	Duration       float64
	LoopCount      int
	TargetDuration float64
}

// Build constructs a tile's timeline from its ordered clips. All entries
// past the first enter via trans/transDur; a cut contributes no overlap,
// fade and fadeblack shrink the total by transDur per joint. previewLimit
// > 0 keeps only the first previewLimit clips. Returns an error wrapping
// source.ErrNoVideos for an empty clip list and ErrTransitionTooLong when
// a joint's overlap exceeds either adjacent clip.
func Build(clips []source.Clip, trans config.Transition, transDur float64, previewLimit int) (*Timeline, error) {
	if len(clips) == 0 {
		return nil, fmt.Errorf("%w for tile", source.ErrNoVideos)
	}
	if previewLimit > 0 && len(clips) > previewLimit {
		clips = clips[:previewLimit]
	}

	// A single clip has no joints, so the transition degrades to a cut.
	if len(clips) == 1 {
		trans, transDur = config.TransitionCut, 0
	}

	tl := &Timeline{
		Entries:   make([]Entry, 0, len(clips)),
		LoopCount: 1,
	}

	for i, c := range clips {
		e := Entry{Clip: c, Transition: config.TransitionCut}
		if i > 0 {
			e.Transition = trans
			e.TransitionDuration = transDur
		}

		if i > 0 && trans != config.TransitionCut {
			prev := clips[i-1]
			if transDur > prev.Duration || transDur > c.Duration {
				return nil, fmt.Errorf("%w: %.2fs joint between %q (%.2fs) and %q (%.2fs)",
					ErrTransitionTooLong, transDur, prev.Name(), prev.Duration, c.Name(), c.Duration)
			}
			tl.Duration -= transDur
		}
		tl.Duration += c.Duration

		tl.Entries = append(tl.Entries, e)
	}

	tl.TargetDuration = tl.Duration
	return tl, nil
}

// Align extends every tile to the longest tile's duration: a shorter tile
// repeats its whole playlist (same transition pattern) until it reaches at
// least the maximum, then is trimmed to exactly that duration. Tiles
// already at the maximum keep LoopCount 1.
func Align(tiles []*Timeline) {
	max := 0.0
	for _, t := range tiles {
		if t.Duration > max {
			max = t.Duration
		}
	}

	for _, t := range tiles {
		t.TargetDuration = max
		if t.Duration <= 0 || t.Duration >= max-alignEpsilon {
			t.LoopCount = 1
			continue
		}
		t.LoopCount = int(math.Ceil(max / t.Duration))
	}
}
