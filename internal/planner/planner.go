// Package planner assembles the render plan: clip distribution, tile
// geometry, per-tile timelines, and audio selection. Everything here is
// pure decision-making; all validation errors surface before a single
// ffmpeg process is spawned.
package planner

import (
	"errors"
	"fmt"

	"github.com/backmassage/tilemaster/internal/config"
	"github.com/backmassage/tilemaster/internal/distribute"
	"github.com/backmassage/tilemaster/internal/layout"
	"github.com/backmassage/tilemaster/internal/source"
	"github.com/backmassage/tilemaster/internal/timeline"
)

// ErrAudioTileRange reports an audio source index outside the tile range.
var ErrAudioTileRange = errors.New("audio source tile index out of range")

// PreviewClipLimit is the per-tile clip cap in preview mode.
const PreviewClipLimit = 3

// Inventory maps a resolved folder path to its ordered, probed clips.
type Inventory map[string][]source.Clip

// Options carries per-run planner inputs that are not part of the
// persisted settings.
type Options struct {
	Preview bool   // limit each tile to its first PreviewClipLimit clips
	Seed    *int64 // deterministic Random distribution when set
}

// BuildPlan produces a complete RenderPlan.
//
// Flow:
//  1. Validate the audio source tile index
//  2. Assign clips per tile, distributing any folder shared by two or
//     more tiles so each clip lands in exactly one tile
//  3. Compute tile rectangles for the layout and canvas
//  4. Build per-tile timelines (honoring preview mode) and align durations
//  5. Assemble the RenderPlan
//
// folders holds each tile's resolved folder path, in tile order; inv holds
// the discovered, probed clips per resolved folder.
func BuildPlan(settings *config.CompositionSettings, folders []string, inv Inventory, opts Options) (*RenderPlan, error) {
	tileCount := settings.Layout.TileCount()
	if len(folders) != tileCount {
		return nil, fmt.Errorf("layout %s requires %d folders, got %d", settings.Layout, tileCount, len(folders))
	}

	// --- 1. Audio source ---
	audio := settings.AudioSourceTileIndex
	if audio < 0 || audio >= tileCount {
		return nil, fmt.Errorf("%w: %d (layout %s has %d tiles)", ErrAudioTileRange, audio, settings.Layout, tileCount)
	}

	// --- 2. Clip assignment ---
	perTile, err := assignClips(settings, folders, inv, opts.Seed)
	if err != nil {
		return nil, err
	}

	// --- 3. Geometry ---
	rects, err := layout.Rects(settings.Layout, settings.Resolution.Width, settings.Resolution.Height)
	if err != nil {
		return nil, err
	}

	// --- 4. Timelines ---
	previewLimit := 0
	if opts.Preview || settings.PreviewMode {
		previewLimit = PreviewClipLimit
	}

	timelines := make([]*timeline.Timeline, tileCount)
	for i := 0; i < tileCount; i++ {
		tc := settings.Tiles[i]
		tl, err := timeline.Build(perTile[i], tc.TransitionType, tc.TransitionDuration, previewLimit)
		if err != nil {
			return nil, fmt.Errorf("tile %d (%s): %w", i+1, tc.Folder, err)
		}
		timelines[i] = tl
	}
	timeline.Align(timelines)

	// --- 5. Assemble ---
	plan := &RenderPlan{
		Layout:       settings.Layout,
		CanvasWidth:  settings.Resolution.Width,
		CanvasHeight: settings.Resolution.Height,
		Tiles:        make([]TilePlan, tileCount),
		AudioTile:    audio,
	}
	for i := 0; i < tileCount; i++ {
		plan.Tiles[i] = TilePlan{
			Index:    i,
			Rect:     rects[i],
			Timeline: timelines[i],
			FitMode:  settings.FitMode,
			Anchor:   settings.Tiles[i].CropAnchor,
			Audio:    i == audio,
		}
	}
	return plan, nil
}

// assignClips maps each tile to its clip list. Folders referenced by two
// or more tiles are partitioned under the configured distribution mode
// (default round-robin) so every clip appears in exactly one of the
// sharing tiles; a folder used by a single tile contributes its full
// ordered clip set.
func assignClips(settings *config.CompositionSettings, folders []string, inv Inventory, seed *int64) ([][]source.Clip, error) {
	// Group tile indices by resolved folder, preserving tile order.
	groups := make(map[string][]int)
	for i, f := range folders {
		groups[f] = append(groups[f], i)
	}

	perTile := make([][]source.Clip, len(folders))
	for folder, tiles := range groups {
		clips, ok := inv[folder]
		if !ok {
			return nil, fmt.Errorf("no clip inventory for folder %q", folder)
		}

		if len(tiles) == 1 {
			perTile[tiles[0]] = clips
			continue
		}

		parts, err := distribute.Distribute(clips, len(tiles), settings.DistributionMode, seed)
		if err != nil {
			return nil, fmt.Errorf("distribute %q across %d tiles: %w", folder, len(tiles), err)
		}
		for k, tileIdx := range tiles {
			perTile[tileIdx] = parts[k]
		}
	}
	return perTile, nil
}
