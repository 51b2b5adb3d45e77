package planner

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/tilemaster/internal/config"
	"github.com/backmassage/tilemaster/internal/layout"
	"github.com/backmassage/tilemaster/internal/source"
	"github.com/backmassage/tilemaster/internal/timeline"
)

func folderClips(folder string, durations ...float64) []source.Clip {
	out := make([]source.Clip, len(durations))
	for i, d := range durations {
		out[i] = source.Clip{Path: fmt.Sprintf("/src/%s/clip_%02d.mp4", folder, i), Duration: d}
	}
	return out
}

func settings3x1() *config.CompositionSettings {
	s := &config.CompositionSettings{
		Layout: config.Layout3x1,
		Tiles: []config.TileConfig{
			{Folder: "nature"},
			{Folder: "city"},
			{Folder: "ocean"},
		},
	}
	s.ApplyDefaults()
	return s
}

func TestBuildPlan3x1(t *testing.T) {
	settings := settings3x1()
	folders := []string{"/src/nature", "/src/city", "/src/ocean"}
	inv := Inventory{
		"/src/nature": folderClips("nature", 10, 10), // 20s
		"/src/city":   folderClips("city", 30),       // 30s, longest
		"/src/ocean":  folderClips("ocean", 4, 4, 4), // 12s
	}

	plan, err := BuildPlan(settings, folders, inv, Options{})
	require.NoError(t, err)

	assert.Equal(t, config.Layout3x1, plan.Layout)
	assert.Equal(t, 1920, plan.CanvasWidth)
	assert.Equal(t, 1080, plan.CanvasHeight)
	require.Len(t, plan.Tiles, 3)

	// Geometry: three 640x1080 columns.
	assert.Equal(t, layout.Rect{X: 0, Y: 0, Width: 640, Height: 1080}, plan.Tiles[0].Rect)
	assert.Equal(t, layout.Rect{X: 640, Y: 0, Width: 640, Height: 1080}, plan.Tiles[1].Rect)
	assert.Equal(t, layout.Rect{X: 1280, Y: 0, Width: 640, Height: 1080}, plan.Tiles[2].Rect)

	// Alignment: longest tile is 30s; others loop to reach it.
	assert.InDelta(t, 30.0, plan.Duration(), 1e-9)
	assert.Equal(t, 2, plan.Tiles[0].Timeline.LoopCount) // 20s x2, trim to 30
	assert.Equal(t, 1, plan.Tiles[1].Timeline.LoopCount)
	assert.Equal(t, 3, plan.Tiles[2].Timeline.LoopCount) // 12s x3, trim to 30

	// Audio defaults to tile 0; exactly one tile carries it.
	assert.Equal(t, 0, plan.AudioTile)
	assert.True(t, plan.Tiles[0].Audio)
	assert.False(t, plan.Tiles[1].Audio)
	assert.False(t, plan.Tiles[2].Audio)

	assert.Equal(t, 6, plan.ClipCount())
}

func TestBuildPlanSharedFolderDistribution(t *testing.T) {
	settings := settings3x1()
	settings.Tiles[0].Folder = "mixed"
	settings.Tiles[1].Folder = "mixed"
	settings.Tiles[2].Folder = "solo"

	folders := []string{"/src/mixed", "/src/mixed", "/src/solo"}
	mixed := folderClips("mixed", 5, 5, 5, 5)
	inv := Inventory{
		"/src/mixed": mixed,
		"/src/solo":  folderClips("solo", 8),
	}

	plan, err := BuildPlan(settings, folders, inv, Options{})
	require.NoError(t, err)

	// Round-robin split of the shared folder across its two tiles.
	require.Len(t, plan.Tiles[0].Timeline.Entries, 2)
	require.Len(t, plan.Tiles[1].Timeline.Entries, 2)
	assert.Equal(t, mixed[0], plan.Tiles[0].Timeline.Entries[0].Clip)
	assert.Equal(t, mixed[2], plan.Tiles[0].Timeline.Entries[1].Clip)
	assert.Equal(t, mixed[1], plan.Tiles[1].Timeline.Entries[0].Clip)
	assert.Equal(t, mixed[3], plan.Tiles[1].Timeline.Entries[1].Clip)

	// The unshared folder keeps its full clip set.
	require.Len(t, plan.Tiles[2].Timeline.Entries, 1)
}

func TestBuildPlanPreviewLimit(t *testing.T) {
	settings := settings3x1()
	folders := []string{"/src/nature", "/src/city", "/src/ocean"}
	inv := Inventory{
		"/src/nature": folderClips("nature", 2, 2, 2, 2, 2),
		"/src/city":   folderClips("city", 3),
		"/src/ocean":  folderClips("ocean", 1, 1, 1, 1),
	}

	plan, err := BuildPlan(settings, folders, inv, Options{Preview: true})
	require.NoError(t, err)

	assert.Len(t, plan.Tiles[0].Timeline.Entries, PreviewClipLimit)
	assert.Len(t, plan.Tiles[1].Timeline.Entries, 1)
	assert.Len(t, plan.Tiles[2].Timeline.Entries, PreviewClipLimit)
}

func TestBuildPlanPersistedPreviewMode(t *testing.T) {
	settings := settings3x1()
	settings.PreviewMode = true
	folders := []string{"/src/nature", "/src/city", "/src/ocean"}
	inv := Inventory{
		"/src/nature": folderClips("nature", 2, 2, 2, 2),
		"/src/city":   folderClips("city", 3),
		"/src/ocean":  folderClips("ocean", 1),
	}

	plan, err := BuildPlan(settings, folders, inv, Options{})
	require.NoError(t, err)
	assert.Len(t, plan.Tiles[0].Timeline.Entries, PreviewClipLimit)
}

func TestBuildPlanAudioRange(t *testing.T) {
	settings := settings3x1()
	settings.AudioSourceTileIndex = 3
	folders := []string{"/src/nature", "/src/city", "/src/ocean"}
	inv := Inventory{
		"/src/nature": folderClips("nature", 1),
		"/src/city":   folderClips("city", 1),
		"/src/ocean":  folderClips("ocean", 1),
	}

	_, err := BuildPlan(settings, folders, inv, Options{})
	assert.ErrorIs(t, err, ErrAudioTileRange)
}

func TestBuildPlanFolderCountMismatch(t *testing.T) {
	settings := settings3x1()
	_, err := BuildPlan(settings, []string{"/src/nature"}, Inventory{}, Options{})
	assert.Error(t, err)
}

func TestBuildPlanMissingInventory(t *testing.T) {
	settings := settings3x1()
	folders := []string{"/src/nature", "/src/city", "/src/ocean"}
	inv := Inventory{
		"/src/nature": folderClips("nature", 1),
		"/src/city":   folderClips("city", 1),
	}

	_, err := BuildPlan(settings, folders, inv, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no clip inventory")
}

func TestBuildPlanTransitionErrorNamesTile(t *testing.T) {
	settings := settings3x1()
	settings.Tiles[1].TransitionType = config.TransitionFade
	settings.Tiles[1].TransitionDuration = 5.0

	folders := []string{"/src/nature", "/src/city", "/src/ocean"}
	inv := Inventory{
		"/src/nature": folderClips("nature", 10),
		"/src/city":   folderClips("city", 3, 3), // 5s fade > 3s clips
		"/src/ocean":  folderClips("ocean", 10),
	}

	_, err := BuildPlan(settings, folders, inv, Options{})
	require.ErrorIs(t, err, timeline.ErrTransitionTooLong)
	assert.Contains(t, err.Error(), "tile 2")
}
