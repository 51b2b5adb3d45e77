// Package config defines the composition settings document: typed enums,
// defaults, validation, and the JSON store that persists settings between
// runs.
package config

import (
	"errors"
	"fmt"
)

// --- Enum types for validated string fields ---

// Layout names the tile arrangement on the canvas.
type Layout string

const (
	Layout2x1 Layout = "2x1" // Two tiles side-by-side.
	Layout1x2 Layout = "1x2" // Two tiles stacked vertically.
	Layout2x2 Layout = "2x2" // Four tiles in a 2x2 grid.
	Layout3x1 Layout = "3x1" // Three tiles side-by-side.
	Layout1x3 Layout = "1x3" // Three tiles stacked vertically.
	Layout3x3 Layout = "3x3" // Nine tiles in a 3x3 grid.
	LayoutPiP Layout = "pip" // One full-canvas tile with a small overlay.
	Layout1p2 Layout = "1+2" // One large left, two stacked right.
	Layout2p1 Layout = "2+1" // Two stacked left, one large right.
	Layout1p3 Layout = "1+3" // One large top, three small bottom.
)

// Layouts lists every recognized layout in presentation order.
var Layouts = []Layout{
	Layout2x1, Layout1x2, Layout2x2, Layout3x1, Layout1x3,
	Layout3x3, LayoutPiP, Layout1p2, Layout2p1, Layout1p3,
}

// gridDims maps grid layouts to (rows, cols). Special layouts are absent.
var gridDims = map[Layout][2]int{
	Layout2x1: {1, 2},
	Layout1x2: {2, 1},
	Layout2x2: {2, 2},
	Layout3x1: {1, 3},
	Layout1x3: {3, 1},
	Layout3x3: {3, 3},
}

var tileCounts = map[Layout]int{
	Layout2x1: 2, Layout1x2: 2, Layout2x2: 4, Layout3x1: 3, Layout1x3: 3,
	Layout3x3: 9, LayoutPiP: 2, Layout1p2: 3, Layout2p1: 3, Layout1p3: 4,
}

// Valid reports whether l is a recognized layout.
func (l Layout) Valid() bool {
	_, ok := tileCounts[l]
	return ok
}

// TileCount returns the number of tiles the layout declares, or 0 for an
// unrecognized layout.
func (l Layout) TileCount() int {
	return tileCounts[l]
}

// Grid returns (rows, cols, true) for grid layouts and (0, 0, false) for
// the special layouts (pip, 1+2, 2+1, 1+3).
func (l Layout) Grid() (rows, cols int, ok bool) {
	d, ok := gridDims[l]
	return d[0], d[1], ok
}

// FitMode controls how a clip's frame is mapped into its tile rectangle.
type FitMode string

const (
	FitCrop    FitMode = "crop"    // Scale to cover, crop overflow (default).
	FitPad     FitMode = "pad"     // Scale to fit, pad with black bars.
	FitStretch FitMode = "stretch" // Scale both axes independently.
)

// Transition joins adjacent clips within a tile.
type Transition string

const (
	TransitionCut       Transition = "cut"       // Plain concatenation (default).
	TransitionFade      Transition = "fade"      // Alpha cross-dissolve.
	TransitionFadeBlack Transition = "fadeblack" // Fade out to black, fade in.
)

// CropAnchor selects which part of the frame survives a crop.
type CropAnchor string

const (
	AnchorCenter      CropAnchor = "center"
	AnchorTop         CropAnchor = "top"
	AnchorBottom      CropAnchor = "bottom"
	AnchorLeft        CropAnchor = "left"
	AnchorRight       CropAnchor = "right"
	AnchorTopLeft     CropAnchor = "top-left"
	AnchorTopRight    CropAnchor = "top-right"
	AnchorBottomLeft  CropAnchor = "bottom-left"
	AnchorBottomRight CropAnchor = "bottom-right"
)

var validAnchors = map[CropAnchor]bool{
	AnchorCenter: true, AnchorTop: true, AnchorBottom: true,
	AnchorLeft: true, AnchorRight: true, AnchorTopLeft: true,
	AnchorTopRight: true, AnchorBottomLeft: true, AnchorBottomRight: true,
}

// DistributionMode splits one shared source folder's clips across tiles.
type DistributionMode string

const (
	DistRoundRobin DistributionMode = "round-robin" // Clip i goes to tile i mod T.
	DistSequential DistributionMode = "sequential"  // Contiguous blocks in order.
	DistRandom     DistributionMode = "random"      // Shuffle, then contiguous blocks.
)

// --- Settings document ---

// Resolution is the output canvas size in pixels.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// TileConfig is the per-tile portion of the settings document.
type TileConfig struct {
	Folder             string     `json:"folder"`
	TransitionType     Transition `json:"transitionType"`
	TransitionDuration float64    `json:"transitionDuration"`
	CropAnchor         CropAnchor `json:"cropAnchor"`
}

// CompositionSettings is the persisted composition configuration. It is the
// unit the Store saves and loads; the planner consumes it as-is and never
// mutates it.
type CompositionSettings struct {
	Layout               Layout           `json:"layout"`
	FitMode              FitMode          `json:"fitMode"`
	Resolution           Resolution       `json:"resolution"`
	Tiles                []TileConfig     `json:"tiles"`
	AudioSourceTileIndex int              `json:"audioSourceTileIndex"`
	DistributionMode     DistributionMode `json:"distributionMode,omitempty"`
	PreviewMode          bool             `json:"previewMode"`
}

// Default canvas size applied when the document omits a resolution.
const (
	DefaultWidth  = 1920
	DefaultHeight = 1080
)

// ApplyDefaults fills unset optional fields in place: fit mode, canvas
// resolution, and per-tile transition/anchor. Required fields (layout,
// tiles, folders) are left for Validate to reject.
func (s *CompositionSettings) ApplyDefaults() {
	if s.FitMode == "" {
		s.FitMode = FitCrop
	}
	if s.Resolution.Width == 0 {
		s.Resolution.Width = DefaultWidth
	}
	if s.Resolution.Height == 0 {
		s.Resolution.Height = DefaultHeight
	}
	for i := range s.Tiles {
		if s.Tiles[i].TransitionType == "" {
			s.Tiles[i].TransitionType = TransitionCut
		}
		if s.Tiles[i].CropAnchor == "" {
			s.Tiles[i].CropAnchor = AnchorCenter
		}
	}
}

// Validate checks enum fields, the tile-count invariant, and the audio
// source index. Call after ApplyDefaults.
func (s *CompositionSettings) Validate() error {
	if !s.Layout.Valid() {
		return fmt.Errorf("unrecognized layout %q", s.Layout)
	}

	switch s.FitMode {
	case FitCrop, FitPad, FitStretch:
	default:
		return fmt.Errorf("invalid fit mode %q (use 'crop', 'pad', or 'stretch')", s.FitMode)
	}

	if s.Resolution.Width <= 0 || s.Resolution.Height <= 0 {
		return fmt.Errorf("invalid resolution %dx%d", s.Resolution.Width, s.Resolution.Height)
	}

	if want := s.Layout.TileCount(); len(s.Tiles) != want {
		return fmt.Errorf("layout %s requires %d tiles, settings define %d", s.Layout, want, len(s.Tiles))
	}

	for i, t := range s.Tiles {
		if t.Folder == "" {
			return fmt.Errorf("tile %d: folder must not be empty", i+1)
		}
		switch t.TransitionType {
		case TransitionCut, TransitionFade, TransitionFadeBlack:
		default:
			return fmt.Errorf("tile %d: invalid transition %q", i+1, t.TransitionType)
		}
		if t.TransitionDuration < 0 {
			return fmt.Errorf("tile %d: transition duration must not be negative", i+1)
		}
		if t.TransitionType != TransitionCut && t.TransitionDuration <= 0 {
			return fmt.Errorf("tile %d: transition %q requires a positive duration", i+1, t.TransitionType)
		}
		if !validAnchors[t.CropAnchor] {
			return fmt.Errorf("tile %d: invalid crop anchor %q", i+1, t.CropAnchor)
		}
	}

	if s.AudioSourceTileIndex < 0 || s.AudioSourceTileIndex >= len(s.Tiles) {
		return fmt.Errorf("audio source tile index %d out of range [0,%d)", s.AudioSourceTileIndex, len(s.Tiles))
	}

	switch s.DistributionMode {
	case "", DistRoundRobin, DistSequential, DistRandom:
	default:
		return fmt.Errorf("invalid distribution mode %q", s.DistributionMode)
	}

	return nil
}

// TransitionName returns the display name for a transition type.
func TransitionName(t Transition) string {
	switch t {
	case TransitionFade:
		return "Cross-Dissolve"
	case TransitionFadeBlack:
		return "Fade to Black"
	default:
		return "Simple Cut"
	}
}

// ErrSettingsCorrupt marks a settings document that exists but cannot be
// used: malformed JSON, an unrecognized layout, or a tile set that fails
// validation. Callers recover by discarding the document and proceeding
// as if none existed.
var ErrSettingsCorrupt = errors.New("settings document corrupt")
