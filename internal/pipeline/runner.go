// Package pipeline orchestrates a composition run: folder resolution, clip
// discovery, duration probing, planning, and the render itself.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/backmassage/tilemaster/internal/config"
	"github.com/backmassage/tilemaster/internal/display"
	"github.com/backmassage/tilemaster/internal/ffmpeg"
	"github.com/backmassage/tilemaster/internal/planner"
	"github.com/backmassage/tilemaster/internal/probe"
	"github.com/backmassage/tilemaster/internal/source"
)

// Options carries everything a run needs beyond the persisted settings.
type Options struct {
	Settings *config.CompositionSettings

	// SettingsStore, when set, receives the effective settings (with any
	// CLI overrides applied) after a successful render. Nil disables
	// persistence.
	SettingsStore *config.Store

	// CLI overrides; zero values keep the settings document's choices.
	OutputPath string
	Width      int
	Height     int
	Preview    bool
	Seed       *int64

	DryRun  bool
	Verbose bool

	// Environment.
	SrcRoot       string // conventional folder lookup root (default "src")
	FFmpegBinary  string
	FFprobeBinary string
	CacheDir      string // persistent probe cache location; empty disables
}

// maxFolderNameChars caps the folder-derived portion of the default
// output filename.
const maxFolderNameChars = 100

// Run executes one full composition: resolve -> discover -> probe ->
// plan -> render. All validation errors surface before the first ffmpeg
// render pass; a render failure is terminal and leaves no output file.
func Run(ctx context.Context, opts Options, logger *log.Logger) (*RunStats, error) {
	start := time.Now()
	settings := *opts.Settings
	if opts.Width > 0 {
		settings.Resolution.Width = opts.Width
	}
	if opts.Height > 0 {
		settings.Resolution.Height = opts.Height
	}

	// --- Resolve tile folders ---
	resolver := source.Resolver{SrcRoot: opts.SrcRoot}
	folders := make([]string, len(settings.Tiles))
	for i, tc := range settings.Tiles {
		dir, err := resolver.Resolve(tc.Folder)
		if err != nil {
			return nil, err
		}
		folders[i] = dir
	}

	// --- Discover clips per unique folder ---
	inv := planner.Inventory{}
	for _, dir := range folders {
		if _, ok := inv[dir]; ok {
			continue
		}
		clips, err := source.Discover(dir)
		if err != nil {
			return nil, err
		}
		inv[dir] = clips
		logger.Debug("discovered clips", "folder", dir, "count", len(clips))
	}

	// --- Probe durations ---
	if err := probeInventory(ctx, opts, inv, logger); err != nil {
		return nil, err
	}

	// --- Plan ---
	plan, err := planner.BuildPlan(&settings, folders, inv, planner.Options{
		Preview: opts.Preview,
		Seed:    opts.Seed,
	})
	if err != nil {
		return nil, err
	}

	for _, t := range plan.Tiles {
		logger.Info("tile planned",
			"tile", t.Index+1,
			"rect", fmt.Sprintf("%dx%d+%d+%d", t.Rect.Width, t.Rect.Height, t.Rect.X, t.Rect.Y),
			"clips", len(t.Timeline.Entries),
			"duration", display.FormatSeconds(t.Timeline.Duration),
			"loops", t.Timeline.LoopCount,
		)
	}
	logger.Info("composition planned",
		"layout", plan.Layout,
		"canvas", fmt.Sprintf("%dx%d", plan.CanvasWidth, plan.CanvasHeight),
		"duration", display.FormatSeconds(plan.Duration()),
		"audio-tile", plan.AudioTile+1,
	)

	// --- Render ---
	output := opts.OutputPath
	if output == "" {
		output = defaultOutputPath(settings.Layout, folders)
		logger.Info("output path", "path", output)
	}

	directives, err := ffmpeg.Build(plan, ffmpeg.Options{
		Binary:     opts.FFmpegBinary,
		OutputPath: output,
		WorkDir:    filepath.Join(os.TempDir(), "tilemaster-"+uuid.NewString()),
	})
	if err != nil {
		return nil, err
	}

	exec := &ffmpeg.Executor{Log: logger, DryRun: opts.DryRun, Verbose: opts.Verbose}
	if err := exec.Run(ctx, directives); err != nil {
		return nil, err
	}

	// Persist the effective settings after a real render, so overrides
	// carry over to the next run. A failed save never fails the run; the
	// output file already exists.
	if opts.SettingsStore != nil && !opts.DryRun {
		if opts.Preview {
			settings.PreviewMode = true
		}
		if err := opts.SettingsStore.Save(&settings); err != nil {
			logger.Warn("could not save settings", "path", opts.SettingsStore.Path, "err", err)
		} else {
			logger.Debug("settings saved", "path", opts.SettingsStore.Path)
		}
	}

	stats := &RunStats{
		Tiles:          len(plan.Tiles),
		Clips:          plan.ClipCount(),
		OutputDuration: plan.Duration(),
		OutputPath:     output,
		Elapsed:        time.Since(start),
	}
	return stats, nil
}

// probeInventory fills clip durations in place, probing in parallel with a
// per-run memo and, when a cache directory is configured, a persistent
// sqlite cache keyed by file identity.
func probeInventory(ctx context.Context, opts Options, inv planner.Inventory, logger *log.Logger) error {
	var cache *probe.Cache
	if opts.CacheDir != "" {
		c, err := probe.OpenCache(filepath.Join(opts.CacheDir, "probecache.db"))
		if err != nil {
			logger.Warn("probe cache unavailable, probing without it", "err", err)
		} else {
			cache = c
			defer cache.Close()
		}
	}

	prober := probe.NewProber(opts.FFprobeBinary, cache)

	var targets []probe.Target
	for _, clips := range inv {
		for i := range clips {
			targets = append(targets, probe.Target{Path: clips[i].Path, Duration: &clips[i].Duration})
		}
	}

	logger.Debug("probing clips", "count", len(targets))
	return prober.FillDurations(ctx, targets)
}

// defaultOutputPath derives output/<layout>_<folder names>.mp4 from the
// resolved tile folders, capping the folder-name portion.
func defaultOutputPath(l config.Layout, folders []string) string {
	seen := map[string]bool{}
	var names []string
	for _, f := range folders {
		name := filepath.Base(f)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	joined := strings.Join(names, "_")
	if len(joined) > maxFolderNameChars {
		joined = joined[:maxFolderNameChars]
	}
	return filepath.Join("output", fmt.Sprintf("%s_%s.mp4", l, joined))
}
