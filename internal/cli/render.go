package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/backmassage/tilemaster/internal/check"
	"github.com/backmassage/tilemaster/internal/config"
	"github.com/backmassage/tilemaster/internal/display"
	"github.com/backmassage/tilemaster/internal/pipeline"
)

// renderOpts holds the render command's flags.
type renderOpts struct {
	output  string
	width   int
	height  int
	preview bool
	dryRun  bool
	seed    int64
	seedSet bool
	noCache bool
}

func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the composition described by the saved settings",
		Long: `Render loads the saved composition settings, plans the tile layout,
clip ordering, transitions, and duration alignment, and invokes ffmpeg
to produce the final video. All validation runs before the first encode.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.seedSet = cmd.Flags().Changed("seed")
			return runRender(cmd, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default output/<layout>_<folders>.mp4)")
	cmd.Flags().IntVarP(&opts.width, "width", "w", 0, "override output width")
	cmd.Flags().IntVar(&opts.height, "height", 0, "override output height")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "quick test render using only the first 3 clips per tile")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "log the ffmpeg passes without executing them")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "seed for deterministic random distribution")
	cmd.Flags().BoolVar(&opts.noCache, "no-probe-cache", false, "disable the persistent clip-duration cache")

	return cmd
}

func runRender(cmd *cobra.Command, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	display.PrintBanner(os.Stdout)

	settings, store, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")

	if !opts.dryRun {
		if err := check.CheckDeps(viper.GetString(keyFFmpeg), viper.GetString(keyFFprobe)); err != nil {
			return err
		}
	}

	var seed *int64
	if opts.seedSet {
		seed = &opts.seed
	}
	cacheDir := viper.GetString(keyCacheDir)
	if opts.noCache {
		cacheDir = ""
	}

	stats, err := pipeline.Run(ctx, pipeline.Options{
		Settings:      settings,
		SettingsStore: store,
		OutputPath:    opts.output,
		Width:         opts.width,
		Height:        opts.height,
		Preview:       opts.preview,
		Seed:          seed,
		DryRun:        opts.dryRun,
		Verbose:       verbose,
		SrcRoot:       viper.GetString(keySrcRoot),
		FFmpegBinary:  viper.GetString(keyFFmpeg),
		FFprobeBinary: viper.GetString(keyFFprobe),
		CacheDir:      cacheDir,
	}, logger)
	if err != nil {
		return err
	}

	if opts.dryRun {
		logger.Info("dry run complete", "tiles", stats.Tiles, "clips", stats.Clips)
		return nil
	}
	logger.Info("render complete",
		"output", stats.OutputPath,
		"duration", display.FormatSeconds(stats.OutputDuration),
		"tiles", stats.Tiles,
		"clips", stats.Clips,
		"elapsed", stats.Elapsed.Round(time.Millisecond),
	)
	return nil
}

// loadSettings loads the settings document for the configured path,
// returning the store alongside so callers can write back. A corrupt
// document is discarded with a warning, then treated like a missing one:
// rendering needs a usable document, so the caller gets a clear error
// rather than a crash.
func loadSettings(cmd *cobra.Command) (*config.CompositionSettings, *config.Store, error) {
	logger := loggerFromContext(cmd.Context())
	store := config.NewStore(viper.GetString(keySettings))

	settings, err := store.Load()
	if errors.Is(err, config.ErrSettingsCorrupt) {
		logger.Warn("discarding unusable settings document", "path", store.Path, "err", err)
		settings, err = nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if settings == nil {
		return nil, nil, fmt.Errorf("no usable settings at %q; provide a settings file (see --settings)", store.Path)
	}
	return settings, store, nil
}
