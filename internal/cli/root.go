package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envKeyReplacer maps flag-style keys to env-style (src-root -> SRC_ROOT).
var envKeyReplacer = strings.NewReplacer("-", "_")

var (
	version = "dev"
	commit  = "unknown"
)

// SetVersion records build information injected via ldflags for --version.
func SetVersion(v, c string) {
	version = v
	commit = c
}

// Environment-overridable configuration keys (TILEMASTER_ prefix).
const (
	keySettings = "settings"
	keySrcRoot  = "src-root"
	keyFFmpeg   = "ffmpeg"
	keyFFprobe  = "ffprobe"
	keyCacheDir = "cache-dir"
)

// Execute runs the tilemaster CLI.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:   "tilemaster",
		Short: "Tilemaster renders tiled multi-video compositions",
		Long: `Tilemaster plans and renders tiled video layouts: several folders of
clips are assigned to layout tiles, joined with per-tile transitions,
aligned to a common duration, and composed onto one canvas via ffmpeg.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("tilemaster %s\ncommit: %s\n", version, commit))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().String("settings", "", "settings file path (default tilemaster_settings.json)")

	initViper(root)

	root.AddCommand(newRenderCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newSettingsCmd())

	return root.ExecuteContext(ctx)
}

// initViper wires environment overrides: every key is settable via a
// TILEMASTER_ variable (e.g. TILEMASTER_FFMPEG, TILEMASTER_SRC_ROOT),
// with flags taking precedence.
func initViper(root *cobra.Command) {
	viper.SetEnvPrefix("TILEMASTER")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	viper.SetDefault(keySrcRoot, "src")
	viper.SetDefault(keyFFmpeg, "ffmpeg")
	viper.SetDefault(keyFFprobe, "ffprobe")
	viper.SetDefault(keyCacheDir, defaultCacheDir())

	_ = viper.BindPFlag(keySettings, root.PersistentFlags().Lookup("settings"))
}

// defaultCacheDir places the probe cache under the user cache directory,
// falling back to a dot directory in the working directory.
func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir + string(os.PathSeparator) + "tilemaster"
	}
	return ".tilemaster-cache"
}
