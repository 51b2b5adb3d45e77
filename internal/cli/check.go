package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/backmassage/tilemaster/internal/check"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify ffmpeg, ffprobe, and encoder availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return check.RunCheck(
				viper.GetString(keyFFmpeg),
				viper.GetString(keyFFprobe),
				loggerFromContext(cmd.Context()),
			)
		},
	}
}
