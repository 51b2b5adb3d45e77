package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backmassage/tilemaster/internal/config"
	"github.com/backmassage/tilemaster/internal/display"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect the saved composition settings",
	}
	cmd.AddCommand(newSettingsShowCmd())
	return cmd
}

func newSettingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved composition settings and layout diagram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, _, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			printSettings(cmd, settings)
			return nil
		},
	}
}

func printSettings(cmd *cobra.Command, s *config.CompositionSettings) {
	w := cmd.OutOrStdout()

	folders := make([]string, len(s.Tiles))
	for i, t := range s.Tiles {
		folders[i] = t.Folder
	}

	fmt.Fprintf(w, "layout:     %s\n", s.Layout)
	fmt.Fprintf(w, "resolution: %s\n", display.FormatResolution(s.Resolution.Width, s.Resolution.Height))
	fmt.Fprintf(w, "fit mode:   %s\n", s.FitMode)
	fmt.Fprintf(w, "audio tile: %d\n", s.AudioSourceTileIndex+1)
	if s.DistributionMode != "" {
		fmt.Fprintf(w, "clip split: %s\n", s.DistributionMode)
	}
	if s.PreviewMode {
		fmt.Fprintln(w, "preview:    on")
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, display.LayoutDiagram(s.Layout, folders))
	fmt.Fprintln(w)

	for i, t := range s.Tiles {
		if t.TransitionType == config.TransitionCut {
			fmt.Fprintf(w, "tile %d: %s, cut\n", i+1, t.Folder)
			continue
		}
		fmt.Fprintf(w, "tile %d: %s, %s %s, anchor %s\n",
			i+1, t.Folder,
			config.TransitionName(t.TransitionType),
			display.FormatSeconds(t.TransitionDuration),
			t.CropAnchor,
		)
	}
}
