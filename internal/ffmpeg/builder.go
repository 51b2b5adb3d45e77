package ffmpeg

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/backmassage/tilemaster/internal/config"
	"github.com/backmassage/tilemaster/internal/planner"
)

// Options configures directive construction.
type Options struct {
	Binary     string // ffmpeg binary name; defaults to "ffmpeg".
	OutputPath string // final output file.
	WorkDir    string // scratch directory for intermediate tile files.
}

// Build translates a render plan into the ordered ffmpeg passes that
// realize it: one tile pass per tile, a loop pass for every tile shorter
// than the aligned duration, and one compose pass. The compose pass writes
// to a partial path next to the final output; the Executor renames it into
// place on success.
func Build(plan *planner.RenderPlan, opts Options) (*Directives, error) {
	if opts.OutputPath == "" {
		return nil, fmt.Errorf("output path must not be empty")
	}
	if opts.WorkDir == "" {
		return nil, fmt.Errorf("work directory must not be empty")
	}
	binary := opts.Binary
	if binary == "" {
		binary = "ffmpeg"
	}

	d := &Directives{
		WorkDir:       opts.WorkDir,
		FinalOutput:   opts.OutputPath,
		PartialOutput: opts.OutputPath + ".partial",
	}

	composeInputs := make([]string, len(plan.Tiles))
	for i := range plan.Tiles {
		tile := &plan.Tiles[i]
		tilePath := filepath.Join(opts.WorkDir, fmt.Sprintf("tile_%d.mp4", i))
		d.Passes = append(d.Passes, tilePass(binary, tile, tilePath))
		composeInputs[i] = tilePath

		if tile.Timeline.LoopCount > 1 {
			looped := filepath.Join(opts.WorkDir, fmt.Sprintf("tile_%d_aligned.mp4", i))
			d.Passes = append(d.Passes, loopPass(binary, tile, tilePath, looped))
			composeInputs[i] = looped
		}
	}

	d.Passes = append(d.Passes, composePass(binary, plan, composeInputs, d.PartialOutput))
	return d, nil
}

// tilePass renders one tile's clip sequence, scaled and cropped into the
// tile rectangle, into an intermediate file.
func tilePass(binary string, tile *planner.TilePlan, output string) Pass {
	tl := tile.Timeline
	scale := ScaleFilter(tile.Rect.Width, tile.Rect.Height, tile.FitMode, tile.Anchor)

	args := preamble(binary)

	if len(tl.Entries) == 1 {
		args = append(args, "-i", tl.Entries[0].Clip.Path)
		args = append(args, "-vf", fmt.Sprintf("%s,setsar=1,fps=%d", scale, fps))
		args = append(args, "-af", audioFormat)
	} else {
		for _, e := range tl.Entries {
			args = append(args, "-i", e.Clip.Path)
		}
		args = append(args,
			"-filter_complex", tileFilterGraph(tl, scale),
			"-map", "[outv]",
			"-map", "[outa]",
		)
	}

	args = append(args, encodeArgs()...)
	args = append(args, output)

	return Pass{
		Label: fmt.Sprintf("tile %d (%d clips)", tile.Index+1, len(tl.Entries)),
		Args:  args,
	}
}

// loopPass repeats a rendered tile until it reaches the aligned duration
// and trims it to exactly that duration. Streams are copied, so the trim
// cuts the last repetition's tail.
func loopPass(binary string, tile *planner.TilePlan, input, output string) Pass {
	tl := tile.Timeline
	args := preamble(binary)
	args = append(args,
		"-stream_loop", strconv.Itoa(tl.LoopCount-1),
		"-i", input,
		"-t", formatSeconds(tl.TargetDuration),
		"-c", "copy",
		output,
	)
	return Pass{
		Label: fmt.Sprintf("align tile %d (%.2fs -> %.2fs)", tile.Index+1, tl.Duration, tl.TargetDuration),
		Args:  args,
	}
}

// composePass stacks the aligned tile files onto the canvas and maps the
// selected tile's audio; every other tile is muted by omission.
func composePass(binary string, plan *planner.RenderPlan, inputs []string, output string) Pass {
	cl := composeLayout{
		PiP:       plan.Layout == config.LayoutPiP,
		Positions: make([][2]int, len(plan.Tiles)),
	}
	for i, t := range plan.Tiles {
		cl.Positions[i] = [2]int{t.Rect.X, t.Rect.Y}
	}

	args := preamble(binary)
	for _, in := range inputs {
		args = append(args, "-i", in)
	}
	args = append(args,
		"-filter_complex", composeGraph(cl),
		"-map", "[outv]",
		"-map", fmt.Sprintf("%d:a", plan.AudioTile),
	)
	args = append(args, encodeArgs()...)
	args = append(args, output)

	return Pass{
		Label: fmt.Sprintf("compose %s (%d tiles)", plan.Layout, len(plan.Tiles)),
		Args:  args,
	}
}

// formatSeconds renders a duration for an ffmpeg -t argument.
func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}
