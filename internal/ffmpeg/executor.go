package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// RenderError is terminal for the run: the failing pass is reported with
// its captured stderr and no output file is left behind. The core performs
// no retries.
type RenderError struct {
	Stage  string
	Stderr string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("render failed at %s: %v\n%s", e.Stage, e.Err, e.Stderr)
	}
	return fmt.Sprintf("render failed at %s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Executor runs the passes of a Directives set in order. Intermediate
// files live in the work directory, which is removed when Run returns; the
// final output appears atomically via rename only after every pass
// succeeds.
type Executor struct {
	Log     *log.Logger
	DryRun  bool // log each pass without executing anything
	Verbose bool // tee ffmpeg stderr to the terminal in real time
}

// Run executes every pass. On any failure it returns a *RenderError and
// cleans up the partial output.
func (x *Executor) Run(ctx context.Context, d *Directives) error {
	if x.DryRun {
		for _, p := range d.Passes {
			x.Log.Info("[dry-run] would run", "stage", p.Label, "cmd", formatCmd(p.Args))
		}
		x.Log.Info("[dry-run] would write", "output", d.FinalOutput)
		return nil
	}

	if err := os.MkdirAll(d.WorkDir, 0o755); err != nil {
		return fmt.Errorf("create work directory: %w", err)
	}
	defer os.RemoveAll(d.WorkDir)

	if dir := filepath.Dir(d.FinalOutput); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	for _, p := range d.Passes {
		x.Log.Info("rendering", "stage", p.Label)
		x.Log.Debug("ffmpeg", "cmd", formatCmd(p.Args))

		if err := x.runPass(ctx, p); err != nil {
			os.Remove(d.PartialOutput)
			return err
		}
	}

	if err := os.Rename(d.PartialOutput, d.FinalOutput); err != nil {
		os.Remove(d.PartialOutput)
		return fmt.Errorf("finalize output: %w", err)
	}
	return nil
}

func (x *Executor) runPass(ctx context.Context, p Pass) error {
	cmd := exec.CommandContext(ctx, p.Args[0], p.Args[1:]...)

	var stderr bytes.Buffer
	if x.Verbose {
		cmd.Stderr = io.MultiWriter(&stderr, os.Stderr)
	} else {
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		return &RenderError{Stage: p.Label, Stderr: stderr.String(), Err: err}
	}
	return nil
}

// formatCmd joins argv for log output, quoting arguments with spaces.
func formatCmd(args []string) string {
	var buf bytes.Buffer
	for i, a := range args {
		if i > 0 {
			buf.WriteByte(' ')
		}
		if bytes.ContainsAny([]byte(a), " \t") {
			fmt.Fprintf(&buf, "%q", a)
		} else {
			buf.WriteString(a)
		}
	}
	return buf.String()
}
