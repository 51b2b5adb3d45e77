// Package check provides system diagnostics (the check subcommand) and
// pre-pipeline dependency validation for ffmpeg, ffprobe, and the encoders
// the renderer relies on.
package check

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
	ErrX264TestFailed  = errors.New("libx264 test encode failed")
)

// CheckDeps is the pre-pipeline validation: ffmpeg and ffprobe must be on
// PATH and a short libx264 encode must succeed, since every render pass
// encodes with it. Returns a sentinel error on failure.
func CheckDeps(ffmpegBin, ffprobeBin string) error {
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	if ffprobeBin == "" {
		ffprobeBin = "ffprobe"
	}

	if _, err := exec.LookPath(ffmpegBin); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath(ffprobeBin); err != nil {
		return ErrFfprobeNotFound
	}
	if !runSilent(ffmpegBin, x264TestArgs()...) {
		return ErrX264TestFailed
	}
	return nil
}

// RunCheck runs the full diagnostics flow: it reports tool versions and
// encoder availability, continuing past individual failures, and returns
// an error naming every failed check so the exit code reflects the result.
func RunCheck(ffmpegBin, ffprobeBin string, logger *log.Logger) error {
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	if ffprobeBin == "" {
		ffprobeBin = "ffprobe"
	}

	var failed []string
	if !checkVersion(ffmpegBin, logger) {
		failed = append(failed, ffmpegBin)
	}
	if !checkVersion(ffprobeBin, logger) {
		failed = append(failed, ffprobeBin)
	}

	if runSilent(ffmpegBin, x264TestArgs()...) {
		logger.Info("libx264 encoder works")
	} else {
		logger.Error("libx264 test encode failed")
		failed = append(failed, "libx264")
	}

	if runSilent(ffmpegBin,
		"-hide_banner", "-nostdin",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", "aac", "-f", "null", "-",
	) {
		logger.Info("aac encoder works")
	} else {
		logger.Error("aac encoder test failed")
		failed = append(failed, "aac")
	}

	if len(failed) > 0 {
		return fmt.Errorf("dependency check failed: %s", strings.Join(failed, ", "))
	}
	return nil
}

// checkVersion logs the first line of <tool> -version and reports whether
// the tool is present and answers.
func checkVersion(bin string, logger *log.Logger) bool {
	if _, err := exec.LookPath(bin); err != nil {
		logger.Error("not found on PATH", "tool", bin)
		return false
	}
	out, err := exec.Command(bin, "-version").Output()
	if err != nil {
		logger.Warn("-version failed", "tool", bin, "err", err)
		return false
	}
	first := strings.TrimSpace(string(out))
	if idx := strings.Index(first, "\n"); idx > 0 {
		first = first[:idx]
	}
	logger.Info(first)
	return true
}

// x264TestArgs is a minimal synthetic encode exercising the video codec
// used by every render pass.
func x264TestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", "libx264", "-f", "null", "-",
	}
}

func runSilent(bin string, args ...string) bool {
	return exec.Command(bin, args...).Run() == nil
}
