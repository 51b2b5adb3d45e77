// Package ffmpeg translates a render plan into ffmpeg invocations and
// executes them. Three pass kinds exist: a tile pass renders one tile's
// clip sequence (scaled, cropped, transition-joined) into an intermediate
// file; a loop pass repeats a short tile and trims it to the aligned
// duration; the compose pass stacks all tiles onto the canvas and selects
// the audio source. The builder only produces argument vectors; nothing
// runs until the Executor is invoked.
package ffmpeg

// Pass is one complete ffmpeg invocation. Args[0] is the binary.
type Pass struct {
	Label string // human-readable stage name for logs and errors
	Args  []string
}

// Directives is the full set of invocations for one render, in execution
// order. The final output is written to PartialOutput and renamed to
// FinalOutput only after every pass succeeds, so an interrupted render
// never leaves a partial file at the destination.
type Directives struct {
	WorkDir       string
	Passes        []Pass
	PartialOutput string
	FinalOutput   string
}

// Fixed encoder parameters for intermediate and final outputs.
const (
	fps          = 30
	videoCodec   = "libx264"
	videoPreset  = "medium"
	videoCRF     = "23"
	audioCodec   = "aac"
	audioBitrate = "192k"
	audioFormat  = "aformat=sample_rates=48000:channel_layouts=stereo"
)

// encodeArgs returns the shared encode tail used by every re-encoding pass.
func encodeArgs() []string {
	return []string{
		"-c:v", videoCodec,
		"-preset", videoPreset,
		"-crf", videoCRF,
		"-c:a", audioCodec,
		"-b:a", audioBitrate,
	}
}

// preamble returns the shared ffmpeg prefix: binary plus quiet, overwrite,
// and non-interactive flags.
func preamble(binary string) []string {
	return []string{binary, "-hide_banner", "-nostdin", "-y", "-loglevel", "error"}
}
