package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/tilemaster/internal/config"
	"github.com/backmassage/tilemaster/internal/source"
)

func clips(durations ...float64) []source.Clip {
	out := make([]source.Clip, len(durations))
	for i, d := range durations {
		out[i] = source.Clip{Path: "clip.mp4", Duration: d}
	}
	return out
}

func TestBuildCut(t *testing.T) {
	tl, err := Build(clips(10, 5, 7), config.TransitionCut, 0, 0)
	require.NoError(t, err)

	assert.InDelta(t, 22.0, tl.Duration, 1e-9)
	assert.Equal(t, 1, tl.LoopCount)
	require.Len(t, tl.Entries, 3)
	assert.Equal(t, config.TransitionCut, tl.Entries[0].Transition)
	assert.Equal(t, config.TransitionCut, tl.Entries[1].Transition)
}

func TestBuildFadeShrinksDuration(t *testing.T) {
	// Two 1s joints overlap: 10 + 5 + 7 - 2*1 = 20.
	tl, err := Build(clips(10, 5, 7), config.TransitionFade, 1.0, 0)
	require.NoError(t, err)

	assert.InDelta(t, 20.0, tl.Duration, 1e-9)
	assert.Equal(t, config.TransitionCut, tl.Entries[0].Transition, "first entry always enters with a cut")
	assert.Equal(t, config.TransitionFade, tl.Entries[1].Transition)
	assert.InDelta(t, 1.0, tl.Entries[1].TransitionDuration, 1e-9)
}

func TestBuildFadeBlackShrinksDuration(t *testing.T) {
	tl, err := Build(clips(8, 8), config.TransitionFadeBlack, 0.5, 0)
	require.NoError(t, err)
	assert.InDelta(t, 15.5, tl.Duration, 1e-9)
}

func TestBuildTransitionTooLong(t *testing.T) {
	// Joint of 3s against a 2s clip is rejected, never clamped.
	_, err := Build(clips(10, 2, 10), config.TransitionFade, 3.0, 0)
	assert.ErrorIs(t, err, ErrTransitionTooLong)

	_, err = Build(clips(2, 10), config.TransitionFade, 3.0, 0)
	assert.ErrorIs(t, err, ErrTransitionTooLong)
}

func TestBuildEmpty(t *testing.T) {
	_, err := Build(nil, config.TransitionCut, 0, 0)
	assert.ErrorIs(t, err, source.ErrNoVideos)
}

func TestBuildSingleClipDegradesToCut(t *testing.T) {
	tl, err := Build(clips(6), config.TransitionFade, 1.0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 6.0, tl.Duration, 1e-9)
	require.Len(t, tl.Entries, 1)
	assert.Equal(t, config.TransitionCut, tl.Entries[0].Transition)
}

func TestBuildPreviewLimit(t *testing.T) {
	tl, err := Build(clips(5, 5, 5, 5, 5), config.TransitionCut, 0, 3)
	require.NoError(t, err)
	assert.Len(t, tl.Entries, 3)
	assert.InDelta(t, 15.0, tl.Duration, 1e-9)
}

func TestAlign(t *testing.T) {
	short, err := Build(clips(10), config.TransitionCut, 0, 0)
	require.NoError(t, err)
	long, err := Build(clips(25), config.TransitionCut, 0, 0)
	require.NoError(t, err)

	Align([]*Timeline{short, long})

	// 10s tile loops 3 times to reach 30s, then is trimmed to 25s.
	assert.Equal(t, 3, short.LoopCount)
	assert.InDelta(t, 25.0, short.TargetDuration, 1e-9)
	assert.Equal(t, 1, long.LoopCount)
	assert.InDelta(t, 25.0, long.TargetDuration, 1e-9)
}

func TestAlignEqualDurations(t *testing.T) {
	a, err := Build(clips(12), config.TransitionCut, 0, 0)
	require.NoError(t, err)
	b, err := Build(clips(12), config.TransitionCut, 0, 0)
	require.NoError(t, err)

	Align([]*Timeline{a, b})
	assert.Equal(t, 1, a.LoopCount)
	assert.Equal(t, 1, b.LoopCount)
}

func TestAlignFloatNoiseWithinEpsilon(t *testing.T) {
	a, err := Build(clips(20.0), config.TransitionCut, 0, 0)
	require.NoError(t, err)
	b, err := Build(clips(20.0004), config.TransitionCut, 0, 0)
	require.NoError(t, err)

	Align([]*Timeline{a, b})
	assert.Equal(t, 1, a.LoopCount, "sub-epsilon shortfall must not trigger a loop pass")
	assert.InDelta(t, 20.0004, a.TargetDuration, 1e-9)
}

func TestAlignExactMultiple(t *testing.T) {
	a, err := Build(clips(5), config.TransitionCut, 0, 0)
	require.NoError(t, err)
	b, err := Build(clips(15), config.TransitionCut, 0, 0)
	require.NoError(t, err)

	Align([]*Timeline{a, b})
	assert.Equal(t, 3, a.LoopCount)
}
