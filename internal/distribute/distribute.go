// Package distribute partitions one shared folder's clips across the tiles
// that reference it. Every mode assigns each input clip to exactly one
// tile; nothing is dropped or duplicated.
package distribute

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/backmassage/tilemaster/internal/config"
	"github.com/backmassage/tilemaster/internal/source"
)

// ErrDistributionMismatch reports an unsatisfiable distribution request:
// no clips, or a non-positive tile count.
var ErrDistributionMismatch = errors.New("distribution mismatch")

// Distribute partitions clips across tileCount tiles under mode. The
// returned slice is indexed by tile; element k holds tile k's ordered
// clips. seed makes Random mode deterministic; nil seeds from the clock.
func Distribute(clips []source.Clip, tileCount int, mode config.DistributionMode, seed *int64) ([][]source.Clip, error) {
	if tileCount <= 0 {
		return nil, fmt.Errorf("%w: tile count %d", ErrDistributionMismatch, tileCount)
	}
	if len(clips) == 0 {
		return nil, fmt.Errorf("%w: no clips to distribute", ErrDistributionMismatch)
	}

	switch mode {
	case config.DistSequential:
		return blocks(clips, tileCount), nil

	case config.DistRandom:
		shuffled := make([]source.Clip, len(clips))
		copy(shuffled, clips)
		rng := newRNG(seed)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		return blocks(shuffled, tileCount), nil

	default:
		// Round-robin, also the fallback for an unset mode.
		out := make([][]source.Clip, tileCount)
		for i, c := range clips {
			t := i % tileCount
			out[t] = append(out[t], c)
		}
		return out, nil
	}
}

// blocks splits clips into tileCount contiguous blocks whose sizes differ
// by at most one; the first len(clips)%tileCount blocks get the extra clip.
func blocks(clips []source.Clip, tileCount int) [][]source.Clip {
	per := len(clips) / tileCount
	rem := len(clips) % tileCount

	out := make([][]source.Clip, tileCount)
	start := 0
	for k := 0; k < tileCount; k++ {
		size := per
		if k < rem {
			size++
		}
		out[k] = clips[start : start+size]
		start += size
	}
	return out
}

func newRNG(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
