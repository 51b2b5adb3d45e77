package pipeline

import "time"

// RunStats summarizes a completed (or dry-run) composition.
type RunStats struct {
	Tiles          int
	Clips          int
	OutputDuration float64
	OutputPath     string
	Elapsed        time.Duration
}
