// Package display holds user-facing formatting helpers: the banner, ASCII
// layout diagrams, and value formatting for log output.
package display

import "fmt"

// FormatSeconds renders a duration in seconds for display (e.g. "83.40s").
func FormatSeconds(s float64) string {
	return fmt.Sprintf("%.2fs", s)
}

// FormatResolution renders a canvas size (e.g. "1920x1080").
func FormatResolution(w, h int) string {
	return fmt.Sprintf("%dx%d", w, h)
}
