// Package probe obtains clip durations from ffprobe. One JSON call per
// clip, memoized per run and backed by an optional persistent cache so no
// file is ever probed twice.
package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// ProbeError reports an unreadable or corrupt media file. Stderr carries
// ffprobe's own diagnostic when the process failed.
type ProbeError struct {
	Path   string
	Stderr string
	Err    error
}

func (e *ProbeError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("probe %q: %v: %s", e.Path, e.Err, e.Stderr)
	}
	return fmt.Sprintf("probe %q: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// defaultWorkers bounds concurrent ffprobe subprocesses.
const defaultWorkers = 4

// Prober runs ffprobe duration queries. Safe for concurrent use; results
// are memoized for the lifetime of the Prober and written through to the
// persistent cache when one is attached.
type Prober struct {
	Binary  string // ffprobe binary name; defaults to "ffprobe".
	Workers int    // parallel probe limit; defaults to 4.
	Cache   *Cache // optional persistent duration cache (nil disables).

	mu   sync.Mutex
	memo map[string]float64
}

// NewProber returns a Prober using binary (or "ffprobe" when empty) and an
// optional persistent cache.
func NewProber(binary string, cache *Cache) *Prober {
	if binary == "" {
		binary = "ffprobe"
	}
	return &Prober{
		Binary: binary,
		Cache:  cache,
		memo:   make(map[string]float64),
	}
}

// Duration returns the clip duration in seconds, consulting the per-run
// memo and the persistent cache before invoking ffprobe.
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	p.mu.Lock()
	if d, ok := p.memo[path]; ok {
		p.mu.Unlock()
		return d, nil
	}
	p.mu.Unlock()

	if p.Cache != nil {
		if d, ok := p.Cache.Get(path); ok {
			p.remember(path, d)
			return d, nil
		}
	}

	d, err := p.run(ctx, path)
	if err != nil {
		return 0, err
	}

	p.remember(path, d)
	if p.Cache != nil {
		p.Cache.Put(path, d)
	}
	return d, nil
}

func (p *Prober) remember(path string, d float64) {
	p.mu.Lock()
	p.memo[path] = d
	p.mu.Unlock()
}

// run executes a single ffprobe JSON call and parses the format duration.
func (p *Prober) run(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, p.Binary,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		path,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return 0, &ProbeError{Path: path, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	d, err := ParseDuration(stdout.Bytes())
	if err != nil {
		return 0, &ProbeError{Path: path, Err: err}
	}
	return d, nil
}

// FillDurations probes every clip missing a duration, in place, using a
// bounded worker pool. Probing is read-only and order-independent, so
// parallelism is safe; the first error encountered is returned.
func (p *Prober) FillDurations(ctx context.Context, clips []Target) error {
	workers := p.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var errMu sync.Mutex
	var firstErr error

	for _, t := range clips {
		wg.Add(1)
		go func(t Target) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			errMu.Lock()
			failed := firstErr != nil
			errMu.Unlock()
			if failed || ctx.Err() != nil {
				return
			}

			d, err := p.Duration(ctx, t.Path)
			if err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMu.Unlock()
				return
			}
			*t.Duration = d
		}(t)
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// Target pairs a clip path with the duration slot to fill.
type Target struct {
	Path     string
	Duration *float64
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format ffprobeFormat `json:"format"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

// ParseDuration extracts the container duration from raw ffprobe JSON.
// Exported for testing without a real ffprobe binary.
func ParseDuration(data []byte) (float64, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(raw.Format.Duration), 64)
	if err != nil {
		return 0, fmt.Errorf("no usable duration in ffprobe output")
	}
	if d <= 0 {
		return 0, fmt.Errorf("non-positive duration %v", d)
	}
	return d, nil
}
