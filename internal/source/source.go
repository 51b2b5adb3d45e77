// Package source resolves folder tokens to clip directories and discovers
// the video files inside them.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Sentinel errors surfaced before any render work starts.
var (
	ErrFolderNotFound = errors.New("folder not found")
	ErrNoVideos       = errors.New("no video files found")
)

// Clip is one source video: its path plus the duration reported by the
// prober. Duration is zero until probed.
type Clip struct {
	Path     string
	Duration float64
}

// Name returns the clip's base filename.
func (c Clip) Name() string {
	return filepath.Base(c.Path)
}

// Supported video file extensions (lowercase, with leading dot).
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
	".flv":  true,
	".wmv":  true,
	".m4v":  true,
	".webm": true,
}

// DefaultSrcRoot is the conventional folder searched for bare tokens.
const DefaultSrcRoot = "src"

// Resolver maps folder tokens from the settings document to absolute
// directories. Bare names (no path separator) are looked up under
// WorkDir/SrcRoot first, then treated as WorkDir-relative.
type Resolver struct {
	WorkDir string // Base for relative tokens; defaults to the process working directory.
	SrcRoot string // Conventional lookup root for bare tokens; defaults to "src".
}

// Resolve maps token to an absolute existing directory. Rule, in order:
// absolute paths are used directly; tokens containing a separator
// (including ./ and ../ prefixes) resolve against WorkDir; bare names try
// SrcRoot/<token> first and fall back to WorkDir/<token>. Returns an error
// wrapping ErrFolderNotFound when no candidate exists.
func (r Resolver) Resolve(token string) (string, error) {
	workDir := r.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", token, err)
		}
		workDir = wd
	}
	srcRoot := r.SrcRoot
	if srcRoot == "" {
		srcRoot = DefaultSrcRoot
	}

	var candidates []string
	switch {
	case filepath.IsAbs(token):
		candidates = []string{filepath.Clean(token)}
	case hasPathSeparator(token):
		candidates = []string{filepath.Join(workDir, token)}
	default:
		candidates = []string{
			filepath.Join(workDir, srcRoot, token),
			filepath.Join(workDir, token),
		}
	}

	for _, c := range candidates {
		fi, err := os.Stat(c)
		if err == nil && fi.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q (tried %s)", ErrFolderNotFound, token, strings.Join(candidates, ", "))
}

func hasPathSeparator(token string) bool {
	if strings.HasPrefix(token, "./") || strings.HasPrefix(token, "../") {
		return true
	}
	return strings.ContainsRune(token, '/') || strings.ContainsRune(token, os.PathSeparator)
}

// Discover lists the video files directly inside dir (non-recursive),
// sorted by filename ascending, case-insensitive. Returns an error
// wrapping ErrNoVideos when the directory holds no video files.
func Discover(dir string) ([]Clip, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read folder %q: %w", dir, err)
	}

	var clips []Clip
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if videoExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			clips = append(clips, Clip{Path: filepath.Join(dir, e.Name())})
		}
	}
	if len(clips) == 0 {
		return nil, fmt.Errorf("%w in %q", ErrNoVideos, dir)
	}

	sort.Slice(clips, func(i, j int) bool {
		return strings.ToLower(clips[i].Name()) < strings.ToLower(clips[j].Name())
	})
	return clips, nil
}
