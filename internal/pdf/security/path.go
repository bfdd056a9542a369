package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathGuard confines file access to the configured label directory. MCP
// clients pass arbitrary paths, so every path is resolved and checked before
// a file is opened.
type PathGuard struct {
	root string
}

// NewPathGuard creates a guard rooted at dir. The directory does not have to
// exist yet.
func NewPathGuard(dir string) (*PathGuard, error) {
	if dir == "" {
		return nil, fmt.Errorf("label directory cannot be empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve label directory: %w", err)
	}
	return &PathGuard{root: filepath.Clean(abs)}, nil
}

// Root returns the absolute label directory
func (g *PathGuard) Root() string {
	return g.root
}

// Resolve turns path into an absolute path inside the root. Relative paths
// are taken relative to the root; null bytes are stripped.
func (g *PathGuard) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(g.root, path)
	}
	clean := filepath.Clean(path)

	if !g.within(clean) {
		return "", fmt.Errorf("path is outside label directory: %s", path)
	}

	// A symlink inside the root may still point outside of it
	if real, err := filepath.EvalSymlinks(clean); err == nil && !g.within(real) {
		return "", fmt.Errorf("path resolves outside label directory: %s", path)
	}
	return clean, nil
}

func (g *PathGuard) within(path string) bool {
	roots := []string{g.root}
	if real, err := filepath.EvalSymlinks(g.root); err == nil && real != g.root {
		roots = append(roots, real)
	}
	for _, root := range roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Exists reports whether the root directory is present
func (g *PathGuard) Exists() bool {
	info, err := os.Stat(g.root)
	return err == nil && info.IsDir()
}
