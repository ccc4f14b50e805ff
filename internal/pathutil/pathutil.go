// Package pathutil provides path resolution and containment checking for
// caller-supplied paths. All file arguments accepted by the gateway pass
// through Resolve before they are used anywhere.
package pathutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathViolation indicates a caller-supplied path that is absolute,
// contains a parent-directory segment, or escapes the project root after
// resolution. The error text deliberately omits the resolved absolute path
// so that filesystem layout is never echoed back to callers.
var ErrPathViolation = errors.New("path outside project root")

// ExpandHome replaces a leading ~ in path with the user's home directory.
// If the home directory cannot be determined, the path is returned unchanged.
func ExpandHome(path string) string {
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// CanonicalRoot converts root to an absolute path with symlinks resolved.
// The result is the reference against which Resolve checks containment.
// The directory must exist.
func CanonicalRoot(root string) (string, error) {
	abs, err := filepath.Abs(ExpandHome(root))
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", errors.New("project root is not a directory")
	}
	return resolved, nil
}

// Resolve joins a caller-supplied relative path to the canonical project root
// and verifies the result stays inside it. The returned path is absolute and
// cleaned. Existence of the target is not checked; whoever opens the file
// later handles a missing target.
//
// Rejected outright: empty paths, absolute paths (including Windows drive or
// root anchors), and any path containing a ".." segment. After joining, the
// existing portion of the path has its symlinks resolved and containment is
// re-checked, so a symlink inside the root that points outside it is a
// violation even though the literal path looks contained.
func Resolve(root, path string) (string, error) {
	if path == "" {
		return "", ErrPathViolation
	}
	if filepath.IsAbs(path) || filepath.VolumeName(path) != "" || strings.HasPrefix(path, "/") {
		return "", ErrPathViolation
	}
	if hasParentSegment(path) {
		return "", ErrPathViolation
	}

	full := filepath.Join(root, filepath.Clean(path))
	if !contained(root, full) {
		return "", ErrPathViolation
	}

	// Resolve symlinks along the existing portion of the path. The target
	// itself may not exist yet, so walk up to the nearest existing ancestor,
	// resolve that, and re-append the remainder.
	resolved, err := resolveExisting(full)
	if err != nil {
		return "", ErrPathViolation
	}
	if !contained(root, resolved) {
		return "", ErrPathViolation
	}

	return full, nil
}

// hasParentSegment reports whether path contains a ".." path segment.
// Both slash styles are checked so Windows-style input cannot sneak one past.
func hasParentSegment(path string) bool {
	for _, seg := range strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	}) {
		if seg == ".." {
			return true
		}
	}
	return false
}

// contained reports whether candidate equals root or lives underneath it.
func contained(root, candidate string) bool {
	if candidate == root {
		return true
	}
	return strings.HasPrefix(candidate, root+string(filepath.Separator))
}

// resolveExisting resolves symlinks over the longest existing prefix of path
// and joins the nonexistent remainder back on.
func resolveExisting(path string) (string, error) {
	remainder := ""
	current := path
	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			return filepath.Join(resolved, remainder), nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(current)
		if parent == current {
			// Ran out of ancestors without finding one that exists.
			return "", os.ErrNotExist
		}
		remainder = filepath.Join(filepath.Base(current), remainder)
		current = parent
	}
}
