package resource

import (
	"path/filepath"
	"strings"
)

// IsContained reports whether candidate lies inside root once both paths are
// made absolute and their symlinks resolved. The comparison is segment-aligned:
// "/rest2/x" is not inside "/rest". A path that cannot be resolved (for
// instance because it does not exist) is never contained.
func IsContained(root, candidate string) bool {
	rootCanon, err := canonical(root)
	if err != nil {
		return false
	}
	candCanon, err := canonical(candidate)
	if err != nil {
		return false
	}
	return within(rootCanon, candCanon)
}

func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return !filepath.IsAbs(rel)
}
