// Package discover implements the activation decision for the lint
// integration: suffix matching against the configured file patterns, and
// upward ancestor search for the config file and linter binary markers.
// It is host independent and performs no work beyond filesystem existence
// checks.
package discover

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/oxc-community/oxlint-daemon/src/oxd/entity"
	"github.com/oxc-community/oxlint-daemon/src/oxd/internal/fs"
)

// Decision is the outcome of a single activation check for a candidate file.
type Decision struct {
	Activated bool
	// BinaryPath is the resolved linter executable. Set only when Activated.
	BinaryPath string
	// ConfigDir is the ancestor directory containing the config file. Set only when Activated.
	ConfigDir string
}

// BinaryMarker returns the relative marker path for the linter binary under a
// package-manager-local binary directory.
func BinaryMarker(binaryName string) string {
	return filepath.Join("node_modules", ".bin", binaryName)
}

// Matches reports whether the filename's suffix matches any of the given
// patterns. Matching is an exact suffix comparison and short-circuits on the
// first match.
func Matches(filename string, patterns []string) bool {
	for _, p := range patterns {
		if strings.HasSuffix(filename, p) {
			return true
		}
	}
	return false
}

// FindAncestorContaining walks from startDir up to the filesystem root,
// nearest first, and returns the first directory that contains
// relativeMarker. The returned path is the containing directory, not the
// joined marker path. found is false if the root is reached without a match.
func FindAncestorContaining(oxdfs fs.OxdFS, startDir string, relativeMarker string) (dir string, found bool, err error) {
	current := filepath.Clean(startDir)
	for {
		exists, err := oxdfs.FileExists(filepath.Join(current, relativeMarker))
		if err != nil {
			return "", false, fmt.Errorf("checking marker %q in %q: %w", relativeMarker, current, err)
		}
		if exists {
			return current, true, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			// Parent of root is root, so the walk is complete.
			return "", false, nil
		}
		current = parent
	}
}

// Decide runs the activation gate for a candidate file. All four
// preconditions must hold: a non-empty directory component, a suffix match,
// a discoverable config file, and a discoverable binary. The check
// short-circuits on the first failure without touching the filesystem for
// unsupported file types.
func Decide(oxdfs fs.OxdFS, settings entity.LintSettings, filename string) (Decision, error) {
	dir := filepath.Dir(filename)
	if filename == "" || dir == "." || dir == "" {
		return Decision{}, nil
	}

	if !Matches(filename, settings.ActiveFilePatterns) {
		return Decision{}, nil
	}

	configDir, found, err := FindAncestorContaining(oxdfs, dir, settings.ConfigFileName)
	if err != nil {
		return Decision{}, err
	}
	if !found {
		return Decision{}, nil
	}

	marker := BinaryMarker(settings.BinaryName)
	binDir, found, err := FindAncestorContaining(oxdfs, dir, marker)
	if err != nil {
		return Decision{}, err
	}
	if !found {
		return Decision{}, nil
	}

	return Decision{
		Activated:  true,
		BinaryPath: filepath.Join(binDir, marker),
		ConfigDir:  configDir,
	}, nil
}
