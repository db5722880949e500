package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/callsnap/internal/config"
	"github.com/hpungsan/callsnap/internal/errors"
)

// ValidatePath validates a destination for an exported artifact.
// It checks:
// 1. Path traversal (.. sequences)
// 2. Extension (must equal ext, e.g. ".docx" for a docx export)
// 3. Directory restrictions (file must be DIRECTLY in ~/.callsnap/exports or allowed_paths - no subdirectories)
// 4. Symlink safety (parent dir and file must not be symlinks)
//
// The "no subdirectories" rule eliminates TOCTOU races where an intermediate
// directory component is swapped for a symlink between validation and open.
// Combined with O_NOFOLLOW on the final component this covers every component.
func ValidatePath(path, ext string, cfg *config.Config) error {
	if path == "" {
		return errors.NewInvalidRequest("path is required")
	}

	if containsTraversal(path) {
		return errors.NewInvalidRequest("path must not contain directory traversal (..)")
	}

	cleaned := filepath.Clean(path)
	if !strings.EqualFold(filepath.Ext(cleaned), ext) {
		return errors.NewInvalidRequest(fmt.Sprintf("path must have %s extension", ext))
	}

	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}

	// Unsafe mode skips directory checks only. Symlinks are still rejected
	// because O_NOFOLLOW is used at open time.
	if cfg != nil && cfg.AllowUnsafePaths {
		return rejectSymlink(absPath, "path must not be a symlink")
	}

	allowedDirs, err := getAllowedDirs(cfg)
	if err != nil {
		return err
	}

	parentDir := filepath.Dir(absPath)
	if !isDirectlyInAllowedDir(parentDir, allowedDirs) {
		return errors.NewInvalidRequest(
			fmt.Sprintf("file must be directly in an allowed directory (no subdirectories); allowed: %v",
				allowedDirs))
	}

	if err := rejectSymlink(parentDir, "parent directory must not be a symlink"); err != nil {
		return err
	}
	return rejectSymlink(absPath, "path must not be a symlink")
}

func rejectSymlink(path, msg string) error {
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest(msg)
	}
	return nil
}

// getAllowedDirs returns the list of allowed directories (absolute, cleaned).
// Existing symlinked entries are resolved so they match their real target.
func getAllowedDirs(cfg *config.Config) ([]string, error) {
	defaultDir, err := DefaultExportsDir()
	if err != nil {
		return nil, err
	}
	dirs := []string{defaultDir}

	// Only absolute allowed_paths entries count
	if cfg != nil {
		for _, p := range cfg.AllowedPaths {
			if filepath.IsAbs(p) {
				dirs = append(dirs, filepath.Clean(p))
			}
		}
	}

	result := make([]string, 0, len(dirs))
	for _, d := range dirs {
		abs, err := filepath.Abs(filepath.Clean(d))
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid allowed path: %v", err))
		}

		if info, err := os.Lstat(abs); err == nil && info.Mode()&os.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(abs)
			if err != nil {
				return nil, errors.NewInvalidRequest(fmt.Sprintf("cannot resolve symlink in allowed path: %v", err))
			}
			abs = resolved
		}
		result = append(result, abs)
	}

	return result, nil
}

// isDirectlyInAllowedDir reports whether parentDir is exactly one of the
// allowed directories. Subdirectories do not count.
func isDirectlyInAllowedDir(parentDir string, allowedDirs []string) bool {
	parentDir = filepath.Clean(parentDir)
	for _, dir := range allowedDirs {
		if parentDir == filepath.Clean(dir) {
			return true
		}
	}
	return false
}

// DefaultExportsDir returns the default exports directory (~/.callsnap/exports).
func DefaultExportsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to get home directory: %w", err))
	}
	return filepath.Join(homeDir, ".callsnap", "exports"), nil
}

// containsTraversal checks if path contains ".." directory traversal.
func containsTraversal(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	// Forward slashes count on every platform
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}
