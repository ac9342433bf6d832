package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/harrison/curvesplit/internal/fileutil"
	"github.com/harrison/curvesplit/internal/models"
)

// Glob patterns, relative to a session directory.
const (
	RunPattern         = "run0[0-9][0-9]"
	BehaviorPattern    = RunPattern + "/behavior"
	sessionMarkPattern = "run???"
)

// BehaviorDirName is the directory inside a run holding the task groups.
const BehaviorDirName = "behavior"

// DiscoverRuns returns every run0NN/behavior directory of a session, sorted.
func DiscoverRuns(sessionDir string) ([]models.Run, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(sessionDir, filepath.FromSlash(BehaviorPattern)))
	if err != nil {
		return nil, fmt.Errorf("invalid run pattern in %s: %w", sessionDir, err)
	}
	sort.Strings(matches)

	runs := make([]models.Run, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.IsDir() {
			continue
		}
		run, err := RunFromBehavior(m)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// RunFromBehavior derives a Run from a behavior directory path. The run is
// the behavior directory's parent; the path does not have to exist.
func RunFromBehavior(behaviorDir string) (models.Run, error) {
	abs, err := filepath.Abs(behaviorDir)
	if err != nil {
		return models.Run{}, fmt.Errorf("failed to resolve %s: %w", behaviorDir, err)
	}
	runPath := filepath.Dir(abs)
	name := filepath.Base(runPath)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return models.Run{}, fmt.Errorf("cannot derive a run from behavior directory %s", behaviorDir)
	}
	return models.Run{Name: name, Path: runPath, BehaviorDir: abs}, nil
}

// IsSessionDir reports whether dir contains at least one run??? entry.
func IsSessionDir(dir string) bool {
	matches, err := doublestar.FilepathGlob(filepath.Join(dir, sessionMarkPattern))
	return err == nil && len(matches) > 0
}

// ResolveRuns returns the runs to process: the given behavior paths when any
// are set, otherwise every run discovered in sessionDir. Explicit paths that
// are not directories are returned in missing and skipped.
func ResolveRuns(sessionDir string, behaviorPaths []string) (runs []models.Run, missing []string, err error) {
	if len(behaviorPaths) == 0 {
		runs, err = DiscoverRuns(sessionDir)
		return runs, nil, err
	}

	for _, p := range behaviorPaths {
		info, statErr := os.Stat(p)
		if statErr != nil || !info.IsDir() {
			missing = append(missing, p)
			continue
		}
		run, err := RunFromBehavior(p)
		if err != nil {
			return nil, nil, err
		}
		runs = append(runs, run)
	}
	return runs, missing, nil
}

// FindTaskGroup returns the single task-group directory of a behavior directory.
func FindTaskGroup(behaviorDir string) (string, error) {
	dirs, err := fileutil.Subdirs(behaviorDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrBehaviorNotFound, behaviorDir)
		}
		return "", err
	}
	switch len(dirs) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNoTaskGroups, behaviorDir)
	case 1:
		return dirs[0], nil
	default:
		return "", fmt.Errorf("%w: %s has %d", ErrMultipleTaskGroups, behaviorDir, len(dirs))
	}
}
