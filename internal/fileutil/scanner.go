package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	// ErrNoMatch is returned by FindOne when no file matches.
	ErrNoMatch = errors.New("no matching file")
	// ErrMultipleMatches is returned by FindOne when more than one file matches.
	ErrMultipleMatches = errors.New("more than one matching file")
)

// ScanOptions configures the directory scanning behavior
type ScanOptions struct {
	// Pattern is a regex matched against the file name without its extension
	Pattern string
	// Extensions limits results to these extensions (case-insensitive, e.g. ".csv")
	Extensions []string
	// Recursive enables descending into subdirectories
	Recursive bool
	// ExcludeDirs lists directory names that are never entered
	ExcludeDirs []string
	// MaxDepth limits recursion depth (0 = unlimited, 1 = current dir only)
	MaxDepth int
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Files holds absolute paths of matched files, sorted
	Files []string
	// Errors holds non-fatal errors hit while walking
	Errors []error
}

// matcher is the compiled form of ScanOptions.
type matcher struct {
	pattern    *regexp.Regexp
	extensions map[string]bool
	exclude    map[string]bool
}

func newMatcher(opts ScanOptions) (*matcher, error) {
	m := &matcher{
		extensions: make(map[string]bool),
		exclude:    make(map[string]bool),
	}
	if opts.Pattern != "" {
		re, err := regexp.Compile(opts.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
		m.pattern = re
	}
	for _, ext := range opts.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		m.extensions[strings.ToLower(ext)] = true
	}
	for _, dir := range opts.ExcludeDirs {
		m.exclude[dir] = true
	}
	return m, nil
}

func (m *matcher) matchFile(name string) bool {
	ext := filepath.Ext(name)
	if len(m.extensions) > 0 && !m.extensions[strings.ToLower(ext)] {
		return false
	}
	if m.pattern != nil && !m.pattern.MatchString(strings.TrimSuffix(name, ext)) {
		return false
	}
	return true
}

func (m *matcher) skipDir(name string) bool {
	return m.exclude[name] || strings.HasPrefix(name, ".")
}

// ScanDirectory scans a directory for files matching the provided options
func ScanDirectory(dir string, opts ScanOptions) (*ScanResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	m, err := newMatcher(opts)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{
		Files:  make([]string, 0),
		Errors: make([]error, 0),
	}

	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
			return nil
		}
		if path == dir {
			return nil
		}

		if d.IsDir() {
			if m.skipDir(d.Name()) || !opts.Recursive {
				return filepath.SkipDir
			}
			if opts.MaxDepth > 0 {
				rel, _ := filepath.Rel(dir, path)
				if strings.Count(rel, string(filepath.Separator))+1 >= opts.MaxDepth {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !m.matchFile(d.Name()) {
			return nil
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to resolve path %s: %w", path, err))
			return nil
		}
		result.Files = append(result.Files, abs)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Strings(result.Files)
	return result, nil
}

// FindOne scans dir (non-recursively unless opts says otherwise) and returns
// the single matching file. Zero matches wrap ErrNoMatch; several wrap
// ErrMultipleMatches and list the candidates.
func FindOne(dir string, opts ScanOptions) (string, error) {
	result, err := ScanDirectory(dir, opts)
	if err != nil {
		return "", err
	}
	switch len(result.Files) {
	case 0:
		return "", fmt.Errorf("%w in %s", ErrNoMatch, dir)
	case 1:
		return result.Files[0], nil
	default:
		names := make([]string, len(result.Files))
		for i, f := range result.Files {
			names[i] = filepath.Base(f)
		}
		return "", fmt.Errorf("%w in %s: %s", ErrMultipleMatches, dir, strings.Join(names, ", "))
	}
}

// Subdirs returns the absolute paths of the non-hidden subdirectories of dir, sorted.
func Subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var dirs []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		abs, err := filepath.Abs(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %s: %w", e.Name(), err)
		}
		dirs = append(dirs, abs)
	}
	sort.Strings(dirs)
	return dirs, nil
}
