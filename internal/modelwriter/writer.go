// Package modelwriter writes a CategoryTable to disk as one text file per
// category, the layout downstream GLM tools read.
package modelwriter

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/harrison/curvesplit/internal/filelock"
	"github.com/harrison/curvesplit/internal/models"
)

// DefaultDir is the name of the model directory inside a run directory.
const DefaultDir = "model"

// LockPath returns the lock file guarding dir. It sits next to dir, as
// .<name>.lock, so dir holds only category files.
func LockPath(dir string) string {
	clean := filepath.Clean(dir)
	return filepath.Join(filepath.Dir(clean), "."+filepath.Base(clean)+".lock")
}

// FileName returns the model file name of a category.
func FileName(c models.Category) string {
	return string(c) + ".txt"
}

// FormatEvents renders events as tab-separated onset, duration and count rows.
func FormatEvents(events []models.EmittedEvent) []byte {
	var buf bytes.Buffer
	for _, ev := range events {
		fmt.Fprintf(&buf, "%03f\t%f\t%d\n", ev.Onset, ev.Duration, ev.Count)
	}
	return buf.Bytes()
}

// Write replaces the model files of every category in dir, including empty
// files for categories without events, and returns the paths written in
// category order. Each file is swapped in atomically under the directory
// lock. When another writer holds that lock, Write fails with
// filelock.ErrLocked without touching any file.
func Write(dir string, table *models.CategoryTable) ([]string, error) {
	if table == nil {
		return nil, fmt.Errorf("no category table to write to %s", dir)
	}

	var written []string
	err := filelock.TryWithLock(LockPath(dir), func() error {
		for _, c := range models.Categories() {
			path := filepath.Join(dir, FileName(c))
			if err := filelock.AtomicWrite(path, FormatEvents(table.Events(c))); err != nil {
				return fmt.Errorf("failed to write %s: %w", FileName(c), err)
			}
			written = append(written, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return written, nil
}
