package eventlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/curvesplit/internal/fileutil"
	"github.com/harrison/curvesplit/internal/models"
)

// StimulusParamsSuffix is the file-name suffix of stimulus parameter tables.
const StimulusParamsSuffix = ".stimulus-params.csv"

// LoadStimulusParameters reads every *.stimulus-params.csv in a task-group
// directory. Tables are keyed by the file-name prefix with underscores
// removed, so Curve_tracing.stimulus-params.csv serves the "Curve tracing" task.
func LoadStimulusParameters(taskGroupDir string) (models.StimulusParameters, error) {
	result, err := fileutil.ScanDirectory(taskGroupDir, fileutil.ScanOptions{
		Pattern:    `\.stimulus-params$`,
		Extensions: []string{".csv"},
		MaxDepth:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan for stimulus parameters: %w", err)
	}

	params := make(models.StimulusParameters, len(result.Files))
	for _, path := range result.Files {
		table, err := ReadStimulusTable(path)
		if err != nil {
			return nil, err
		}
		params[table.Task] = table
	}
	return params, nil
}

// ReadStimulusTable reads one stimulus parameter table. The first row is the
// header; every following row describes one stimulus iteration.
func ReadStimulusTable(path string) (*models.StimulusTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stimulus parameters: %w", err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), StimulusParamsSuffix)
	table := &models.StimulusTable{
		Task: models.TaskKey(name),
		Path: path,
	}

	cr := csv.NewReader(f)
	header, err := cr.Read()
	if err == io.EOF {
		return table, nil
	}
	if err != nil {
		return nil, csvError(path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	table.Columns = header

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, csvError(path, err)
	}
	table.Rows = rows
	return table, nil
}
