package logger

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/harrison/curvesplit/internal/models"
)

// colorScheme defines consistent colors for run output.
// Green: success, red: failure, yellow: warnings and dry runs, cyan: labels.
type colorScheme struct {
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
	muted   *color.Color
}

func newColorScheme() *colorScheme {
	return &colorScheme{
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
		muted:   color.New(color.FgHiBlack),
	}
}

// statusColor picks the color of a run status.
func statusColor(status string) *color.Color {
	scheme := newColorScheme()
	switch status {
	case models.StatusProcessed:
		return scheme.success
	case models.StatusValidated:
		return scheme.warn
	case models.StatusFailed:
		return scheme.fail
	default:
		return color.New(color.Reset)
	}
}

// formatCategoryCounts renders "CurveUL: 3, CurveDL: 0, ..." in category
// order. With color, labels are cyan and empty categories are muted.
func formatCategoryCounts(table *models.CategoryTable, useColor bool) string {
	if table == nil {
		return ""
	}

	scheme := newColorScheme()
	parts := make([]string, 0, len(models.Categories()))
	for _, c := range models.Categories() {
		n := table.Len(c)
		if !useColor {
			parts = append(parts, fmt.Sprintf("%s: %d", c, n))
			continue
		}
		if n == 0 {
			parts = append(parts, scheme.muted.Sprintf("%s: %d", c, n))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %d", scheme.label.Sprint(string(c)), n))
		}
	}
	return strings.Join(parts, ", ")
}
