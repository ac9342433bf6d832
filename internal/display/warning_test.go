package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func forceColor(t *testing.T, on bool) {
	t.Helper()
	saved := color.NoColor
	color.NoColor = !on
	t.Cleanup(func() { color.NoColor = saved })
}

func TestDisplayWarning_TitleOnly(t *testing.T) {
	forceColor(t, true)
	var buf bytes.Buffer
	Warning{Title: "Behavior directory not found"}.Display(&buf)

	output := buf.String()
	if !strings.Contains(output, "\x1b[33m") {
		t.Error("Expected yellow ANSI color code in output")
	}
	if !strings.Contains(output, "Warning: Behavior directory not found") {
		t.Errorf("Expected title in output, got %q", output)
	}
	if !strings.Contains(output, "\x1b[0m") {
		t.Error("Expected ANSI reset code in output")
	}
	if strings.Contains(output, "Affected") || strings.Contains(output, "Suggestion") {
		t.Errorf("Unexpected optional sections in %q", output)
	}
}

func TestDisplayWarning_Paths(t *testing.T) {
	forceColor(t, false)
	tests := []struct {
		name     string
		paths    []string
		wantText string
	}{
		{"single path", []string{"run003/behavior"}, "Affected path:"},
		{"multiple paths", []string{"run003/behavior", "run007/behavior"}, "Affected paths:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Warning{Title: "t", Paths: tt.paths}.Display(&buf)
			output := buf.String()

			if !strings.Contains(output, tt.wantText) {
				t.Errorf("Expected %q in %q", tt.wantText, output)
			}
			for i, p := range tt.paths {
				line := "      " + string(rune('1'+i)) + ". " + p
				if !strings.Contains(output, line) {
					t.Errorf("Expected numbered line %q in %q", line, output)
				}
			}
		})
	}
}

func TestDisplayWarning_AllSectionsInOrder(t *testing.T) {
	forceColor(t, false)
	var buf bytes.Buffer
	Warning{
		Title:      "Title",
		Message:    "Message",
		Paths:      []string{"a"},
		Suggestion: "Suggestion text",
	}.Display(&buf)

	want := "Warning: Title\n" +
		"    Message\n" +
		"    Affected path:\n" +
		"      1. a\n" +
		"    Suggestion:\n" +
		"    Suggestion text\n"
	if buf.String() != want {
		t.Errorf("Display() =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestWarnMissingBehavior(t *testing.T) {
	paths := []string{"/data/s1/run002/behavior"}
	w := WarnMissingBehavior(paths)

	if w.Title != "Behavior directory not found" {
		t.Errorf("Title = %q", w.Title)
	}
	if len(w.Paths) != 1 || w.Paths[0] != paths[0] {
		t.Errorf("Paths = %v", w.Paths)
	}
	if w.Suggestion == "" {
		t.Error("expected a suggestion")
	}
}

func TestWarnNoRuns(t *testing.T) {
	forceColor(t, false)
	var buf bytes.Buffer
	WarnNoRuns("/data/s1").Display(&buf)

	if !strings.Contains(buf.String(), "No runs found") || !strings.Contains(buf.String(), "1. /data/s1") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
