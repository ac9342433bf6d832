package logger

import (
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
)

// TestProgressBarRender verifies ASCII bar rendering over a batch of runs
func TestProgressBarRender(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		width    int
		expected string
	}{
		{"no runs done", 0, 4, 8, "[        ] 0/4 (0%)"},
		{"one of four", 1, 4, 8, "[==      ] 1/4 (25%)"},
		{"half", 5, 10, 10, "[=====     ] 5/10 (50%)"},
		{"all done", 3, 3, 10, "[==========] 3/3 (100%)"},
		{"one of three floors", 1, 3, 10, "[===       ] 1/3 (33%)"},
		{"past total caps at full", 15, 10, 10, "[==========] 15/10 (100%)"},
		{"negative current", -5, 10, 10, "[          ] -5/10 (0%)"},
		{"empty batch", 0, 0, 10, "[          ] 0/0 (0%)"},
		{"width below one falls back to ten", 1, 2, 0, "[=====     ] 1/2 (50%)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb := NewProgressBar(tt.total, tt.width, false)
			pb.Update(tt.current)
			if got := pb.Render(); got != tt.expected {
				t.Errorf("Render() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestProgressBarPrefixAndAccessors(t *testing.T) {
	pb := NewProgressBar(4, 4, false)
	pb.SetPrefix("Progress: ")
	pb.Increment()
	pb.Increment()

	if pb.Current() != 2 || pb.Total() != 4 || pb.Percentage() != 50 {
		t.Errorf("got current=%d total=%d perc=%d", pb.Current(), pb.Total(), pb.Percentage())
	}
	if got := pb.Render(); got != "Progress: [==  ] 2/4 (50%)" {
		t.Errorf("Render() = %q", got)
	}
}

func TestProgressBarColors(t *testing.T) {
	saved := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = saved }()

	colored := NewProgressBar(10, 10, true)
	colored.Update(5)
	if !strings.Contains(colored.Render(), "\x1b[36m") {
		t.Errorf("in-progress bar should be cyan, got %q", colored.Render())
	}
	colored.Update(10)
	if !strings.Contains(colored.Render(), "\x1b[32m") {
		t.Errorf("finished bar should be green, got %q", colored.Render())
	}

	plain := NewProgressBar(10, 10, false)
	plain.Update(5)
	if strings.Contains(plain.Render(), "\x1b[") {
		t.Errorf("plain bar should have no ANSI codes, got %q", plain.Render())
	}
}

func TestProgressBarConcurrency(t *testing.T) {
	pb := NewProgressBar(100, 10, false)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				pb.Increment()
				_ = pb.Render()
			}
		}()
	}
	wg.Wait()

	if pb.Current() != 100 {
		t.Errorf("Current() = %d, want 100", pb.Current())
	}
}
