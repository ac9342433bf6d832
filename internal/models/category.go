package models

import "fmt"

// Category names one output bucket of behavioral intervals.
type Category string

// Output categories. Each one becomes a <Category>.txt model file.
const (
	CurveUL            Category = "CurveUL"
	CurveDL            Category = "CurveDL"
	CurveUR            Category = "CurveUR"
	CurveDR            Category = "CurveDR"
	CurveCenter        Category = "CurveCenter"
	CurveIncorrect     Category = "CurveIncorrect"     // false hit or wrong hand
	CurveNoResponse    Category = "CurveNoResponse"    // response window passed without a response
	CurveFixationBreak Category = "CurveFixationBreak" // trial aborted before the switch
	CurveNotCorrect    Category = "CurveNotCorrect"    // union of the three above
	ResponseCues       Category = "ResponseCues"
	HandLeft           Category = "HandLeft"
	HandRight          Category = "HandRight"
	Reward             Category = "Reward"
	FixationTask       Category = "FixationTask"
	Fixating           Category = "Fixating"
)

var allCategories = []Category{
	CurveUL, CurveDL, CurveUR, CurveDR, CurveCenter,
	CurveIncorrect, CurveNoResponse, CurveFixationBreak, CurveNotCorrect,
	ResponseCues, HandLeft, HandRight, Reward, FixationTask, Fixating,
}

// Categories returns every category in output order.
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// TargetCategory maps a target location label (UL, DL, UR, DR, Center) to the
// category of a correct response to that target.
func TargetCategory(target string) (Category, bool) {
	switch c := Category("Curve" + target); c {
	case CurveUL, CurveDL, CurveUR, CurveDR, CurveCenter:
		return c, true
	}
	return "", false
}

// IsNotCorrect reports whether c is one of the categories lumped into CurveNotCorrect.
func (c Category) IsNotCorrect() bool {
	return c == CurveIncorrect || c == CurveNoResponse || c == CurveFixationBreak
}

// EmittedEvent is one row of a model file.
type EmittedEvent struct {
	Onset    float64 // seconds relative to the reference trigger
	Duration float64 // seconds, zero for point events
	Count    int
}

// Interval returns the event spanning [start, stop).
func Interval(start, stop float64) EmittedEvent {
	return EmittedEvent{Onset: start, Duration: stop - start, Count: 1}
}

// Timed returns an event at onset with an explicit duration.
func Timed(onset, duration float64) EmittedEvent {
	return EmittedEvent{Onset: onset, Duration: duration, Count: 1}
}

// Point returns a zero-duration event.
func Point(onset float64) EmittedEvent {
	return EmittedEvent{Onset: onset, Count: 1}
}

// CategoryTable holds the emitted events of every category in emission order.
type CategoryTable struct {
	events map[Category][]EmittedEvent
}

// NewCategoryTable returns a table with every category present and empty.
func NewCategoryTable() *CategoryTable {
	t := &CategoryTable{events: make(map[Category][]EmittedEvent, len(allCategories))}
	for _, c := range allCategories {
		t.events[c] = []EmittedEvent{}
	}
	return t
}

// Append adds ev to category c. Categories form a closed set, so an unknown
// category is a programming error.
func (t *CategoryTable) Append(c Category, ev EmittedEvent) {
	list, ok := t.events[c]
	if !ok {
		panic(fmt.Sprintf("models: unknown category %q", c))
	}
	t.events[c] = append(list, ev)
}

// Events returns a copy of the events recorded for c.
func (t *CategoryTable) Events(c Category) []EmittedEvent {
	list := t.events[c]
	out := make([]EmittedEvent, len(list))
	copy(out, list)
	return out
}

// Len returns the number of events in c.
func (t *CategoryTable) Len(c Category) int {
	return len(t.events[c])
}

// Counts returns the number of events per category.
func (t *CategoryTable) Counts() map[Category]int {
	counts := make(map[Category]int, len(t.events))
	for c, list := range t.events {
		counts[c] = len(list)
	}
	return counts
}

// Total returns the number of events across all categories.
func (t *CategoryTable) Total() int {
	n := 0
	for _, list := range t.events {
		n += len(list)
	}
	return n
}
