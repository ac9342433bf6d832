package models

import (
	"sort"
	"strings"
	"unicode"
)

// Task identifies the experiment task that produced an event log row.
type Task string

// Known tasks. The empty task is carried by rows that belong to no task
// (the MRI trigger, for example).
const (
	TaskNone         Task = ""
	TaskCurveTracing Task = "Curve tracing"
	TaskControlCT    Task = "Control CT"
	TaskCatchCT      Task = "Catch CT"
	TaskKeepBusy     Task = "Keep busy"
	TaskFixation     Task = "Fixation"
)

// curveFamily holds the tasks whose trials end with a POSTSWITCH state.
var curveFamily = map[Task]bool{
	TaskCurveTracing: true,
	TaskControlCT:    true,
	TaskCatchCT:      true,
	TaskKeepBusy:     true,
}

// KnownTasks returns the built-in task names in a stable order.
func KnownTasks() []Task {
	return []Task{TaskCurveTracing, TaskControlCT, TaskCatchCT, TaskKeepBusy, TaskFixation}
}

// IsCurveFamily reports whether the task is one of the curve-tracing tasks.
func (t Task) IsCurveFamily() bool {
	return curveFamily[t]
}

// Key returns the lookup key used for stimulus parameter tables.
func (t Task) Key() string {
	return TaskKey(string(t))
}

// TaskKey strips whitespace and underscores so that "Curve tracing" and the
// file prefix "Curve_tracing" resolve to the same key.
func TaskKey(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
}

// TaskSet is the closed set of task names accepted when a log is loaded.
type TaskSet struct {
	names map[Task]bool
}

// NewTaskSet builds a TaskSet from the built-in tasks plus any extra names.
// Extra tasks are accepted by the loader but never join the curve family.
func NewTaskSet(extra ...string) TaskSet {
	names := map[Task]bool{TaskNone: true}
	for _, t := range KnownTasks() {
		names[t] = true
	}
	for _, name := range extra {
		name = strings.TrimSpace(name)
		if name != "" {
			names[Task(name)] = true
		}
	}
	return TaskSet{names: names}
}

// Contains reports whether t is in the set.
func (s TaskSet) Contains(t Task) bool {
	if s.names == nil {
		return t == TaskNone || curveFamily[t] || t == TaskFixation
	}
	return s.names[t]
}

// Names returns the non-empty task names in the set, sorted.
func (s TaskSet) Names() []string {
	out := make([]string, 0, len(s.names))
	for t := range s.names {
		if t != TaskNone {
			out = append(out, string(t))
		}
	}
	sort.Strings(out)
	return out
}
