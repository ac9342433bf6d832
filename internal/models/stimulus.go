package models

// StimulusTable is a per-task stimulus configuration table, one row per
// stimulus iteration.
type StimulusTable struct {
	Task    string // task key derived from the file name
	Path    string
	Columns []string
	Rows    [][]string
}

// Row returns row i, or false when i is out of range.
func (t *StimulusTable) Row(i int) ([]string, bool) {
	if t == nil || i < 0 || i >= len(t.Rows) {
		return nil, false
	}
	return t.Rows[i], true
}

// StimulusParameters maps a task key (see TaskKey) to its stimulus table.
type StimulusParameters map[string]*StimulusTable

// Lookup resolves a task name against the tables, ignoring whitespace and underscores.
func (p StimulusParameters) Lookup(task Task) (*StimulusTable, bool) {
	t, ok := p[task.Key()]
	return t, ok
}

// StimulusContext is the stimulus a trial is currently running with.
type StimulusContext struct {
	Table     *StimulusTable
	Iteration int      // -1 when the NewStimulus row carried no usable index
	Row       []string // nil when Iteration is -1
}
