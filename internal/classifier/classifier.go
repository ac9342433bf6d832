// Package classifier turns a normalized behavioral event stream into
// categorized intervals.
//
// The classifier is a fold: each LogEvent advances a Machine, which updates
// its trial and stream state and appends zero or more intervals to its
// CategoryTable. Rows are consumed strictly in order, with no lookahead.
//
// Two checks run on every row: a NewState row always updates the current
// task state (and the sticky switched flag), and a Fixation row always opens
// or closes a fixation interval. After that, the first matching rule in
// Machine.apply fires. Rows that match nothing are ignored, because the event
// vocabulary is open ended. Any protocol violation is returned as an *Error
// and the rest of the log must be discarded.
package classifier

import (
	"math"
	"strconv"
	"strings"

	"github.com/harrison/curvesplit/internal/models"
)

// Machine is the trial state machine. A Machine is not safe for concurrent
// use; give each log its own.
type Machine struct {
	params models.StimulusParameters
	trial  TrialState
	stream StreamState
	table  *models.CategoryTable
}

// New returns a Machine at stream start.
func New(params models.StimulusParameters) *Machine {
	return &Machine{
		params: params,
		trial:  NewTrialState(),
		table:  models.NewCategoryTable(),
	}
}

// Classify folds a fresh Machine over events and returns the resulting table.
func Classify(events []models.LogEvent, params models.StimulusParameters) (*models.CategoryTable, error) {
	m := New(params)
	for _, ev := range events {
		if err := m.Step(ev); err != nil {
			return nil, err
		}
	}
	return m.Table(), nil
}

// Table returns the intervals emitted so far.
func (m *Machine) Table() *models.CategoryTable {
	return m.table
}

// Trial returns a copy of the current trial state.
func (m *Machine) Trial() TrialState {
	return m.trial
}

// Stream returns a copy of the current stream state.
func (m *Machine) Stream() StreamState {
	return m.stream
}

// Step consumes one row.
func (m *Machine) Step(ev models.LogEvent) error {
	if ev.Event == models.EventNewState {
		m.stream.TaskState = ev.Info
		if ev.Info == models.StateSwitched {
			m.trial.MarkSwitched()
		}
	}

	if ev.Event == models.EventFixation {
		if err := m.fixation(ev); err != nil {
			return err
		}
	}

	return m.apply(ev)
}

func (m *Machine) fixation(ev models.LogEvent) error {
	switch ev.Info {
	case models.FixationOut:
		if m.stream.FixationOnset != nil {
			m.table.Append(models.Fixating, models.Interval(*m.stream.FixationOnset, ev.Time))
		}
		m.stream.FixationOnset = nil
	case models.FixationIn:
		m.stream.FixationOnset = ptr(ev.Time)
	default:
		return newError(ErrUnrecognizedFixationInfo, ev, "want %q or %q", models.FixationIn, models.FixationOut)
	}
	return nil
}

func isState(ev models.LogEvent, state string) bool {
	return ev.Event == models.EventNewState && ev.Info == state
}

// apply runs the prioritized rule chain; the first matching case fires.
func (m *Machine) apply(ev models.LogEvent) error {
	switch {
	case ev.Event == models.EventNewStimulus:
		m.newStimulus(ev)

	case ev.Event == models.EventTargetLoc:
		m.trial.Target = ptr(ev.Info)

	case isState(ev, models.StateTrialEnd):
		m.trial = NewTrialState()

	case isState(ev, models.StatePreSwitch):
		if m.trial.Target == nil {
			return newError(ErrMissingTargetLocation, ev, "no %s row in this trial", models.EventTargetLoc)
		}
		m.trial.StimulusOnset = ptr(ev.Time)

	case ev.Task == models.TaskFixation && isState(ev, models.StateFixationPeriod):
		m.trial.FixationTaskOnset = ptr(ev.Time)

	case ev.Task == models.TaskFixation && isState(ev, models.StatePostFixation):
		if m.trial.FixationTaskOnset == nil {
			return newError(ErrMissingFixationTaskOnset, ev, "no %s state in this trial", models.StateFixationPeriod)
		}
		m.table.Append(models.FixationTask, models.Interval(*m.trial.FixationTaskOnset, ev.Time))

	case isState(ev, models.StateSwitched):
		m.trial.ResponseCuesOnset = ptr(ev.Time)

	case isState(ev, models.StatePostSwitch) && ev.Task != models.TaskFixation:
		return m.completeTrial(ev)

	case ev.Event == models.EventResponseGiven && m.trial.Response == nil:
		m.trial.RecordResponse(ev.Info)

	case ev.Event == models.EventResponseInitiate:
		switch ev.Info {
		case models.InfoHandLeft:
			m.table.Append(models.HandLeft, models.Point(ev.Time))
		case models.InfoHandRight:
			m.table.Append(models.HandRight, models.Point(ev.Time))
		default:
			return newError(ErrUnrecognizedHand, ev, "want %q or %q", models.InfoHandLeft, models.InfoHandRight)
		}

	case ev.Event == models.EventResponseReward || ev.Event == models.EventTaskReward:
		return m.reward(ev)

	case ev.Event == models.EventManualReward:
		m.stream.ManualRewardField = true
		return m.reward(ev)

	case ev.Event == models.EventReward && ev.Info == models.RewardManual:
		if m.stream.ManualRewardField {
			return newError(ErrDuplicateManualReward, ev,
				"log already has %s rows", models.EventManualReward)
		}
		m.table.Append(models.Reward, models.Timed(ev.Time, models.ManualRewardDuration))
	}

	return nil
}

func (m *Machine) newStimulus(ev models.LogEvent) {
	table, ok := m.params.Lookup(ev.Task)
	if !ok {
		m.trial.Stimulus = nil
		return
	}

	stim := &models.StimulusContext{Table: table, Iteration: -1}
	if i, err := strconv.Atoi(strings.TrimSpace(ev.Info)); err == nil {
		if row, ok := table.Row(i); ok {
			stim.Iteration = i
			stim.Row = row
		}
	}
	m.trial.Stimulus = stim
}

func (m *Machine) reward(ev models.LogEvent) error {
	dur, err := strconv.ParseFloat(strings.TrimSpace(ev.Info), 64)
	if err != nil || math.IsNaN(dur) || math.IsInf(dur, 0) || dur < 0 {
		return newError(ErrInvalidRewardDuration, ev, "want a non-negative number of seconds")
	}
	m.table.Append(models.Reward, models.Timed(ev.Time, dur))
	return nil
}

// completeTrial classifies a curve-tracing trial at POSTSWITCH.
func (m *Machine) completeTrial(ev models.LogEvent) error {
	if !ev.Task.IsCurveFamily() {
		return newError(ErrUnexpectedTask, ev, "only curve-tracing tasks end with %s", models.StatePostSwitch)
	}
	if m.trial.StimulusOnset == nil {
		return newError(ErrMissingStimulusOnset, ev, "no %s state in this trial", models.StatePreSwitch)
	}

	category, err := m.outcome(ev)
	if err != nil {
		return err
	}

	interval := models.Interval(*m.trial.StimulusOnset, ev.Time)
	m.table.Append(category, interval)
	if category.IsNotCorrect() {
		m.table.Append(models.CurveNotCorrect, interval)
	}
	if m.trial.ResponseCuesOnset != nil {
		m.table.Append(models.ResponseCues, models.Interval(*m.trial.ResponseCuesOnset, ev.Time))
	}
	return nil
}

// outcome applies the trial decision table, top to bottom.
func (m *Machine) outcome(ev models.LogEvent) (models.Category, error) {
	resp := m.trial.Response
	switch {
	case resp != nil && *resp == models.ResponseIncorrect:
		return models.CurveIncorrect, nil
	case resp == nil && m.trial.Switched:
		return models.CurveNoResponse, nil
	case resp == nil:
		// Not verified against the fixation stream; a trial that never
		// switched is counted as a fixation break.
		return models.CurveFixationBreak, nil
	case *resp == models.ResponseFixationBreak:
		return models.CurveFixationBreak, nil
	case *resp == models.ResponseCorrect:
		if m.trial.Target == nil {
			return "", newError(ErrMissingTargetLocation, ev, "correct response without a target")
		}
		category, ok := models.TargetCategory(*m.trial.Target)
		if !ok {
			return "", newError(ErrUnknownTargetLocation, ev, "target %q", *m.trial.Target)
		}
		return category, nil
	default:
		return "", newError(ErrUnhandledResponse, ev, "response %q", *resp)
	}
}
