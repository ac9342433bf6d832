package classifier

import "github.com/harrison/curvesplit/internal/models"

// ResponsePolicy decides what happens when a trial logs more than one response.
type ResponsePolicy int

const (
	// FirstResponseWins keeps the first ResponseGiven of a trial and ignores
	// the rest until TRIAL_END.
	FirstResponseWins ResponsePolicy = iota
)

// SwitchedPolicy decides the lifetime of the switched flag.
type SwitchedPolicy int

const (
	// StickyUntilTrialEnd sets the flag on the first SWITCHED state and keeps it
	// until TRIAL_END, whatever states follow.
	StickyUntilTrialEnd SwitchedPolicy = iota
)

// TrialState is the state scoped to one trial. It is reset at stream start and
// on every TRIAL_END. Nil pointers mean "not seen in this trial".
type TrialState struct {
	Stimulus          *models.StimulusContext
	Target            *string
	StimulusOnset     *float64
	Response          *string
	Switched          bool
	FixationTaskOnset *float64
	ResponseCuesOnset *float64

	ResponsePolicy ResponsePolicy
	SwitchedPolicy SwitchedPolicy
}

// NewTrialState returns an empty trial.
func NewTrialState() TrialState {
	return TrialState{
		ResponsePolicy: FirstResponseWins,
		SwitchedPolicy: StickyUntilTrialEnd,
	}
}

// RecordResponse stores the trial's response and reports whether it was kept.
func (s *TrialState) RecordResponse(info string) bool {
	if s.Response != nil && s.ResponsePolicy == FirstResponseWins {
		return false
	}
	s.Response = &info
	return true
}

// MarkSwitched sets the switched flag.
func (s *TrialState) MarkSwitched() {
	s.Switched = true
}

// StreamState lives for the whole log and survives TRIAL_END.
type StreamState struct {
	// TaskState is the info of the latest NewState row.
	TaskState string
	// FixationOnset is set while the subject fixates. A fixation may span a
	// trial boundary, so it is not part of TrialState.
	FixationOnset *float64
	// ManualRewardField is set once a ManualReward row was seen. A log uses
	// either ManualReward rows or ("Reward", "Manual") rows, never both.
	ManualRewardField bool
}

func ptr[T any](v T) *T { return &v }
