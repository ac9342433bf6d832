package models

// LogEvent is one row of a behavioral event log. Times are in seconds.
type LogEvent struct {
	Time       float64 // time_s
	RecordTime float64 // record_time_s, NaN when the log has no value
	Task       Task
	Event      string
	Info       string
	ID         string // task-scoped identifier, may be empty
	Line       int    // 1-based line in the source file, 0 for synthetic rows
}

// EventLog is the ordered event table read from a single log file.
// Rows keep file order; nothing downstream re-sorts them.
type EventLog struct {
	Path          string
	Events        []LogEvent
	HasRecordTime bool
}

// Event vocabulary written by the stimulus presentation software.
const (
	EventMRITrigger       = "MRI_Trigger"
	EventNewState         = "NewState"
	EventFixation         = "Fixation"
	EventNewStimulus      = "NewStimulus"
	EventTargetLoc        = "TargetLoc"
	EventResponseGiven    = "ResponseGiven"
	EventResponseInitiate = "Response_Initiate"
	EventResponseReward   = "ResponseReward"
	EventTaskReward       = "TaskReward"
	EventManualReward     = "ManualReward"
	EventReward           = "Reward"
)

// Info payloads with a fixed meaning.
const (
	InfoTriggerReceived = "Received"

	StateTrialEnd       = "TRIAL_END"
	StatePreSwitch      = "PRESWITCH"
	StateSwitched       = "SWITCHED"
	StatePostSwitch     = "POSTSWITCH"
	StateFixationPeriod = "FIXATION_PERIOD"
	StatePostFixation   = "POSTFIXATION"

	FixationIn  = "In"
	FixationOut = "Out"

	ResponseCorrect       = "CORRECT"
	ResponseIncorrect     = "INCORRECT"
	ResponseFixationBreak = "FixationBreak"

	InfoHandLeft  = "Left"
	InfoHandRight = "Right"

	RewardManual = "Manual"
)

// ManualRewardDuration is the reward length, in seconds, logged implicitly by
// a ("Reward", "Manual") row.
const ManualRewardDuration = 0.04
