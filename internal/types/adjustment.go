package types

// SignalType identifies a real-time adjustment trigger.
type SignalType string

const (
	SignalTooHard        SignalType = "too_hard"
	SignalTooEasy        SignalType = "too_easy"
	SignalClickSpeedFast SignalType = "click_speed_fast"
	SignalCompletionLow  SignalType = "completion_low"
	SignalQuizSuccess    SignalType = "quiz_success"
	SignalQuizStruggle   SignalType = "quiz_struggle"

	// Recommendation-driven triggers. The engine treats these as no-ops (level
	// unchanged) but still records and reports them.
	SignalPerformanceHigh SignalType = "performance_high"
	SignalPerformanceLow  SignalType = "performance_low"
)

// AdjustmentSignal is the closed payload for AdjustDifficultyInRealTime. Only the
// fields relevant to Type are consulted.
type AdjustmentSignal struct {
	Type       SignalType `json:"type"`
	ContentID  string     `json:"contentId,omitempty"`
	AvgSpeedMs float64    `json:"avgSpeedMs,omitempty"`
	Percentage float64    `json:"percentage,omitempty"`
	Score      float64    `json:"score,omitempty"`
}

type AdjustmentResult struct {
	OldLevel Level  `json:"oldLevel"`
	NewLevel Level  `json:"newLevel"`
	Changed  bool   `json:"changed"`
	Action   string `json:"action"`
	Message  string `json:"message"`
}
