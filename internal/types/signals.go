package types

// Qualitative click-speed buckets.
const (
	ClickFastLearner = "fast_learner"
	ClickComfortable = "comfortable"
	ClickStruggling  = "struggling"
	ClickOverwhelmed = "overwhelmed"
)

// Qualitative completion-rate buckets.
const (
	CompletionTooEasy    = "too_easy"
	CompletionPerfect    = "perfect"
	CompletionAcceptable = "acceptable"
	CompletionTooHard    = "too_hard"
)

// Qualitative quiz buckets.
const (
	QuizMastery    = "mastery"
	QuizGood       = "good"
	QuizStruggling = "struggling"
	QuizTooHard    = "too_hard"
)

// Recommendation actions.
const (
	ActionIncreaseLevel = "increase_level"
	ActionDecreaseLevel = "decrease_level"
	ActionMaintainLevel = "maintain_level"
)

// Confidence buckets.
const (
	ConfidenceVeryHigh = "very_high"
	ConfidenceHigh     = "high"
	ConfidenceMedium   = "medium"
	ConfidenceLow      = "low"
)

// MetricSignal is one interpreted behavioral dimension. Avg is nil when the
// underlying window is empty (insufficient data, never NaN).
type MetricSignal struct {
	Avg            *float64 `json:"avg"`
	Interpretation string   `json:"interpretation"`
	Confidence     string   `json:"confidence"`
}

type FeedbackSignal struct {
	TooHardCount   int    `json:"tooHardCount"`
	TooEasyCount   int    `json:"tooEasyCount"`
	Balance        int    `json:"balance"`
	Interpretation string `json:"interpretation"`
}

type SavedWordsSignal struct {
	TotalSaved     int      `json:"totalSaved"`
	AvgWordRank    *float64 `json:"avgWordRank"`
	Interpretation string   `json:"interpretation"`
}

type Recommendation struct {
	Action     string   `json:"action"`
	Confidence string   `json:"confidence"`
	Reasons    []string `json:"reasons"`
}

// SignalsSnapshot is the ephemeral fused view of one user's behavioral state.
// Derived on demand, never persisted.
type SignalsSnapshot struct {
	HasData           bool             `json:"hasData"`
	ClickSpeed        MetricSignal     `json:"clickSpeed"`
	CompletionRate    MetricSignal     `json:"completionRate"`
	QuizPerformance   MetricSignal     `json:"quizPerformance"`
	UserFeedback      FeedbackSignal   `json:"userFeedback"`
	SavedWordsPattern SavedWordsSignal `json:"savedWordsPattern"`
	Recommendation    Recommendation   `json:"recommendation"`
	ConfidenceScore   string           `json:"confidenceScore"`
}
