package types

import "time"

// AdjustmentRecord is one entry of a profile's append-only adjustment log.
type AdjustmentRecord struct {
	ID        string     `json:"id"`
	Type      SignalType `json:"type"`
	Timestamp time.Time  `json:"timestamp"`
	OldLevel  Level      `json:"oldLevel"`
	NewLevel  Level      `json:"newLevel"`
	Action    string     `json:"action"`
}

// AdaptiveProfile is the per-user proficiency state. Owned by the profile store,
// which serializes all mutation per user.
type AdaptiveProfile struct {
	UserID          string             `json:"userId"`
	CurrentLevel    Level              `json:"currentLevel"`
	KnownWordCount  int                `json:"knownWordCount"`
	KnownWords      []string           `json:"knownWords"`
	TooHardClicks   int                `json:"tooHardClicks"`
	TooEasyClicks   int                `json:"tooEasyClicks"`
	LastLevelChange time.Time          `json:"lastLevelChange"`
	AdjustmentLog   []AdjustmentRecord `json:"adjustmentLog"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// QuickTestResult is the outcome of the 30-second swipe placement test: how many
// of the five ultra-high-frequency and five mid-frequency probe words the user knew.
type QuickTestResult struct {
	UltraHighFreq int  `json:"ultraHighFreq"`
	MidFreq       int  `json:"midFreq"`
	KnowsBasics   bool `json:"knowsBasics"`
}

type Assessment struct {
	Level              Level  `json:"level"`
	EstimatedWordCount int    `json:"estimatedWordCount"`
	Confidence         string `json:"confidence"`
	Reasoning          string `json:"reasoning"`
}

// BehavioralData is the raw material for a dynamic level recalculation.
type BehavioralData struct {
	KnownWords      []string    `json:"knownWords"`
	ClickLatencies  []float64   `json:"clickLatencies"`
	CompletionRates []float64   `json:"completionRates"`
	QuizScores      []float64   `json:"quizScores"`
	SavedWords      []SavedWord `json:"savedWords"`
}

type DynamicLevelResult struct {
	Level      Level   `json:"level"`
	BaseLevel  Level   `json:"baseLevel"`
	Adjustment float64 `json:"adjustment"`
	Confidence string  `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

type NextMilestone struct {
	Next      int    `json:"next"`
	Remaining int    `json:"remaining"`
	Message   string `json:"message"`
}

type Milestone struct {
	Milestone int    `json:"milestone"`
	Message   string `json:"message"`
	Reward    string `json:"reward"`
}

// BeginnerSettings is the protective content policy for users below the
// known-vocabulary threshold. Never persisted; always recomputed.
type BeginnerSettings struct {
	IsBeginnerMode        bool           `json:"isBeginnerMode"`
	MaxNewWordsPerItem    int            `json:"maxNewWordsPerItem,omitempty"`
	FrequencyRange        [2]int         `json:"frequencyRange,omitempty"`
	ShowExtraHints        bool           `json:"showExtraHints,omitempty"`
	SlowerProgression     bool           `json:"slowerProgression,omitempty"`
	EncouragementMessages bool           `json:"encouragementMessages,omitempty"`
	Milestone             *NextMilestone `json:"milestone,omitempty"`
}
