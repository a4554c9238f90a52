package types

// Per-operation tracking results returned by the signal store. All are plain
// serializable data for the HTTP layer.

type ClickTrackResult struct {
	ClickSpeedMs    float64  `json:"clickSpeedMs"`
	AvgClickSpeedMs *float64 `json:"avgClickSpeedMs"`
	Signal          string   `json:"signal"`
}

type CompletionTrackResult struct {
	Percentage        float64  `json:"percentage"`
	AvgCompletionRate *float64 `json:"avgCompletionRate"`
	Signal            string   `json:"signal"`
	Recommendation    string   `json:"recommendation"`
}

type ButtonTrackResult struct {
	Button           ButtonType `json:"button"`
	TooHardCount     int        `json:"tooHardCount"`
	TooEasyCount     int        `json:"tooEasyCount"`
	UrgentAdjustment bool       `json:"urgentAdjustment"`
}

type QuizTrackResult struct {
	Score      float64  `json:"score"`
	Percentage float64  `json:"percentage"`
	AvgScore   *float64 `json:"avgScore"`
	Signal     string   `json:"signal"`
}

type WordSaveTrackResult struct {
	Word            string   `json:"word"`
	TotalSavedWords int      `json:"totalSavedWords"`
	AvgWordRank     *float64 `json:"avgWordRank"`
	EstimatedLevel  string   `json:"estimatedLevel"`
}

type TranslationTrackResult struct {
	DwellMs float64 `json:"dwellMs"`
	Signal  string  `json:"signal"`
}

type VideoEventTrackResult struct {
	Event  VideoEventType `json:"event"`
	Signal string         `json:"signal"`
}

type MicroTrackResult struct {
	PauseCount         int     `json:"pauseCount"`
	ReplayCount        int     `json:"replayCount"`
	SubtitleClickCount int     `json:"subtitleClickCount"`
	Engagement         float64 `json:"engagement"`
}

type WatchIntervalResult struct {
	Hooked         bool    `json:"hooked"`
	Signal         string  `json:"signal,omitempty"`
	CurrentTime    float64 `json:"currentTime"`
	MaxWatchedSec  float64 `json:"maxWatchedSec"`
	CompletionRate float64 `json:"completionRate"`
}

type RewatchResult struct {
	IsRewatch       bool    `json:"isRewatch"`
	FirstView       bool    `json:"firstView,omitempty"`
	RewatchCount    int     `json:"rewatchCount,omitempty"`
	EngagementBoost float64 `json:"engagementBoost,omitempty"`
	Signal          string  `json:"signal,omitempty"`
}

type SkipResult struct {
	IsSkip    bool    `json:"isSkip"`
	Signal    string  `json:"signal,omitempty"`
	WatchTime float64 `json:"watchTime"`
}

// RecordOutcome is the combined result of one orchestrated interaction.
// Tracking holds the kind-specific result struct above.
type RecordOutcome struct {
	Tracked         bool              `json:"tracked"`
	Tracking        any               `json:"tracking"`
	Signals         SignalsSnapshot   `json:"signals"`
	Adjustment      *AdjustmentResult `json:"adjustment,omitempty"`
	AutoAdjustment  *AdjustmentResult `json:"autoAdjustment,omitempty"`
	Milestone       *Milestone        `json:"milestone,omitempty"`
	FeedInvalidated bool              `json:"feedInvalidated"`
}
