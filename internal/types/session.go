package types

import "time"

// Rolling-window and log capacities for per-user behavioral state.
const (
	RollingWindowCap      = 10
	SavedWordAnalysisSpan = 20
	MicroInteractionCap   = 50
	SkipLogCap            = 50
)

type ButtonType string

const (
	ButtonTooHard ButtonType = "too_hard"
	ButtonTooEasy ButtonType = "too_easy"
)

type VideoEventType string

const (
	VideoPause     VideoEventType = "pause"
	VideoRewind    VideoEventType = "rewind"
	VideoSpeedUp   VideoEventType = "speed_up"
	VideoSpeedDown VideoEventType = "speed_down"
	VideoSkip      VideoEventType = "skip"
)

type WordClick struct {
	Word        string    `json:"word"`
	Timestamp   time.Time `json:"timestamp"`
	SincePrevMs float64   `json:"sincePrevMs"`
	Context     string    `json:"context,omitempty"`
}

type CompletionSample struct {
	ContentID   string    `json:"contentId"`
	Percentage  float64   `json:"percentage"`
	DurationSec float64   `json:"durationSec,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type ButtonClick struct {
	Type      ButtonType `json:"type"`
	ContentID string     `json:"contentId,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

type TranslationSample struct {
	Word      string    `json:"word"`
	DwellMs   float64   `json:"dwellMs"`
	Timestamp time.Time `json:"timestamp"`
}

type SavedWord struct {
	Word      string    `json:"word"`
	Rank      int       `json:"rank,omitempty"`
	Level     string    `json:"level,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type QuizSample struct {
	QuizID     string    `json:"quizId"`
	Score      float64   `json:"score"`
	Total      float64   `json:"total"`
	Percentage float64   `json:"percentage"`
	Timestamp  time.Time `json:"timestamp"`
}

type VideoEvent struct {
	ContentID string         `json:"contentId"`
	Type      VideoEventType `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
}

type MicroInteractionRecord struct {
	VideoID        string       `json:"videoId"`
	PausePoints    []float64    `json:"pausePoints,omitempty"`
	ReplaySegments [][2]float64 `json:"replaySegments,omitempty"`
	SubtitleClicks []string     `json:"subtitleClicks,omitempty"`
	WatchSpeed     float64      `json:"watchSpeed"`
	Timestamp      time.Time    `json:"timestamp"`
}

type WatchProgress struct {
	MaxWatchedSec float64 `json:"maxWatchedSec"`
	DurationSec   float64 `json:"durationSec"`
	HookFired     bool    `json:"hookFired"`
}

type RewatchRecord struct {
	Count       int       `json:"count"`
	FirstSeenAt time.Time `json:"firstSeenAt"`
}

type SkipRecord struct {
	ContentID   string    `json:"contentId"`
	WatchTime   float64   `json:"watchTime"`
	DurationSec float64   `json:"durationSec"`
	Timestamp   time.Time `json:"timestamp"`
}

// UserSession is the per-user behavioral signal state. It is owned by the signal
// store, which serializes all mutation per user.
type UserSession struct {
	UserID       string    `json:"userId"`
	StartedAt    time.Time `json:"startedAt"`
	LastActivity time.Time `json:"lastActivity"`

	WordClicks     []WordClick `json:"wordClicks"`
	ClickLatencies []float64   `json:"clickLatencies"` // rolling, ms
	LastClickAt    time.Time   `json:"lastClickAt"`

	CompletionRates []CompletionSample `json:"completionRates"` // rolling

	ButtonClicks []ButtonClick `json:"buttonClicks"`
	TooHardCount int           `json:"tooHardCount"`
	TooEasyCount int           `json:"tooEasyCount"`

	TranslationTimes []TranslationSample `json:"translationTimes"`
	SavedWords       []SavedWord         `json:"savedWords"`
	QuizScores       []QuizSample        `json:"quizScores"` // rolling

	VideoEvents       []VideoEvent             `json:"videoEvents"`
	MicroInteractions []MicroInteractionRecord `json:"microInteractions"` // capped

	WatchProgress map[string]*WatchProgress `json:"watchProgress"`
	Rewatches     map[string]*RewatchRecord `json:"rewatches"`
	SkipLog       []SkipRecord              `json:"skipLog"` // capped
}

// SessionStats is a read-only summary of a user session.
type SessionStats struct {
	TotalWordClicks    int       `json:"totalWordClicks"`
	TotalContentViewed int       `json:"totalContentViewed"`
	TotalQuizzesTaken  int       `json:"totalQuizzesTaken"`
	TotalWordsSaved    int       `json:"totalWordsSaved"`
	AvgClickSpeedMs    *float64  `json:"avgClickSpeedMs"`
	AvgCompletionRate  *float64  `json:"avgCompletionRate"`
	TooHardClicks      int       `json:"tooHardClicks"`
	TooEasyClicks      int       `json:"tooEasyClicks"`
	SessionStart       time.Time `json:"sessionStart"`
	LastActivity       time.Time `json:"lastActivity"`
}
