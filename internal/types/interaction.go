package types

import "time"

// InteractionKind enumerates every interaction the orchestrator accepts. The set
// is closed: dispatch is an exhaustive type switch over the Interaction variants
// below, and anything else is an error at the boundary.
type InteractionKind string

const (
	KindWordClick         InteractionKind = "word_click"
	KindCompletion        InteractionKind = "completion"
	KindButtonClick       InteractionKind = "button_click"
	KindQuiz              InteractionKind = "quiz_complete"
	KindWordSave          InteractionKind = "word_save"
	KindTranslationDwell  InteractionKind = "translation_dwell"
	KindVideoEvent        InteractionKind = "video_event"
	KindMicroInteractions InteractionKind = "micro_interactions"
	KindWatchInterval     InteractionKind = "watch_interval"
	KindRewatch           InteractionKind = "rewatch"
	KindSkip              InteractionKind = "skip"
)

// Interaction is a sealed union of user-interaction payloads.
type Interaction interface {
	Kind() InteractionKind
}

type WordClickInteraction struct {
	Word      string    `json:"word"`
	Timestamp time.Time `json:"timestamp,omitempty"`
	Context   string    `json:"context,omitempty"`
}

type CompletionInteraction struct {
	ContentID   string  `json:"contentId"`
	Percentage  float64 `json:"percentage"`
	DurationSec float64 `json:"durationSec,omitempty"`
}

type ButtonClickInteraction struct {
	Button    ButtonType `json:"button"`
	ContentID string     `json:"contentId,omitempty"`
}

type QuizInteraction struct {
	QuizID string  `json:"quizId"`
	Score  float64 `json:"score"`
	Total  float64 `json:"total"`
}

type WordSaveInteraction struct {
	Word       string `json:"word"`
	Rank       int    `json:"rank,omitempty"`
	Level      string `json:"level,omitempty"`
	TotalWords int    `json:"totalWords,omitempty"`
}

type TranslationDwellInteraction struct {
	Word    string  `json:"word"`
	DwellMs float64 `json:"dwellMs"`
}

type VideoEventInteraction struct {
	ContentID string         `json:"contentId"`
	Event     VideoEventType `json:"event"`
}

type MicroInteractionsInteraction struct {
	VideoID        string       `json:"videoId"`
	PausePoints    []float64    `json:"pausePoints,omitempty"`
	ReplaySegments [][2]float64 `json:"replaySegments,omitempty"`
	SubtitleClicks []string     `json:"subtitleClicks,omitempty"`
	WatchSpeed     float64      `json:"watchSpeed,omitempty"`
}

type WatchIntervalInteraction struct {
	ContentID     string  `json:"contentId"`
	CurrentTime   float64 `json:"currentTime"`
	TotalDuration float64 `json:"totalDuration"`
}

type RewatchInteraction struct {
	ContentID string `json:"contentId"`
}

type SkipInteraction struct {
	ContentID     string  `json:"contentId"`
	WatchTime     float64 `json:"watchTime"`
	TotalDuration float64 `json:"totalDuration"`
}

func (WordClickInteraction) Kind() InteractionKind         { return KindWordClick }
func (CompletionInteraction) Kind() InteractionKind        { return KindCompletion }
func (ButtonClickInteraction) Kind() InteractionKind       { return KindButtonClick }
func (QuizInteraction) Kind() InteractionKind              { return KindQuiz }
func (WordSaveInteraction) Kind() InteractionKind          { return KindWordSave }
func (TranslationDwellInteraction) Kind() InteractionKind  { return KindTranslationDwell }
func (VideoEventInteraction) Kind() InteractionKind        { return KindVideoEvent }
func (MicroInteractionsInteraction) Kind() InteractionKind { return KindMicroInteractions }
func (WatchIntervalInteraction) Kind() InteractionKind     { return KindWatchInterval }
func (RewatchInteraction) Kind() InteractionKind           { return KindRewatch }
func (SkipInteraction) Kind() InteractionKind              { return KindSkip }
