package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/langflix/langflix-backend/internal/platform/clock"
	"github.com/langflix/langflix-backend/internal/platform/logger"
	"github.com/langflix/langflix-backend/internal/types"
)

// Click-speed interpretation thresholds (ms between word clicks).
const (
	clickFastMs        = 2000
	clickComfortableMs = 5000
	clickStrugglingMs  = 10000
)

// Engagement heuristics for rewatch/skip detection.
const (
	rewatchEngagementBoost = 5
	quickSkipThresholdSec  = 2
	hookThresholdSec       = 3
)

// SignalStore ingests raw behavioral events into per-user session state.
// All mutation for a single user is serialized; distinct users proceed in
// parallel.
type SignalStore interface {
	TrackWordClick(userID, word string, ts time.Time, context string) (types.ClickTrackResult, error)
	TrackCompletionRate(userID, contentID string, percentage, durationSec float64) (types.CompletionTrackResult, error)
	TrackButtonClick(userID string, button types.ButtonType, contentID string) (types.ButtonTrackResult, error)
	TrackQuizPerformance(userID, quizID string, score, total float64) (types.QuizTrackResult, error)
	TrackWordSave(userID, word string, rank int, level string) (types.WordSaveTrackResult, error)
	TrackTranslationTime(userID, word string, dwellMs float64) (types.TranslationTrackResult, error)
	TrackVideoInteraction(userID, contentID string, event types.VideoEventType) (types.VideoEventTrackResult, error)
	TrackMicroInteractions(userID string, in types.MicroInteractionsInteraction) (types.MicroTrackResult, error)
	TrackWatchTimeInterval(userID, contentID string, currentTime, totalDuration float64) (types.WatchIntervalResult, error)
	DetectRewatch(userID, contentID string) types.RewatchResult
	DetectSkipPattern(userID, contentID string, watchTime, totalDuration float64) (types.SkipResult, error)

	Snapshot(userID string) (types.UserSession, bool)
	SessionStats(userID string) *types.SessionStats
}

type sessionEntry struct {
	mu sync.Mutex
	s  types.UserSession
}

type signalStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	clk      clock.Clock
	log      *logger.Logger
}

func NewSignalStore(baseLog *logger.Logger, clk clock.Clock) SignalStore {
	return &signalStore{
		sessions: make(map[string]*sessionEntry),
		clk:      clk,
		log:      baseLog.With("service", "SignalStore"),
	}
}

func (st *signalStore) entry(userID string) *sessionEntry {
	st.mu.RLock()
	e, ok := st.sessions[userID]
	st.mu.RUnlock()
	if ok {
		return e
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if e, ok := st.sessions[userID]; ok {
		return e
	}
	now := st.clk.Now()
	e = &sessionEntry{s: types.UserSession{
		UserID:        userID,
		StartedAt:     now,
		LastActivity:  now,
		WatchProgress: make(map[string]*types.WatchProgress),
		Rewatches:     make(map[string]*types.RewatchRecord),
	}}
	st.sessions[userID] = e
	st.log.Debug("session created", "user_id", userID)
	return e
}

// pushWindow appends v to a FIFO window, evicting the oldest entry at capacity.
func pushWindow[T any](win []T, v T, capacity int) []T {
	if len(win) >= capacity {
		win = win[len(win)-capacity+1:]
	}
	return append(win, v)
}

func mean(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	avg := sum / float64(len(vals))
	return &avg
}

func (st *signalStore) TrackWordClick(userID, word string, ts time.Time, context string) (types.ClickTrackResult, error) {
	if word == "" {
		return types.ClickTrackResult{}, fmt.Errorf("%w: word is required", ErrValidation)
	}
	if ts.IsZero() {
		ts = st.clk.Now()
	}

	e := st.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	s := &e.s

	// Latency against the previous click; the first click in a session counts
	// as zero.
	var sinceMs float64
	if !s.LastClickAt.IsZero() {
		sinceMs = float64(ts.Sub(s.LastClickAt).Milliseconds())
	}
	s.WordClicks = append(s.WordClicks, types.WordClick{
		Word:        word,
		Timestamp:   ts,
		SincePrevMs: sinceMs,
		Context:     context,
	})
	s.LastClickAt = ts
	s.ClickLatencies = pushWindow(s.ClickLatencies, sinceMs, types.RollingWindowCap)
	s.LastActivity = st.clk.Now()

	return types.ClickTrackResult{
		ClickSpeedMs:    sinceMs,
		AvgClickSpeedMs: mean(s.ClickLatencies),
		Signal:          InterpretClickSpeed(sinceMs),
	}, nil
}

func (st *signalStore) TrackCompletionRate(userID, contentID string, percentage, durationSec float64) (types.CompletionTrackResult, error) {
	if percentage < 0 || percentage > 100 {
		return types.CompletionTrackResult{}, fmt.Errorf("%w: completion percentage %v outside [0,100]", ErrValidation, percentage)
	}

	e := st.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	s := &e.s

	s.CompletionRates = pushWindow(s.CompletionRates, types.CompletionSample{
		ContentID:   contentID,
		Percentage:  percentage,
		DurationSec: durationSec,
		Timestamp:   st.clk.Now(),
	}, types.RollingWindowCap)
	s.LastActivity = st.clk.Now()

	return types.CompletionTrackResult{
		Percentage:        percentage,
		AvgCompletionRate: mean(completionValues(s.CompletionRates)),
		Signal:            InterpretCompletionRate(percentage),
		Recommendation:    completionRecommendation(percentage),
	}, nil
}

func (st *signalStore) TrackButtonClick(userID string, button types.ButtonType, contentID string) (types.ButtonTrackResult, error) {
	if button == "" {
		return types.ButtonTrackResult{}, fmt.Errorf("%w: button type is required", ErrValidation)
	}

	e := st.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	s := &e.s

	s.ButtonClicks = append(s.ButtonClicks, types.ButtonClick{
		Type:      button,
		ContentID: contentID,
		Timestamp: st.clk.Now(),
	})
	switch button {
	case types.ButtonTooHard:
		s.TooHardCount++
	case types.ButtonTooEasy:
		s.TooEasyCount++
	}
	s.LastActivity = st.clk.Now()

	return types.ButtonTrackResult{
		Button:           button,
		TooHardCount:     s.TooHardCount,
		TooEasyCount:     s.TooEasyCount,
		UrgentAdjustment: urgentAdjustmentNeeded(s.ButtonClicks),
	}, nil
}

// urgentAdjustmentNeeded reports whether the last three button clicks all agree.
func urgentAdjustmentNeeded(clicks []types.ButtonClick) bool {
	if len(clicks) < 3 {
		return false
	}
	last := clicks[len(clicks)-3:]
	allHard, allEasy := true, true
	for _, c := range last {
		if c.Type != types.ButtonTooHard {
			allHard = false
		}
		if c.Type != types.ButtonTooEasy {
			allEasy = false
		}
	}
	return allHard || allEasy
}

func (st *signalStore) TrackQuizPerformance(userID, quizID string, score, total float64) (types.QuizTrackResult, error) {
	if total <= 0 {
		return types.QuizTrackResult{}, fmt.Errorf("%w: quiz total must be positive", ErrValidation)
	}
	if score < 0 || score > total {
		return types.QuizTrackResult{}, fmt.Errorf("%w: quiz score %v outside [0,%v]", ErrValidation, score, total)
	}

	percentage := score / total * 100

	e := st.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	s := &e.s

	s.QuizScores = pushWindow(s.QuizScores, types.QuizSample{
		QuizID:     quizID,
		Score:      score,
		Total:      total,
		Percentage: percentage,
		Timestamp:  st.clk.Now(),
	}, types.RollingWindowCap)
	s.LastActivity = st.clk.Now()

	return types.QuizTrackResult{
		Score:      score,
		Percentage: percentage,
		AvgScore:   mean(quizValues(s.QuizScores)),
		Signal:     InterpretQuizScore(percentage),
	}, nil
}

func (st *signalStore) TrackWordSave(userID, word string, rank int, level string) (types.WordSaveTrackResult, error) {
	if word == "" {
		return types.WordSaveTrackResult{}, fmt.Errorf("%w: word is required", ErrValidation)
	}
	if rank < 0 {
		return types.WordSaveTrackResult{}, fmt.Errorf("%w: word rank must be non-negative", ErrValidation)
	}

	e := st.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	s := &e.s

	s.SavedWords = append(s.SavedWords, types.SavedWord{
		Word:      word,
		Rank:      rank,
		Level:     level,
		Timestamp: st.clk.Now(),
	})
	s.LastActivity = st.clk.Now()

	recent := recentSaves(s.SavedWords, types.SavedWordAnalysisSpan)
	avgRank := avgWordRank(recent)
	return types.WordSaveTrackResult{
		Word:            word,
		TotalSavedWords: len(s.SavedWords),
		AvgWordRank:     avgRank,
		EstimatedLevel:  EstimateLevelFromRank(avgRank),
	}, nil
}

func (st *signalStore) TrackTranslationTime(userID, word string, dwellMs float64) (types.TranslationTrackResult, error) {
	if dwellMs < 0 {
		return types.TranslationTrackResult{}, fmt.Errorf("%w: dwell time must be non-negative", ErrValidation)
	}

	e := st.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	s := &e.s

	s.TranslationTimes = append(s.TranslationTimes, types.TranslationSample{
		Word:      word,
		DwellMs:   dwellMs,
		Timestamp: st.clk.Now(),
	})
	s.LastActivity = st.clk.Now()

	return types.TranslationTrackResult{
		DwellMs: dwellMs,
		Signal:  InterpretTranslationTime(dwellMs),
	}, nil
}

func (st *signalStore) TrackVideoInteraction(userID, contentID string, event types.VideoEventType) (types.VideoEventTrackResult, error) {
	if contentID == "" {
		return types.VideoEventTrackResult{}, fmt.Errorf("%w: contentId is required", ErrValidation)
	}

	e := st.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	s := &e.s

	s.VideoEvents = append(s.VideoEvents, types.VideoEvent{
		ContentID: contentID,
		Type:      event,
		Timestamp: st.clk.Now(),
	})
	s.LastActivity = st.clk.Now()

	return types.VideoEventTrackResult{
		Event:  event,
		Signal: InterpretVideoEvent(event),
	}, nil
}

func (st *signalStore) TrackMicroInteractions(userID string, in types.MicroInteractionsInteraction) (types.MicroTrackResult, error) {
	if in.VideoID == "" {
		return types.MicroTrackResult{}, fmt.Errorf("%w: videoId is required", ErrValidation)
	}

	watchSpeed := in.WatchSpeed
	if watchSpeed == 0 {
		watchSpeed = 1.0
	}
	rec := types.MicroInteractionRecord{
		VideoID:        in.VideoID,
		PausePoints:    in.PausePoints,
		ReplaySegments: in.ReplaySegments,
		SubtitleClicks: in.SubtitleClicks,
		WatchSpeed:     watchSpeed,
		Timestamp:      st.clk.Now(),
	}

	e := st.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	s := &e.s

	s.MicroInteractions = pushWindow(s.MicroInteractions, rec, types.MicroInteractionCap)
	s.LastActivity = st.clk.Now()

	return types.MicroTrackResult{
		PauseCount:         len(rec.PausePoints),
		ReplayCount:        len(rec.ReplaySegments),
		SubtitleClickCount: len(rec.SubtitleClicks),
		Engagement:         MicroEngagement(rec),
	}, nil
}

func (st *signalStore) TrackWatchTimeInterval(userID, contentID string, currentTime, totalDuration float64) (types.WatchIntervalResult, error) {
	if contentID == "" {
		return types.WatchIntervalResult{}, fmt.Errorf("%w: contentId is required", ErrValidation)
	}
	if currentTime < 0 || totalDuration <= 0 {
		return types.WatchIntervalResult{}, fmt.Errorf("%w: watch interval out of range", ErrValidation)
	}

	e := st.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	s := &e.s

	wp, ok := s.WatchProgress[contentID]
	if !ok {
		wp = &types.WatchProgress{DurationSec: totalDuration}
		s.WatchProgress[contentID] = wp
	}
	if currentTime > wp.MaxWatchedSec {
		wp.MaxWatchedSec = currentTime
	}
	s.LastActivity = st.clk.Now()

	// Hook detection fires once per content, the first time the user watches
	// past the opening seconds.
	if currentTime >= hookThresholdSec && !wp.HookFired {
		wp.HookFired = true
		return types.WatchIntervalResult{
			Hooked:         true,
			Signal:         "user_hooked",
			CurrentTime:    currentTime,
			MaxWatchedSec:  wp.MaxWatchedSec,
			CompletionRate: currentTime / totalDuration * 100,
		}, nil
	}

	return types.WatchIntervalResult{
		CurrentTime:    currentTime,
		MaxWatchedSec:  wp.MaxWatchedSec,
		CompletionRate: currentTime / totalDuration * 100,
	}, nil
}

func (st *signalStore) DetectRewatch(userID, contentID string) types.RewatchResult {
	e := st.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	s := &e.s

	if rec, ok := s.Rewatches[contentID]; ok {
		rec.Count++
		return types.RewatchResult{
			IsRewatch:       true,
			RewatchCount:    rec.Count,
			EngagementBoost: rewatchEngagementBoost,
			Signal:          "boost_similar_content",
		}
	}

	s.Rewatches[contentID] = &types.RewatchRecord{Count: 1, FirstSeenAt: st.clk.Now()}
	return types.RewatchResult{FirstView: true}
}

func (st *signalStore) DetectSkipPattern(userID, contentID string, watchTime, totalDuration float64) (types.SkipResult, error) {
	if watchTime < 0 {
		return types.SkipResult{}, fmt.Errorf("%w: watch time must be non-negative", ErrValidation)
	}

	if watchTime >= quickSkipThresholdSec {
		return types.SkipResult{IsSkip: false, WatchTime: watchTime}, nil
	}

	e := st.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	s := &e.s

	s.SkipLog = pushWindow(s.SkipLog, types.SkipRecord{
		ContentID:   contentID,
		WatchTime:   watchTime,
		DurationSec: totalDuration,
		Timestamp:   st.clk.Now(),
	}, types.SkipLogCap)
	s.LastActivity = st.clk.Now()

	return types.SkipResult{
		IsSkip:    true,
		Signal:    "suppress_similar_content",
		WatchTime: watchTime,
	}, nil
}

// Snapshot returns a copy of the user's session safe for concurrent reads.
func (st *signalStore) Snapshot(userID string) (types.UserSession, bool) {
	st.mu.RLock()
	e, ok := st.sessions[userID]
	st.mu.RUnlock()
	if !ok {
		return types.UserSession{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.s

	s.WordClicks = append([]types.WordClick(nil), e.s.WordClicks...)
	s.ClickLatencies = append([]float64(nil), e.s.ClickLatencies...)
	s.CompletionRates = append([]types.CompletionSample(nil), e.s.CompletionRates...)
	s.ButtonClicks = append([]types.ButtonClick(nil), e.s.ButtonClicks...)
	s.TranslationTimes = append([]types.TranslationSample(nil), e.s.TranslationTimes...)
	s.SavedWords = append([]types.SavedWord(nil), e.s.SavedWords...)
	s.QuizScores = append([]types.QuizSample(nil), e.s.QuizScores...)
	s.VideoEvents = append([]types.VideoEvent(nil), e.s.VideoEvents...)
	s.MicroInteractions = append([]types.MicroInteractionRecord(nil), e.s.MicroInteractions...)
	s.SkipLog = append([]types.SkipRecord(nil), e.s.SkipLog...)
	s.WatchProgress = make(map[string]*types.WatchProgress, len(e.s.WatchProgress))
	for k, v := range e.s.WatchProgress {
		cp := *v
		s.WatchProgress[k] = &cp
	}
	s.Rewatches = make(map[string]*types.RewatchRecord, len(e.s.Rewatches))
	for k, v := range e.s.Rewatches {
		cp := *v
		s.Rewatches[k] = &cp
	}
	return s, true
}

func (st *signalStore) SessionStats(userID string) *types.SessionStats {
	s, ok := st.Snapshot(userID)
	if !ok {
		return nil
	}
	return &types.SessionStats{
		TotalWordClicks:    len(s.WordClicks),
		TotalContentViewed: len(s.CompletionRates),
		TotalQuizzesTaken:  len(s.QuizScores),
		TotalWordsSaved:    len(s.SavedWords),
		AvgClickSpeedMs:    mean(s.ClickLatencies),
		AvgCompletionRate:  mean(completionValues(s.CompletionRates)),
		TooHardClicks:      s.TooHardCount,
		TooEasyClicks:      s.TooEasyCount,
		SessionStart:       s.StartedAt,
		LastActivity:       s.LastActivity,
	}
}

func completionValues(samples []types.CompletionSample) []float64 {
	out := make([]float64, 0, len(samples))
	for _, s := range samples {
		out = append(out, s.Percentage)
	}
	return out
}

func quizValues(samples []types.QuizSample) []float64 {
	out := make([]float64, 0, len(samples))
	for _, s := range samples {
		out = append(out, s.Percentage)
	}
	return out
}

func recentSaves(saves []types.SavedWord, span int) []types.SavedWord {
	if len(saves) <= span {
		return saves
	}
	return saves[len(saves)-span:]
}

func avgWordRank(saves []types.SavedWord) *float64 {
	var sum float64
	var n int
	for _, w := range saves {
		if w.Rank > 0 {
			sum += float64(w.Rank)
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}
