package services

import (
	"github.com/langflix/langflix-backend/internal/platform/logger"
	"github.com/langflix/langflix-backend/internal/types"
)

// Recommendation weighting. The 2-point decision margin is a hysteresis band so
// noisy signals do not oscillate the level.
const (
	weightFastClicks     = 2
	weightSlowClicks     = 3
	weightHighCompletion = 2
	weightLowCompletion  = 3
	weightHighQuiz       = 3
	weightLowQuiz        = 3
	weightFeedback       = 4

	slowClickThresholdMs = 7000
	feedbackImbalance    = 2
	decisionMargin       = 2
)

// InterpretClickSpeed buckets the gap between word clicks.
func InterpretClickSpeed(ms float64) string {
	switch {
	case ms < clickFastMs:
		return types.ClickFastLearner
	case ms < clickComfortableMs:
		return types.ClickComfortable
	case ms < clickStrugglingMs:
		return types.ClickStruggling
	default:
		return types.ClickOverwhelmed
	}
}

// InterpretCompletionRate buckets a completion percentage.
func InterpretCompletionRate(percentage float64) string {
	switch {
	case percentage > 90:
		return types.CompletionTooEasy
	case percentage > 70:
		return types.CompletionPerfect
	case percentage > 30:
		return types.CompletionAcceptable
	default:
		return types.CompletionTooHard
	}
}

// InterpretQuizScore buckets a quiz percentage.
func InterpretQuizScore(percentage float64) string {
	switch {
	case percentage > 80:
		return types.QuizMastery
	case percentage > 60:
		return types.QuizGood
	case percentage > 40:
		return types.QuizStruggling
	default:
		return types.QuizTooHard
	}
}

// InterpretTranslationTime buckets how long the user studied a translation.
func InterpretTranslationTime(dwellMs float64) string {
	switch {
	case dwellMs < 1000:
		return "quick_glance"
	case dwellMs < 3000:
		return "learning"
	case dwellMs < 7000:
		return "studying"
	default:
		return "memorizing"
	}
}

func InterpretVideoEvent(event types.VideoEventType) string {
	switch event {
	case types.VideoPause:
		return "needs_time"
	case types.VideoRewind:
		return "missed_something"
	case types.VideoSpeedUp:
		return "too_easy"
	case types.VideoSpeedDown:
		return "too_fast"
	case types.VideoSkip:
		return "not_interested"
	default:
		return "unknown"
	}
}

// EstimateLevelFromRank maps an average saved-word frequency rank to a level name.
func EstimateLevelFromRank(avgRank *float64) string {
	if avgRank == nil {
		return "unknown"
	}
	switch {
	case *avgRank < 500:
		return "A1"
	case *avgRank < 1500:
		return "A2"
	case *avgRank < 3000:
		return "B1"
	case *avgRank < 5000:
		return "B2"
	default:
		return "C1"
	}
}

// MicroEngagement scores a micro-interaction batch on [0,100]. Pauses, replays
// and subtitle clicks all read as engagement; watching sped-up reads as boredom.
func MicroEngagement(rec types.MicroInteractionRecord) float64 {
	score := 50.0
	score += minF(float64(len(rec.PausePoints))*5, 20)
	score += minF(float64(len(rec.ReplaySegments))*10, 30)
	score += minF(float64(len(rec.SubtitleClicks))*3, 20)
	if rec.WatchSpeed > 1.0 {
		score -= 10
	} else if rec.WatchSpeed < 1.0 {
		score += 5
	}
	return clampF(score, 0, 100)
}

func completionRecommendation(percentage float64) string {
	switch {
	case percentage > 90:
		return "Consider harder content"
	case percentage > 70:
		return "Perfect! Keep this difficulty"
	case percentage > 30:
		return "Content is challenging but manageable"
	default:
		return "Consider easier content"
	}
}

func interpretFeedbackBalance(balance int) string {
	switch {
	case balance > 3:
		return "increase_difficulty"
	case balance < -3:
		return "decrease_difficulty"
	default:
		return "perfect_balance"
	}
}

func interpretSavedWordsPattern(saves []types.SavedWord) string {
	if len(saves) < 5 {
		return "just_starting"
	}
	avg := avgWordRank(recentSaves(saves, types.SavedWordAnalysisSpan))
	if avg == nil {
		return "just_starting"
	}
	switch {
	case *avg < 500:
		return "beginner_words"
	case *avg < 1500:
		return "intermediate_words"
	case *avg < 3000:
		return "advanced_words"
	default:
		return "expert_words"
	}
}

// SignalInterpreter fuses raw session state into one actionable snapshot.
type SignalInterpreter interface {
	CalculateUserSignals(userID string) types.SignalsSnapshot
}

type signalInterpreter struct {
	store SignalStore
	log   *logger.Logger
}

func NewSignalInterpreter(baseLog *logger.Logger, store SignalStore) SignalInterpreter {
	return &signalInterpreter{
		store: store,
		log:   baseLog.With("service", "SignalInterpreter"),
	}
}

func (si *signalInterpreter) CalculateUserSignals(userID string) types.SignalsSnapshot {
	s, ok := si.store.Snapshot(userID)
	if !ok {
		return types.SignalsSnapshot{
			HasData: false,
			Recommendation: types.Recommendation{
				Action:     types.ActionMaintainLevel,
				Confidence: types.ConfidenceLow,
				Reasons:    []string{"No behavioral data yet"},
			},
			ConfidenceScore: types.ConfidenceLow,
		}
	}

	avgClick := mean(s.ClickLatencies)
	avgCompletion := mean(completionValues(s.CompletionRates))
	avgQuiz := mean(quizValues(s.QuizScores))
	balance := s.TooEasyCount - s.TooHardCount

	snapshot := types.SignalsSnapshot{
		HasData: true,
		ClickSpeed: types.MetricSignal{
			Avg:            avgClick,
			Interpretation: interpretOptional(avgClick, InterpretClickSpeed),
			Confidence:     windowConfidence(len(s.ClickLatencies), types.RollingWindowCap, types.ConfidenceMedium),
		},
		CompletionRate: types.MetricSignal{
			Avg:            avgCompletion,
			Interpretation: interpretOptional(avgCompletion, InterpretCompletionRate),
			Confidence:     windowConfidence(len(s.CompletionRates), 5, types.ConfidenceMedium),
		},
		QuizPerformance: types.MetricSignal{
			Avg:            avgQuiz,
			Interpretation: interpretOptional(avgQuiz, InterpretQuizScore),
			Confidence:     windowConfidence(len(s.QuizScores), 3, types.ConfidenceLow),
		},
		UserFeedback: types.FeedbackSignal{
			TooHardCount:   s.TooHardCount,
			TooEasyCount:   s.TooEasyCount,
			Balance:        balance,
			Interpretation: interpretFeedbackBalance(balance),
		},
		SavedWordsPattern: types.SavedWordsSignal{
			TotalSaved:     len(s.SavedWords),
			AvgWordRank:    avgWordRank(recentSaves(s.SavedWords, types.SavedWordAnalysisSpan)),
			Interpretation: interpretSavedWordsPattern(s.SavedWords),
		},
		Recommendation:  weighRecommendation(&s, avgClick, avgCompletion, avgQuiz),
		ConfidenceScore: overallConfidence(&s),
	}
	return snapshot
}

// interpretOptional guards the empty-window sentinel: no samples means
// "insufficient_data", never a division by zero or a bogus bucket.
func interpretOptional(avg *float64, bucket func(float64) string) string {
	if avg == nil {
		return "insufficient_data"
	}
	return bucket(*avg)
}

func windowConfidence(n, highAt int, fallback string) string {
	if n == 0 {
		return types.ConfidenceLow
	}
	if n >= highAt {
		return types.ConfidenceHigh
	}
	return fallback
}

// weighRecommendation accumulates signed weights from every extreme signal and
// applies the hysteresis margin.
func weighRecommendation(s *types.UserSession, avgClick, avgCompletion, avgQuiz *float64) types.Recommendation {
	var increaseScore, decreaseScore int
	var increaseReasons, decreaseReasons []string

	if avgClick != nil {
		if *avgClick < clickFastMs {
			increaseScore += weightFastClicks
			increaseReasons = append(increaseReasons, "Fast click speed")
		} else if *avgClick > slowClickThresholdMs {
			decreaseScore += weightSlowClicks
			decreaseReasons = append(decreaseReasons, "Slow click speed")
		}
	}
	if avgCompletion != nil {
		if *avgCompletion > 90 {
			increaseScore += weightHighCompletion
			increaseReasons = append(increaseReasons, "High completion rate")
		} else if *avgCompletion < 30 {
			decreaseScore += weightLowCompletion
			decreaseReasons = append(decreaseReasons, "Low completion rate")
		}
	}
	if avgQuiz != nil {
		if *avgQuiz > 80 {
			increaseScore += weightHighQuiz
			increaseReasons = append(increaseReasons, "High quiz scores")
		} else if *avgQuiz < 50 {
			decreaseScore += weightLowQuiz
			decreaseReasons = append(decreaseReasons, "Low quiz scores")
		}
	}
	if s.TooEasyCount > s.TooHardCount+feedbackImbalance {
		increaseScore += weightFeedback
		increaseReasons = append(increaseReasons, "User says too easy")
	} else if s.TooHardCount > s.TooEasyCount+feedbackImbalance {
		decreaseScore += weightFeedback
		decreaseReasons = append(decreaseReasons, "User says too hard")
	}

	switch {
	case increaseScore > decreaseScore+decisionMargin:
		return types.Recommendation{
			Action:     types.ActionIncreaseLevel,
			Confidence: types.ConfidenceHigh,
			Reasons:    increaseReasons,
		}
	case decreaseScore > increaseScore+decisionMargin:
		return types.Recommendation{
			Action:     types.ActionDecreaseLevel,
			Confidence: types.ConfidenceHigh,
			Reasons:    decreaseReasons,
		}
	default:
		return types.Recommendation{
			Action:     types.ActionMaintainLevel,
			Confidence: types.ConfidenceMedium,
			Reasons:    []string{"Performance indicators are balanced"},
		}
	}
}

// overallConfidence sums capped per-dimension sample contributions onto a 0-50
// scale, then buckets the normalized percentage.
func overallConfidence(s *types.UserSession) string {
	points := minF(float64(len(s.WordClicks))/10, 10)
	points += minF(float64(len(s.CompletionRates))/5, 10)
	points += minF(float64(len(s.QuizScores))/3, 10)
	points += minF(float64(len(s.SavedWords))/20, 10)
	points += minF(float64(s.TooHardCount+s.TooEasyCount)/2, 10)

	percentage := points / 50 * 100
	switch {
	case percentage > 70:
		return types.ConfidenceVeryHigh
	case percentage > 50:
		return types.ConfidenceHigh
	case percentage > 30:
		return types.ConfidenceMedium
	default:
		return types.ConfidenceLow
	}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
