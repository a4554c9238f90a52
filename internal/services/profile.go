package services

import (
	"fmt"
	"sync"

	"github.com/langflix/langflix-backend/internal/platform/clock"
	"github.com/langflix/langflix-backend/internal/platform/logger"
	"github.com/langflix/langflix-backend/internal/types"
)

// Known-word threshold below which beginner protection applies. Recomputed on
// every read, never stored.
const beginnerWordThreshold = 100

// Vocabulary milestones, in crossing order.
var milestones = []int{10, 20, 30, 50, 75, 100, 150, 200, 300, 500, 1000}

// Dynamic-level adjustment factors. The too_easy/too_hard asymmetry is
// intentional: a "too hard" complaint weighs heavier than a "too easy" one.
const (
	factorFastClicks     = 0.2
	factorSlowClicks     = -0.3
	factorHighCompletion = 0.2
	factorLowCompletion  = -0.5
	factorHighQuiz       = 0.3
	factorLowQuiz        = -0.4
	factorAdvancedSaves  = 0.2
	factorPerTooHard     = -0.5
	factorPerTooEasy     = 0.3

	advancedWordRank      = 1000
	advancedSaveThreshold = 5
)

// ProfileService owns per-user adaptive profiles. Profiles are created lazily
// (level A1, zero words) and mutated under a per-user lock.
type ProfileService interface {
	GetProfile(userID string) types.AdaptiveProfile
	AssessInitialLevel(userID string, result types.QuickTestResult) (types.Assessment, error)
	SetKnownWords(userID string, words []string)
	CalculateDynamicLevel(userID string, data types.BehavioralData) types.DynamicLevelResult
	IsBeginnerMode(userID string) bool
	BeginnerModeSettings(userID string) types.BeginnerSettings
	CheckMilestone(userID string, newWordCount int) (*types.Milestone, error)

	// Mutate runs fn against the live profile under its lock. The adjustment
	// engine uses this to keep read-modify-write sequences atomic per user.
	Mutate(userID string, fn func(p *types.AdaptiveProfile))
}

type profileEntry struct {
	mu sync.Mutex
	p  types.AdaptiveProfile
}

type profileService struct {
	mu       sync.RWMutex
	profiles map[string]*profileEntry
	clk      clock.Clock
	log      *logger.Logger
}

func NewProfileService(baseLog *logger.Logger, clk clock.Clock) ProfileService {
	return &profileService{
		profiles: make(map[string]*profileEntry),
		clk:      clk,
		log:      baseLog.With("service", "ProfileService"),
	}
}

func (ps *profileService) entry(userID string) *profileEntry {
	ps.mu.RLock()
	e, ok := ps.profiles[userID]
	ps.mu.RUnlock()
	if ok {
		return e
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	if e, ok := ps.profiles[userID]; ok {
		return e
	}
	now := ps.clk.Now()
	e = &profileEntry{p: types.AdaptiveProfile{
		UserID:          userID,
		CurrentLevel:    types.LevelA1,
		LastLevelChange: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}}
	ps.profiles[userID] = e
	ps.log.Debug("profile created", "user_id", userID)
	return e
}

func (ps *profileService) Mutate(userID string, fn func(p *types.AdaptiveProfile)) {
	e := ps.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.p)
	e.p.UpdatedAt = ps.clk.Now()
}

// GetProfile returns a copy safe for concurrent reads.
func (ps *profileService) GetProfile(userID string) types.AdaptiveProfile {
	e := ps.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.p
	p.KnownWords = append([]string(nil), e.p.KnownWords...)
	p.AdjustmentLog = append([]types.AdjustmentRecord(nil), e.p.AdjustmentLog...)
	return p
}

func (ps *profileService) AssessInitialLevel(userID string, result types.QuickTestResult) (types.Assessment, error) {
	if result.UltraHighFreq < 0 || result.UltraHighFreq > 5 {
		return types.Assessment{}, fmt.Errorf("%w: ultraHighFreq %d outside [0,5]", ErrValidation, result.UltraHighFreq)
	}
	if result.MidFreq < 0 || result.MidFreq > 5 {
		return types.Assessment{}, fmt.Errorf("%w: midFreq %d outside [0,5]", ErrValidation, result.MidFreq)
	}

	level, estimatedWords := placementDecision(result.UltraHighFreq, result.MidFreq)

	confidence := types.ConfidenceMedium
	if result.UltraHighFreq >= 4 {
		confidence = types.ConfidenceHigh
	}

	ps.Mutate(userID, func(p *types.AdaptiveProfile) {
		fresh := p.KnownWordCount == 0 && len(p.AdjustmentLog) == 0
		p.CurrentLevel = level
		if fresh {
			p.KnownWordCount = estimatedWords
		}
	})

	assessment := types.Assessment{
		Level:              level,
		EstimatedWordCount: estimatedWords,
		Confidence:         confidence,
		Reasoning:          placementReasoning(level, result.UltraHighFreq, result.MidFreq),
	}
	ps.log.Info("initial level assessed", "user_id", userID, "level", level.String(), "estimated_words", estimatedWords)
	return assessment, nil
}

// placementDecision is the 30-second swipe-test decision table.
func placementDecision(ultraHighFreq, midFreq int) (types.Level, int) {
	switch {
	case ultraHighFreq >= 5 && midFreq >= 5:
		return types.LevelB2, 1500
	case ultraHighFreq >= 5 && midFreq >= 4:
		return types.LevelB1, 900
	case ultraHighFreq >= 4:
		switch {
		case midFreq >= 4:
			return types.LevelB1, 800
		case midFreq >= 2:
			return types.LevelA2, 400
		default:
			return types.LevelA2, 350
		}
	case ultraHighFreq >= 2:
		return types.LevelA1, 150
	default:
		return types.LevelA1, 0
	}
}

func placementReasoning(level types.Level, ultraHighFreq, midFreq int) string {
	switch {
	case level == types.LevelB2:
		return fmt.Sprintf("Perfect scores: %d/5 ultra-high and %d/5 mid-frequency words known. Starting at upper-intermediate level.", ultraHighFreq, midFreq)
	case level == types.LevelB1:
		return fmt.Sprintf("%d/5 ultra-high and %d/5 mid-frequency words known. Starting at intermediate level.", ultraHighFreq, midFreq)
	case level == types.LevelA2 && ultraHighFreq >= 4:
		return fmt.Sprintf("%d/5 ultra-high frequency words known, but mid-frequency words were a struggle. Starting at elementary level.", ultraHighFreq)
	case level == types.LevelA2:
		return fmt.Sprintf("%d/5 ultra-high frequency words known. Starting at upper beginner level.", ultraHighFreq)
	default:
		return "Starting at absolute beginner level with the most common words first."
	}
}

// SetKnownWords is the explicit vocabulary correction call; it may lower
// KnownWordCount.
func (ps *profileService) SetKnownWords(userID string, words []string) {
	ps.Mutate(userID, func(p *types.AdaptiveProfile) {
		p.KnownWords = append([]string(nil), words...)
		p.KnownWordCount = len(words)
	})
}

func (ps *profileService) CalculateDynamicLevel(userID string, data types.BehavioralData) types.DynamicLevelResult {
	baseLevel := types.LevelFromWordCount(len(data.KnownWords))

	var factor float64
	if avg := mean(data.ClickLatencies); avg != nil {
		if *avg < clickFastMs {
			factor += factorFastClicks
		}
		if *avg > clickComfortableMs {
			factor += factorSlowClicks
		}
	}
	if avg := mean(data.CompletionRates); avg != nil {
		if *avg > 90 {
			factor += factorHighCompletion
		}
		if *avg < 30 {
			factor += factorLowCompletion
		}
	}
	if avg := mean(data.QuizScores); avg != nil {
		if *avg > 80 {
			factor += factorHighQuiz
		}
		if *avg < 50 {
			factor += factorLowQuiz
		}
	}
	var advancedSaves int
	for _, w := range data.SavedWords {
		if w.Rank > advancedWordRank {
			advancedSaves++
		}
	}
	if advancedSaves > advancedSaveThreshold {
		factor += factorAdvancedSaves
	}

	var adjusted types.Level
	ps.Mutate(userID, func(p *types.AdaptiveProfile) {
		f := factor
		f += float64(p.TooHardClicks) * factorPerTooHard
		f += float64(p.TooEasyClicks) * factorPerTooEasy
		factor = f

		adjusted = baseLevel.Step(levelShift(f))
		p.CurrentLevel = adjusted
		p.KnownWordCount = len(data.KnownWords)
	})

	return types.DynamicLevelResult{
		Level:      adjusted,
		BaseLevel:  baseLevel,
		Adjustment: factor,
		Confidence: behavioralConfidence(data),
		Reasoning:  dynamicLevelReasoning(baseLevel, adjusted),
	}
}

// levelShift buckets an accumulated adjustment factor into whole level steps.
func levelShift(factor float64) int {
	switch {
	case factor >= 1.0:
		return 2
	case factor >= 0.5:
		return 1
	case factor <= -1.0:
		return -2
	case factor <= -0.5:
		return -1
	default:
		return 0
	}
}

func behavioralConfidence(data types.BehavioralData) string {
	dataPoints := len(data.KnownWords) + len(data.ClickLatencies) + len(data.CompletionRates) + len(data.QuizScores) + len(data.SavedWords)
	switch {
	case dataPoints > 50:
		return types.ConfidenceVeryHigh
	case dataPoints > 20:
		return types.ConfidenceHigh
	case dataPoints > 10:
		return types.ConfidenceMedium
	default:
		return types.ConfidenceLow
	}
}

func dynamicLevelReasoning(base, adjusted types.Level) string {
	switch {
	case base == adjusted:
		return fmt.Sprintf("Level remains %s based on current performance", adjusted)
	case adjusted > base:
		return fmt.Sprintf("Upgraded from %s to %s based on strong performance", base, adjusted)
	default:
		return fmt.Sprintf("Adjusted from %s to %s to match the current comfort zone", base, adjusted)
	}
}

func (ps *profileService) IsBeginnerMode(userID string) bool {
	p := ps.GetProfile(userID)
	return p.KnownWordCount < beginnerWordThreshold
}

func (ps *profileService) BeginnerModeSettings(userID string) types.BeginnerSettings {
	p := ps.GetProfile(userID)
	if p.KnownWordCount >= beginnerWordThreshold {
		return types.BeginnerSettings{IsBeginnerMode: false}
	}
	return types.BeginnerSettings{
		IsBeginnerMode:        true,
		MaxNewWordsPerItem:    3,
		FrequencyRange:        [2]int{1, 500},
		ShowExtraHints:        true,
		SlowerProgression:     true,
		EncouragementMessages: true,
		Milestone:             nextMilestone(p.KnownWordCount),
	}
}

func nextMilestone(wordCount int) *types.NextMilestone {
	for _, m := range milestones {
		if m > wordCount {
			return &types.NextMilestone{
				Next:      m,
				Remaining: m - wordCount,
				Message:   fmt.Sprintf("%d more words to reach %d words!", m-wordCount, m),
			}
		}
	}
	return nil
}

// CheckMilestone reports the first milestone crossed by moving the known-word
// count to newWordCount, then updates the count whether or not one fired. A
// milestone fires at most once: the stored count advances past it.
func (ps *profileService) CheckMilestone(userID string, newWordCount int) (*types.Milestone, error) {
	if newWordCount < 0 {
		return nil, fmt.Errorf("%w: word count must be non-negative", ErrValidation)
	}

	var crossed *types.Milestone
	ps.Mutate(userID, func(p *types.AdaptiveProfile) {
		oldCount := p.KnownWordCount
		for _, m := range milestones {
			if oldCount < m && newWordCount >= m {
				crossed = &types.Milestone{
					Milestone: m,
					Message:   milestoneMessage(m),
					Reward:    milestoneReward(m),
				}
				break
			}
		}
		p.KnownWordCount = newWordCount
	})

	if crossed != nil {
		ps.log.Info("milestone reached", "user_id", userID, "milestone", crossed.Milestone)
	}
	return crossed, nil
}

func milestoneMessage(milestone int) string {
	messages := map[int]string{
		10:   "Amazing! You've learned your first 10 words!",
		20:   "Fantastic! 20 words - you're building momentum!",
		30:   "Incredible! 30 words - you're on fire!",
		50:   "Wow! 50 words - you're a fast learner!",
		75:   "Outstanding! 75 words - you're making real progress!",
		100:  "Congratulations! 100 words - you've reached A1 level!",
		150:  "Superb! 150 words - you're halfway to A2!",
		200:  "Brilliant! 200 words - you can have basic conversations!",
		300:  "Excellent! 300 words - you've reached A2 level!",
		500:  "Phenomenal! 500 words - you're becoming fluent!",
		1000: "Legendary! 1000 words - you're a master!",
	}
	if msg, ok := messages[milestone]; ok {
		return msg
	}
	return fmt.Sprintf("Amazing! You've reached %d words!", milestone)
}

func milestoneReward(milestone int) string {
	switch {
	case milestone <= 20:
		return "beginner_badge"
	case milestone <= 100:
		return "learner_badge"
	case milestone <= 300:
		return "intermediate_badge"
	case milestone <= 500:
		return "advanced_badge"
	default:
		return "master_badge"
	}
}
