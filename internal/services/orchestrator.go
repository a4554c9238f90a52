package services

import (
	"context"
	"fmt"

	"github.com/langflix/langflix-backend/internal/platform/logger"
	"github.com/langflix/langflix-backend/internal/types"
)

// Orchestrator is the single entry point the transport layer talks to. It
// routes each interaction to the signal store, recomputes signals, applies any
// resulting level adjustment and invalidates the feed when the level moved.
type Orchestrator interface {
	RecordInteraction(ctx context.Context, userID string, in types.Interaction) (*types.RecordOutcome, error)
	GetSignals(userID string) types.SignalsSnapshot
	AssessInitialLevel(userID string, result types.QuickTestResult) (types.Assessment, error)
	AdjustRealtime(ctx context.Context, userID string, signal types.AdjustmentSignal) types.AdjustmentResult
	ScoreContent(userID string, items []types.ContentItem) []types.ScoredContent
	CheckMilestone(ctx context.Context, userID string, newWordCount int) (*types.Milestone, error)
	GetBeginnerSettings(userID string) types.BeginnerSettings
	GetProfile(userID string) types.AdaptiveProfile
	SetKnownWords(ctx context.Context, userID string, words []string)
	SessionStats(userID string) *types.SessionStats
	CheckProgression(userID string) types.DynamicLevelResult
}

type orchestrator struct {
	store       SignalStore
	interpreter SignalInterpreter
	profiles    ProfileService
	engine      AdjustmentEngine
	scorer      DifficultyScorer
	feed        FeedService
	vocab       VocabularyProvider
	log         *logger.Logger
}

func NewOrchestrator(
	baseLog *logger.Logger,
	store SignalStore,
	interpreter SignalInterpreter,
	profiles ProfileService,
	engine AdjustmentEngine,
	scorer DifficultyScorer,
	feed FeedService,
	vocab VocabularyProvider,
) Orchestrator {
	return &orchestrator{
		store:       store,
		interpreter: interpreter,
		profiles:    profiles,
		engine:      engine,
		scorer:      scorer,
		feed:        feed,
		vocab:       vocab,
		log:         baseLog.With("service", "Orchestrator"),
	}
}

func (o *orchestrator) RecordInteraction(ctx context.Context, userID string, in types.Interaction) (*types.RecordOutcome, error) {
	outcome := &types.RecordOutcome{Tracked: true}

	switch v := in.(type) {
	case types.WordClickInteraction:
		res, err := o.store.TrackWordClick(userID, v.Word, v.Timestamp, v.Context)
		if err != nil {
			return nil, err
		}
		outcome.Tracking = res

	case types.CompletionInteraction:
		res, err := o.store.TrackCompletionRate(userID, v.ContentID, v.Percentage, v.DurationSec)
		if err != nil {
			return nil, err
		}
		outcome.Tracking = res

	case types.ButtonClickInteraction:
		res, err := o.store.TrackButtonClick(userID, v.Button, v.ContentID)
		if err != nil {
			return nil, err
		}
		outcome.Tracking = res

		// Explicit feedback adjusts immediately, no signal aggregation needed.
		var sig types.SignalType
		switch v.Button {
		case types.ButtonTooHard:
			sig = types.SignalTooHard
		case types.ButtonTooEasy:
			sig = types.SignalTooEasy
		default:
			return nil, fmt.Errorf("%w: button %q", ErrValidation, v.Button)
		}
		adj := o.engine.AdjustDifficultyInRealTime(userID, types.AdjustmentSignal{Type: sig, ContentID: v.ContentID})
		outcome.Adjustment = &adj
		// Counters and the fused recommendation move even when the level is
		// clamped, so the feed goes stale either way.
		o.feed.InvalidateFeed(ctx, userID)
		outcome.FeedInvalidated = true

	case types.QuizInteraction:
		res, err := o.store.TrackQuizPerformance(userID, v.QuizID, v.Score, v.Total)
		if err != nil {
			return nil, err
		}
		outcome.Tracking = res

	case types.WordSaveInteraction:
		// Clients may omit the frequency rank; the vocabulary fills it in.
		if v.Rank == 0 && o.vocab != nil {
			if rank, ok := o.vocab.Rank(v.Word); ok {
				v.Rank = rank
				if v.Level == "" {
					v.Level = o.vocab.LevelForRank(rank)
				}
			}
		}
		res, err := o.store.TrackWordSave(userID, v.Word, v.Rank, v.Level)
		if err != nil {
			return nil, err
		}
		outcome.Tracking = res
		newCount := v.TotalWords
		if newCount == 0 {
			newCount = o.profiles.GetProfile(userID).KnownWordCount + 1
		}
		milestone, err := o.profiles.CheckMilestone(userID, newCount)
		if err != nil {
			return nil, err
		}
		outcome.Milestone = milestone

	case types.TranslationDwellInteraction:
		res, err := o.store.TrackTranslationTime(userID, v.Word, v.DwellMs)
		if err != nil {
			return nil, err
		}
		outcome.Tracking = res

	case types.VideoEventInteraction:
		res, err := o.store.TrackVideoInteraction(userID, v.ContentID, v.Event)
		if err != nil {
			return nil, err
		}
		outcome.Tracking = res

	case types.MicroInteractionsInteraction:
		res, err := o.store.TrackMicroInteractions(userID, v)
		if err != nil {
			return nil, err
		}
		outcome.Tracking = res

	case types.WatchIntervalInteraction:
		res, err := o.store.TrackWatchTimeInterval(userID, v.ContentID, v.CurrentTime, v.TotalDuration)
		if err != nil {
			return nil, err
		}
		outcome.Tracking = res

	case types.RewatchInteraction:
		outcome.Tracking = o.store.DetectRewatch(userID, v.ContentID)

	case types.SkipInteraction:
		res, err := o.store.DetectSkipPattern(userID, v.ContentID, v.WatchTime, v.TotalDuration)
		if err != nil {
			return nil, err
		}
		outcome.Tracking = res

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownInteractionType, in)
	}

	outcome.Signals = o.interpreter.CalculateUserSignals(userID)

	// A non-neutral aggregate recommendation feeds back into the engine. These
	// performance signals leave the level unchanged today, but the trigger is
	// recorded on the adjustment log and the feed is rebuilt either way.
	if outcome.Adjustment == nil {
		switch outcome.Signals.Recommendation.Action {
		case types.ActionIncreaseLevel:
			adj := o.engine.AdjustDifficultyInRealTime(userID, types.AdjustmentSignal{Type: types.SignalPerformanceHigh})
			outcome.AutoAdjustment = &adj
			o.feed.InvalidateFeed(ctx, userID)
			outcome.FeedInvalidated = true
		case types.ActionDecreaseLevel:
			adj := o.engine.AdjustDifficultyInRealTime(userID, types.AdjustmentSignal{Type: types.SignalPerformanceLow})
			outcome.AutoAdjustment = &adj
			o.feed.InvalidateFeed(ctx, userID)
			outcome.FeedInvalidated = true
		}
	}

	return outcome, nil
}

func (o *orchestrator) GetSignals(userID string) types.SignalsSnapshot {
	return o.interpreter.CalculateUserSignals(userID)
}

func (o *orchestrator) AssessInitialLevel(userID string, result types.QuickTestResult) (types.Assessment, error) {
	return o.profiles.AssessInitialLevel(userID, result)
}

func (o *orchestrator) AdjustRealtime(ctx context.Context, userID string, signal types.AdjustmentSignal) types.AdjustmentResult {
	adj := o.engine.AdjustDifficultyInRealTime(userID, signal)
	o.feed.InvalidateFeed(ctx, userID)
	return adj
}

// ScoreContent ranks caller-supplied items against the user's profile, best
// score first.
func (o *orchestrator) ScoreContent(userID string, items []types.ContentItem) []types.ScoredContent {
	feed := o.scorer.GetGoldilocksContent(o.profiles.GetProfile(userID), items)
	return feed.All
}

func (o *orchestrator) CheckMilestone(ctx context.Context, userID string, newWordCount int) (*types.Milestone, error) {
	milestone, err := o.profiles.CheckMilestone(userID, newWordCount)
	if err != nil {
		return nil, err
	}
	if milestone != nil {
		o.feed.InvalidateFeed(ctx, userID)
	}
	return milestone, nil
}

func (o *orchestrator) GetBeginnerSettings(userID string) types.BeginnerSettings {
	return o.profiles.BeginnerModeSettings(userID)
}

func (o *orchestrator) GetProfile(userID string) types.AdaptiveProfile {
	return o.profiles.GetProfile(userID)
}

func (o *orchestrator) SetKnownWords(ctx context.Context, userID string, words []string) {
	o.profiles.SetKnownWords(userID, words)
	o.feed.InvalidateFeed(ctx, userID)
}

func (o *orchestrator) SessionStats(userID string) *types.SessionStats {
	return o.store.SessionStats(userID)
}

// CheckProgression recomputes the dynamic level from the live session plus the
// profile's known vocabulary.
func (o *orchestrator) CheckProgression(userID string) types.DynamicLevelResult {
	profile := o.profiles.GetProfile(userID)
	data := types.BehavioralData{KnownWords: profile.KnownWords}
	if s, ok := o.store.Snapshot(userID); ok {
		data.ClickLatencies = s.ClickLatencies
		data.CompletionRates = completionValues(s.CompletionRates)
		data.QuizScores = quizValues(s.QuizScores)
		data.SavedWords = s.SavedWords
	}
	return o.profiles.CalculateDynamicLevel(userID, data)
}
