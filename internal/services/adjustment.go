package services

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/langflix/langflix-backend/internal/platform/clock"
	"github.com/langflix/langflix-backend/internal/platform/logger"
	"github.com/langflix/langflix-backend/internal/types"
)

// Fractional step factors per trigger. Steps are ceil(factor), so every
// non-zero factor below moves a whole level. Keeping the fractions makes the
// relative urgency of each trigger explicit.
const (
	stepTooHard       = 0.5
	stepTooEasy       = 0.5
	stepFastClicks    = 0.2
	stepLowCompletion = 0.3
	stepQuizSuccess   = 0.3
	stepQuizStruggle  = 0.4
)

// Trigger conditions for the behavioral signals. Explicit user feedback
// (too_hard/too_easy) is unconditional.
const (
	triggerFastClickMs      = 2000
	triggerLowCompletionPct = 30
	triggerQuizSuccessPct   = 80
	triggerQuizStrugglePct  = 50
)

// AdjustmentEngine applies real-time CEFR level moves in response to explicit
// feedback and extreme behavioral signals.
type AdjustmentEngine interface {
	AdjustDifficultyInRealTime(userID string, signal types.AdjustmentSignal) types.AdjustmentResult
}

type adjustmentEngine struct {
	profiles ProfileService
	clk      clock.Clock
	log      *logger.Logger
}

func NewAdjustmentEngine(baseLog *logger.Logger, profiles ProfileService, clk clock.Clock) AdjustmentEngine {
	return &adjustmentEngine{
		profiles: profiles,
		clk:      clk,
		log:      baseLog.With("service", "AdjustmentEngine"),
	}
}

func (ae *adjustmentEngine) AdjustDifficultyInRealTime(userID string, signal types.AdjustmentSignal) types.AdjustmentResult {
	var result types.AdjustmentResult

	ae.profiles.Mutate(userID, func(p *types.AdaptiveProfile) {
		oldLevel := p.CurrentLevel
		newLevel := oldLevel
		action := "No adjustment"

		switch signal.Type {
		case types.SignalTooHard:
			p.TooHardClicks++
			newLevel = oldLevel.Step(-steps(stepTooHard))
			action = "Decreased difficulty"
		case types.SignalTooEasy:
			p.TooEasyClicks++
			newLevel = oldLevel.Step(steps(stepTooEasy))
			action = "Increased difficulty"
		case types.SignalClickSpeedFast:
			if signal.AvgSpeedMs < triggerFastClickMs {
				newLevel = oldLevel.Step(steps(stepFastClicks))
				action = "Increased difficulty (fast clicks)"
			}
		case types.SignalCompletionLow:
			if signal.Percentage < triggerLowCompletionPct {
				newLevel = oldLevel.Step(-steps(stepLowCompletion))
				action = "Decreased difficulty (low completion)"
			}
		case types.SignalQuizSuccess:
			if signal.Score > triggerQuizSuccessPct {
				newLevel = oldLevel.Step(steps(stepQuizSuccess))
				action = "Increased difficulty (quiz success)"
			}
		case types.SignalQuizStruggle:
			if signal.Score < triggerQuizStrugglePct {
				newLevel = oldLevel.Step(-steps(stepQuizStruggle))
				action = "Decreased difficulty (quiz struggle)"
			}
		}

		p.CurrentLevel = newLevel
		p.LastLevelChange = ae.clk.Now()
		p.AdjustmentLog = append(p.AdjustmentLog, types.AdjustmentRecord{
			ID:        uuid.NewString(),
			Type:      signal.Type,
			Timestamp: ae.clk.Now(),
			OldLevel:  oldLevel,
			NewLevel:  newLevel,
			Action:    action,
		})

		result = types.AdjustmentResult{
			OldLevel: oldLevel,
			NewLevel: newLevel,
			Changed:  newLevel != oldLevel,
			Action:   action,
			Message:  adjustmentMessage(oldLevel, newLevel),
		}
	})

	if result.Changed {
		ae.log.Info("level adjusted",
			"user_id", userID,
			"signal", signal.Type,
			"old_level", result.OldLevel.String(),
			"new_level", result.NewLevel.String())
	}
	return result
}

// steps converts a fractional urgency factor into whole level steps.
func steps(factor float64) int {
	return int(math.Ceil(factor))
}

func adjustmentMessage(oldLevel, newLevel types.Level) string {
	switch {
	case newLevel == oldLevel:
		return fmt.Sprintf("Level remains %s", oldLevel)
	case newLevel > oldLevel:
		return fmt.Sprintf("Great progress! Moved from %s to %s", oldLevel, newLevel)
	default:
		return fmt.Sprintf("Adjusted from %s to %s for a better fit", oldLevel, newLevel)
	}
}
