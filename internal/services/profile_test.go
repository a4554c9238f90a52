package services

import (
	"errors"
	"testing"
	"time"

	"github.com/langflix/langflix-backend/internal/platform/clock"
	"github.com/langflix/langflix-backend/internal/platform/logger"
	"github.com/langflix/langflix-backend/internal/types"
)

func newTestProfiles(t *testing.T) (ProfileService, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC))
	return NewProfileService(logger.NewNop(), clk), clk
}

func TestProfileCreatedLazily(t *testing.T) {
	ps, _ := newTestProfiles(t)

	p := ps.GetProfile("fresh")
	if p.CurrentLevel != types.LevelA1 {
		t.Fatalf("new profile level = %s, want A1", p.CurrentLevel)
	}
	if p.KnownWordCount != 0 {
		t.Fatalf("new profile wordCount = %d, want 0", p.KnownWordCount)
	}
}

func TestAssessInitialLevelTable(t *testing.T) {
	tests := []struct {
		name       string
		uhf, mid   int
		level      types.Level
		words      int
		confidence string
	}{
		{"perfect scores", 5, 5, types.LevelB2, 1500, types.ConfidenceHigh},
		{"strong with mid gap", 5, 4, types.LevelB1, 900, types.ConfidenceHigh},
		{"solid both", 4, 4, types.LevelB1, 800, types.ConfidenceHigh},
		{"high ultra mid partial", 4, 2, types.LevelA2, 400, types.ConfidenceHigh},
		{"high ultra only", 4, 0, types.LevelA2, 350, types.ConfidenceHigh},
		{"some basics", 2, 0, types.LevelA1, 150, types.ConfidenceMedium},
		{"nothing known", 0, 0, types.LevelA1, 0, types.ConfidenceMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps, _ := newTestProfiles(t)
			a, err := ps.AssessInitialLevel("u1", types.QuickTestResult{UltraHighFreq: tt.uhf, MidFreq: tt.mid})
			if err != nil {
				t.Fatalf("AssessInitialLevel: %v", err)
			}
			if a.Level != tt.level || a.EstimatedWordCount != tt.words {
				t.Fatalf("got %s/%d, want %s/%d", a.Level, a.EstimatedWordCount, tt.level, tt.words)
			}
			if a.Confidence != tt.confidence {
				t.Fatalf("confidence = %q, want %q", a.Confidence, tt.confidence)
			}
			if p := ps.GetProfile("u1"); p.CurrentLevel != tt.level {
				t.Fatalf("profile level = %s, want %s", p.CurrentLevel, tt.level)
			}
		})
	}
}

func TestAssessInitialLevelValidation(t *testing.T) {
	ps, _ := newTestProfiles(t)
	if _, err := ps.AssessInitialLevel("u1", types.QuickTestResult{UltraHighFreq: 6}); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if _, err := ps.AssessInitialLevel("u1", types.QuickTestResult{MidFreq: -1}); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestLevelFromWordCountMonotonic(t *testing.T) {
	prev := types.LevelA1
	for wc := 0; wc <= 4000; wc++ {
		got := types.LevelFromWordCount(wc)
		if got < prev {
			t.Fatalf("level reversed at wordCount %d: %s < %s", wc, got, prev)
		}
		if got > prev+1 {
			t.Fatalf("level skipped at wordCount %d: %s after %s", wc, got, prev)
		}
		prev = got
	}
	if prev != types.LevelC2 {
		t.Fatalf("final level = %s, want C2", prev)
	}
}

func TestCalculateDynamicLevel(t *testing.T) {
	ps, _ := newTestProfiles(t)

	words := make([]string, 700) // base B1
	res := ps.CalculateDynamicLevel("u1", types.BehavioralData{
		KnownWords:      words,
		ClickLatencies:  []float64{1000, 1500}, // fast: +0.2
		CompletionRates: []float64{95, 92},     // high: +0.2
		QuizScores:      []float64{90, 85},     // high: +0.3
	})
	// Factor 0.7 buckets to +1 level.
	if res.BaseLevel != types.LevelB1 {
		t.Fatalf("base = %s, want B1", res.BaseLevel)
	}
	if res.Level != types.LevelB2 {
		t.Fatalf("level = %s, want B2", res.Level)
	}
	if p := ps.GetProfile("u1"); p.CurrentLevel != types.LevelB2 || p.KnownWordCount != 700 {
		t.Fatalf("profile after recalc: %s/%d", p.CurrentLevel, p.KnownWordCount)
	}
}

func TestCalculateDynamicLevelTooHardWeighsHeavier(t *testing.T) {
	ps, _ := newTestProfiles(t)

	// One too_hard (-0.5) against one too_easy (+0.3) nets -0.2: no shift. A
	// second too_hard pushes to -0.7: one level down.
	ps.Mutate("u1", func(p *types.AdaptiveProfile) {
		p.TooHardClicks = 1
		p.TooEasyClicks = 1
	})
	res := ps.CalculateDynamicLevel("u1", types.BehavioralData{KnownWords: make([]string, 700)})
	if res.Level != types.LevelB1 {
		t.Fatalf("level = %s, want B1 (net -0.2)", res.Level)
	}

	ps.Mutate("u1", func(p *types.AdaptiveProfile) { p.TooHardClicks = 2 })
	res = ps.CalculateDynamicLevel("u1", types.BehavioralData{KnownWords: make([]string, 700)})
	if res.Level != types.LevelA2 {
		t.Fatalf("level = %s, want A2 (net -0.7)", res.Level)
	}
}

func TestCheckMilestoneFiresOncePerCrossing(t *testing.T) {
	ps, _ := newTestProfiles(t)

	ps.Mutate("u1", func(p *types.AdaptiveProfile) { p.KnownWordCount = 8 })

	m, err := ps.CheckMilestone("u1", 10)
	if err != nil {
		t.Fatalf("CheckMilestone: %v", err)
	}
	if m == nil || m.Milestone != 10 {
		t.Fatalf("milestone = %+v, want 10", m)
	}

	m, _ = ps.CheckMilestone("u1", 10)
	if m != nil {
		t.Fatalf("repeat call returned %+v, want nil", m)
	}
	if p := ps.GetProfile("u1"); p.KnownWordCount != 10 {
		t.Fatalf("wordCount = %d, want 10", p.KnownWordCount)
	}
}

func TestCheckMilestoneReturnsFirstCrossed(t *testing.T) {
	ps, _ := newTestProfiles(t)

	// Jumping 8 -> 35 crosses 10, 20 and 30; only the first is reported.
	ps.Mutate("u1", func(p *types.AdaptiveProfile) { p.KnownWordCount = 8 })
	m, _ := ps.CheckMilestone("u1", 35)
	if m == nil || m.Milestone != 10 {
		t.Fatalf("milestone = %+v, want 10", m)
	}
}

func TestCheckMilestoneRejectsNegative(t *testing.T) {
	ps, _ := newTestProfiles(t)
	if _, err := ps.CheckMilestone("u1", -1); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestBeginnerModeBoundary(t *testing.T) {
	ps, _ := newTestProfiles(t)

	ps.Mutate("u1", func(p *types.AdaptiveProfile) { p.KnownWordCount = 99 })
	if !ps.IsBeginnerMode("u1") {
		t.Fatal("99 words should still be beginner mode")
	}

	ps.Mutate("u1", func(p *types.AdaptiveProfile) { p.KnownWordCount = 100 })
	if ps.IsBeginnerMode("u1") {
		t.Fatal("100 words should leave beginner mode")
	}
}

func TestBeginnerModeSettings(t *testing.T) {
	ps, _ := newTestProfiles(t)

	ps.Mutate("u1", func(p *types.AdaptiveProfile) { p.KnownWordCount = 42 })
	s := ps.BeginnerModeSettings("u1")
	if !s.IsBeginnerMode {
		t.Fatal("expected beginner mode")
	}
	if s.MaxNewWordsPerItem != 3 || s.FrequencyRange != [2]int{1, 500} {
		t.Fatalf("policy = %+v", s)
	}
	if s.Milestone == nil || s.Milestone.Next != 50 || s.Milestone.Remaining != 8 {
		t.Fatalf("next milestone = %+v, want 50 in 8", s.Milestone)
	}

	ps.Mutate("u1", func(p *types.AdaptiveProfile) { p.KnownWordCount = 500 })
	if s := ps.BeginnerModeSettings("u1"); s.IsBeginnerMode {
		t.Fatal("500 words should not be beginner mode")
	}
}

func TestSetKnownWordsIsExplicitCorrection(t *testing.T) {
	ps, _ := newTestProfiles(t)

	ps.SetKnownWords("u1", []string{"hola", "adios", "gracias"})
	p := ps.GetProfile("u1")
	if p.KnownWordCount != 3 || len(p.KnownWords) != 3 {
		t.Fatalf("profile = %d words", p.KnownWordCount)
	}

	// Correction may shrink the count.
	ps.SetKnownWords("u1", []string{"hola"})
	if p := ps.GetProfile("u1"); p.KnownWordCount != 1 {
		t.Fatalf("wordCount after correction = %d, want 1", p.KnownWordCount)
	}
}
