package services

import (
	"errors"
	"testing"
	"time"

	"github.com/langflix/langflix-backend/internal/platform/clock"
	"github.com/langflix/langflix-backend/internal/platform/logger"
	"github.com/langflix/langflix-backend/internal/types"
)

func newTestStore(t *testing.T) (SignalStore, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC))
	return NewSignalStore(logger.NewNop(), clk), clk
}

func TestTrackWordClickBuckets(t *testing.T) {
	store, clk := newTestStore(t)

	first, err := store.TrackWordClick("u1", "hola", clk.Now(), "")
	if err != nil {
		t.Fatalf("TrackWordClick: %v", err)
	}
	if first.ClickSpeedMs != 0 {
		t.Fatalf("first click latency = %v, want 0", first.ClickSpeedMs)
	}
	if first.Signal != types.ClickFastLearner {
		t.Fatalf("first click signal = %q, want %q", first.Signal, types.ClickFastLearner)
	}

	tests := []struct {
		gap    time.Duration
		signal string
	}{
		{1500 * time.Millisecond, types.ClickFastLearner},
		{3 * time.Second, types.ClickComfortable},
		{8 * time.Second, types.ClickStruggling},
		{15 * time.Second, types.ClickOverwhelmed},
	}
	for _, tt := range tests {
		clk.Advance(tt.gap)
		res, err := store.TrackWordClick("u1", "palabra", clk.Now(), "")
		if err != nil {
			t.Fatalf("TrackWordClick: %v", err)
		}
		if res.Signal != tt.signal {
			t.Fatalf("gap %v: signal = %q, want %q", tt.gap, res.Signal, tt.signal)
		}
		if res.ClickSpeedMs != float64(tt.gap.Milliseconds()) {
			t.Fatalf("gap %v: latency = %v", tt.gap, res.ClickSpeedMs)
		}
	}
}

func TestClickLatencyWindowFIFO(t *testing.T) {
	store, clk := newTestStore(t)

	// 16 clicks at increasing gaps; only the most recent 10 latencies survive.
	for i := 0; i < 16; i++ {
		if _, err := store.TrackWordClick("u1", "w", clk.Now(), ""); err != nil {
			t.Fatalf("TrackWordClick: %v", err)
		}
		clk.Advance(time.Duration(i+1) * 100 * time.Millisecond)
	}

	s, ok := store.Snapshot("u1")
	if !ok {
		t.Fatal("missing session")
	}
	if len(s.ClickLatencies) != types.RollingWindowCap {
		t.Fatalf("window length = %d, want %d", len(s.ClickLatencies), types.RollingWindowCap)
	}
	// Gaps before click i: i*100ms; surviving entries are the 10 newest.
	want := []float64{600, 700, 800, 900, 1000, 1100, 1200, 1300, 1400, 1500}
	for i, v := range s.ClickLatencies {
		if v != want[i] {
			t.Fatalf("window[%d] = %v, want %v (FIFO eviction broken)", i, v, want[i])
		}
	}
}

func TestTrackCompletionRate(t *testing.T) {
	store, _ := newTestStore(t)

	tests := []struct {
		pct    float64
		signal string
	}{
		{95, types.CompletionTooEasy},
		{80, types.CompletionPerfect},
		{50, types.CompletionAcceptable},
		{10, types.CompletionTooHard},
	}
	for _, tt := range tests {
		res, err := store.TrackCompletionRate("u1", "c1", tt.pct, 60)
		if err != nil {
			t.Fatalf("TrackCompletionRate(%v): %v", tt.pct, err)
		}
		if res.Signal != tt.signal {
			t.Fatalf("pct %v: signal = %q, want %q", tt.pct, res.Signal, tt.signal)
		}
	}

	if _, err := store.TrackCompletionRate("u1", "c1", 120, 60); !errors.Is(err, ErrValidation) {
		t.Fatalf("out-of-range percentage: err = %v, want ErrValidation", err)
	}
	// The rejected sample must not have entered the window.
	s, _ := store.Snapshot("u1")
	if len(s.CompletionRates) != 4 {
		t.Fatalf("completion window = %d after rejected input, want 4", len(s.CompletionRates))
	}
}

func TestUrgentAdjustmentOnThirdMatchingClick(t *testing.T) {
	store, _ := newTestStore(t)

	for i := 0; i < 2; i++ {
		res, err := store.TrackButtonClick("u1", types.ButtonTooHard, "c1")
		if err != nil {
			t.Fatalf("TrackButtonClick: %v", err)
		}
		if res.UrgentAdjustment {
			t.Fatalf("urgent after %d clicks, want only at 3", i+1)
		}
	}
	res, err := store.TrackButtonClick("u1", types.ButtonTooHard, "c1")
	if err != nil {
		t.Fatalf("TrackButtonClick: %v", err)
	}
	if !res.UrgentAdjustment {
		t.Fatal("three matching clicks should flag urgent adjustment")
	}
	if res.TooHardCount != 3 {
		t.Fatalf("tooHardCount = %d, want 3", res.TooHardCount)
	}

	// A mixed run breaks the streak.
	if _, err := store.TrackButtonClick("u1", types.ButtonTooEasy, "c1"); err != nil {
		t.Fatalf("TrackButtonClick: %v", err)
	}
	res, _ = store.TrackButtonClick("u1", types.ButtonTooHard, "c1")
	if res.UrgentAdjustment {
		t.Fatal("mixed streak should not flag urgent adjustment")
	}
}

func TestTrackQuizPerformance(t *testing.T) {
	store, _ := newTestStore(t)

	res, err := store.TrackQuizPerformance("u1", "q1", 9, 10)
	if err != nil {
		t.Fatalf("TrackQuizPerformance: %v", err)
	}
	if res.Percentage != 90 {
		t.Fatalf("percentage = %v, want 90", res.Percentage)
	}
	if res.Signal != types.QuizMastery {
		t.Fatalf("signal = %q, want %q", res.Signal, types.QuizMastery)
	}

	if _, err := store.TrackQuizPerformance("u1", "q1", 5, 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("zero total: err = %v, want ErrValidation", err)
	}
	if _, err := store.TrackQuizPerformance("u1", "q1", 11, 10); !errors.Is(err, ErrValidation) {
		t.Fatalf("score above total: err = %v, want ErrValidation", err)
	}
}

func TestTrackWordSaveEstimatesLevel(t *testing.T) {
	store, _ := newTestStore(t)

	ranks := []int{100, 200, 300}
	var last types.WordSaveTrackResult
	for _, r := range ranks {
		var err error
		last, err = store.TrackWordSave("u1", "palabra", r, "")
		if err != nil {
			t.Fatalf("TrackWordSave: %v", err)
		}
	}
	if last.TotalSavedWords != 3 {
		t.Fatalf("totalSavedWords = %d, want 3", last.TotalSavedWords)
	}
	if last.AvgWordRank == nil || *last.AvgWordRank != 200 {
		t.Fatalf("avgWordRank = %v, want 200", last.AvgWordRank)
	}
	if last.EstimatedLevel != "A1" {
		t.Fatalf("estimatedLevel = %q, want A1", last.EstimatedLevel)
	}
}

func TestWatchIntervalHookFiresOnce(t *testing.T) {
	store, _ := newTestStore(t)

	res, err := store.TrackWatchTimeInterval("u1", "c1", 1, 30)
	if err != nil {
		t.Fatalf("TrackWatchTimeInterval: %v", err)
	}
	if res.Hooked {
		t.Fatal("hooked before the opening-seconds threshold")
	}

	res, _ = store.TrackWatchTimeInterval("u1", "c1", 4, 30)
	if !res.Hooked || res.Signal != "user_hooked" {
		t.Fatalf("expected hook at 4s, got %+v", res)
	}

	res, _ = store.TrackWatchTimeInterval("u1", "c1", 10, 30)
	if res.Hooked {
		t.Fatal("hook fired twice for the same content")
	}
	if res.MaxWatchedSec != 10 {
		t.Fatalf("maxWatchedSec = %v, want 10", res.MaxWatchedSec)
	}
}

func TestDetectRewatch(t *testing.T) {
	store, _ := newTestStore(t)

	first := store.DetectRewatch("u1", "c1")
	if !first.FirstView || first.IsRewatch {
		t.Fatalf("first view misreported: %+v", first)
	}

	second := store.DetectRewatch("u1", "c1")
	if !second.IsRewatch || second.RewatchCount != 2 {
		t.Fatalf("second view: %+v", second)
	}
	if second.Signal != "boost_similar_content" {
		t.Fatalf("signal = %q", second.Signal)
	}
	if second.EngagementBoost != rewatchEngagementBoost {
		t.Fatalf("engagementBoost = %v, want %v", second.EngagementBoost, rewatchEngagementBoost)
	}
}

func TestDetectSkipPattern(t *testing.T) {
	store, _ := newTestStore(t)

	kept, err := store.DetectSkipPattern("u1", "c1", 5, 30)
	if err != nil {
		t.Fatalf("DetectSkipPattern: %v", err)
	}
	if kept.IsSkip {
		t.Fatal("5s of watching is not a quick skip")
	}

	skipped, _ := store.DetectSkipPattern("u1", "c2", 1.2, 30)
	if !skipped.IsSkip || skipped.Signal != "suppress_similar_content" {
		t.Fatalf("quick skip misreported: %+v", skipped)
	}

	s, _ := store.Snapshot("u1")
	if len(s.SkipLog) != 1 {
		t.Fatalf("skip log = %d entries, want 1 (non-skips must not log)", len(s.SkipLog))
	}
}

func TestSessionStats(t *testing.T) {
	store, clk := newTestStore(t)

	if stats := store.SessionStats("ghost"); stats != nil {
		t.Fatalf("stats for unknown user = %+v, want nil", stats)
	}

	store.TrackWordClick("u1", "hola", clk.Now(), "")
	clk.Advance(2 * time.Second)
	store.TrackWordClick("u1", "adios", clk.Now(), "")
	store.TrackCompletionRate("u1", "c1", 80, 60)
	store.TrackQuizPerformance("u1", "q1", 8, 10)
	store.TrackButtonClick("u1", types.ButtonTooEasy, "c1")

	stats := store.SessionStats("u1")
	if stats == nil {
		t.Fatal("missing stats")
	}
	if stats.TotalWordClicks != 2 || stats.TotalContentViewed != 1 || stats.TotalQuizzesTaken != 1 {
		t.Fatalf("counts wrong: %+v", stats)
	}
	if stats.TooEasyClicks != 1 {
		t.Fatalf("tooEasyClicks = %d", stats.TooEasyClicks)
	}
	if stats.AvgCompletionRate == nil || *stats.AvgCompletionRate != 80 {
		t.Fatalf("avgCompletionRate = %v", stats.AvgCompletionRate)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	store, clk := newTestStore(t)
	store.TrackWordClick("u1", "hola", clk.Now(), "")

	s1, _ := store.Snapshot("u1")
	s1.ClickLatencies[0] = 9999
	s1.WordClicks[0].Word = "mutated"

	s2, _ := store.Snapshot("u1")
	if s2.ClickLatencies[0] == 9999 || s2.WordClicks[0].Word == "mutated" {
		t.Fatal("snapshot shares memory with live session")
	}
}
