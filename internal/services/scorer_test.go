package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/langflix/langflix-backend/internal/platform/logger"
	"github.com/langflix/langflix-backend/internal/types"
)

func textWithWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("palabra%c%c", 'a'+i/26, 'a'+i%26)
	}
	return strings.Join(words, " ")
}

func TestExtractWords(t *testing.T) {
	got := ExtractWords("Hola! Me 2x llamo José-Luis, ¿y tú?")
	want := []string{"hola", "llamo", "josé", "luis"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("word[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGoldilocksScoreExact(t *testing.T) {
	scorer := NewDifficultyScorer(logger.NewNop())
	profile := types.AdaptiveProfile{KnownWordCount: 500}

	tests := []struct {
		newWords int
		score    float64
		zone     types.Zone
	}{
		{0, 40, types.ZoneTooEasy},
		{2, 60, types.ZoneTooEasy},
		{3, 90, types.ZoneGoldilocks},
		{4, 95, types.ZoneGoldilocks},
		{5, 100, types.ZoneGoldilocks},
		{6, 95, types.ZoneGoldilocks},
		{7, 90, types.ZoneGoldilocks},
		{8, 95, types.ZoneChallenging},
		{15, 60, types.ZoneChallenging},
		{16, 18, types.ZoneTooHard},
		{30, 0, types.ZoneTooHard},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d new words", tt.newWords), func(t *testing.T) {
			content := types.ContentItem{ID: "c", Text: textWithWords(tt.newWords)}
			sc := scorer.ScoreContentForUser(profile, content)
			if sc.NewWordCount != tt.newWords {
				t.Fatalf("newWordCount = %d, want %d", sc.NewWordCount, tt.newWords)
			}
			if sc.Score != tt.score {
				t.Fatalf("score = %v, want %v", sc.Score, tt.score)
			}
			if sc.Zone != tt.zone {
				t.Fatalf("zone = %q, want %q", sc.Zone, tt.zone)
			}
		})
	}
}

func TestRepeatedUnknownWordCountsPerOccurrence(t *testing.T) {
	scorer := NewDifficultyScorer(logger.NewNop())
	profile := types.AdaptiveProfile{KnownWordCount: 500}

	sc := scorer.ScoreContentForUser(profile, types.ContentItem{Text: "perro perro perro perro perro"})
	if sc.NewWordCount != 5 {
		t.Fatalf("newWordCount = %d, want 5 (each occurrence counts)", sc.NewWordCount)
	}
	if sc.Zone != types.ZoneGoldilocks {
		t.Fatalf("zone = %q, want goldilocks", sc.Zone)
	}
	if sc.Score != 100 {
		t.Fatalf("score = %v, want 100", sc.Score)
	}
	if len(sc.UnknownWords) != 5 {
		t.Fatalf("unknownWords = %v, want all five occurrences", sc.UnknownWords)
	}
}

func TestKnownWordsReduceNewWordCount(t *testing.T) {
	scorer := NewDifficultyScorer(logger.NewNop())
	profile := types.AdaptiveProfile{
		KnownWordCount: 500,
		KnownWords:     []string{"Hola", "GRACIAS"},
	}

	sc := scorer.ScoreContentForUser(profile, types.ContentItem{Text: "hola gracias amigo"})
	if sc.NewWordCount != 1 {
		t.Fatalf("newWordCount = %d, want 1 (matching is case-insensitive)", sc.NewWordCount)
	}
	if len(sc.UnknownWords) != 1 || sc.UnknownWords[0] != "amigo" {
		t.Fatalf("unknownWords = %v", sc.UnknownWords)
	}
}

func TestBeginnerBonusUncapped(t *testing.T) {
	scorer := NewDifficultyScorer(logger.NewNop())

	beginner := types.AdaptiveProfile{KnownWordCount: 50}
	sc := scorer.ScoreContentForUser(beginner, types.ContentItem{Text: textWithWords(3)})
	if sc.Score != 110 {
		t.Fatalf("beginner score = %v, want 110 (90 + 20 bonus, past the ceiling)", sc.Score)
	}

	// 4 new words gets no bonus even for a beginner.
	sc = scorer.ScoreContentForUser(beginner, types.ContentItem{Text: textWithWords(4)})
	if sc.Score != 95 {
		t.Fatalf("score = %v, want 95", sc.Score)
	}

	// Past the vocabulary threshold the bonus disappears.
	advanced := types.AdaptiveProfile{KnownWordCount: 100}
	sc = scorer.ScoreContentForUser(advanced, types.ContentItem{Text: textWithWords(3)})
	if sc.Score != 90 {
		t.Fatalf("score = %v, want 90", sc.Score)
	}
}

func TestUnknownWordsPreviewCapped(t *testing.T) {
	scorer := NewDifficultyScorer(logger.NewNop())
	sc := scorer.ScoreContentForUser(types.AdaptiveProfile{KnownWordCount: 500}, types.ContentItem{Text: textWithWords(18)})
	if sc.NewWordCount != 18 {
		t.Fatalf("newWordCount = %d, want 18", sc.NewWordCount)
	}
	if len(sc.UnknownWords) != 10 {
		t.Fatalf("unknownWords preview = %d, want 10", len(sc.UnknownWords))
	}
}

func TestGetGoldilocksContentSortsAndPartitions(t *testing.T) {
	scorer := NewDifficultyScorer(logger.NewNop())
	profile := types.AdaptiveProfile{KnownWordCount: 500}

	items := []types.ContentItem{
		{ID: "easy", Text: textWithWords(1)},       // 50
		{ID: "ideal", Text: textWithWords(5)},      // 100
		{ID: "stretch", Text: textWithWords(10)},   // 85
		{ID: "wall", Text: textWithWords(20)},      // 10
		{ID: "ideal-too", Text: textWithWords(5)},  // 100, ties with ideal
	}

	feed := scorer.GetGoldilocksContent(profile, items)
	if len(feed.All) != 5 {
		t.Fatalf("all = %d items", len(feed.All))
	}
	for i := 1; i < len(feed.All); i++ {
		if feed.All[i].Score > feed.All[i-1].Score {
			t.Fatalf("not sorted descending at %d", i)
		}
	}
	// Equal scores keep catalog order.
	if feed.All[0].Content.ID != "ideal" || feed.All[1].Content.ID != "ideal-too" {
		t.Fatalf("tie-break broken: %s, %s", feed.All[0].Content.ID, feed.All[1].Content.ID)
	}

	if len(feed.Recommended) != 2 || len(feed.Challenging) != 1 || len(feed.TooEasy) != 1 || len(feed.TooHard) != 1 {
		t.Fatalf("partition sizes: rec=%d chal=%d easy=%d hard=%d",
			len(feed.Recommended), len(feed.Challenging), len(feed.TooEasy), len(feed.TooHard))
	}
}

func TestEstimateContentDifficulty(t *testing.T) {
	scorer := NewDifficultyScorer(logger.NewNop())

	if got := scorer.EstimateContentDifficulty(nil); got != types.LevelA1 {
		t.Fatalf("empty words = %s, want A1", got)
	}

	// Short repeated words: avgLen 4, density 1/3 -> 20 + 16.7 < 45.
	simple := []string{"hola", "hola", "hola"}
	if got := scorer.EstimateContentDifficulty(simple); got > types.LevelA2 {
		t.Fatalf("simple text = %s, want at most A2", got)
	}

	// Long unique words: avgLen 14, density 1 -> 70 + 50 >= 90.
	dense := []string{"administración", "infraestructura", "universalidades"}
	if got := scorer.EstimateContentDifficulty(dense); got != types.LevelC2 {
		t.Fatalf("dense text = %s, want C2", got)
	}
}
