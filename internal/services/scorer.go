package services

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/langflix/langflix-backend/internal/platform/logger"
	"github.com/langflix/langflix-backend/internal/types"
)

// Goldilocks band boundaries on the new-word count of a content item.
const (
	goldilocksMin    = 3
	goldilocksMax    = 7
	challengingMax   = 15
	goldilocksCenter = 5

	unknownWordsPreview = 10

	// Beginners get a flat bonus on easy content so their feed is never empty.
	beginnerBonus = 20
)

// DifficultyScorer ranks content against a user's known vocabulary. All methods
// are pure functions of their inputs.
type DifficultyScorer interface {
	ScoreContentForUser(profile types.AdaptiveProfile, content types.ContentItem) types.ScoredContent
	GetGoldilocksContent(profile types.AdaptiveProfile, items []types.ContentItem) types.GoldilocksFeed
	EstimateContentDifficulty(words []string) types.Level
}

type difficultyScorer struct {
	log *logger.Logger
}

func NewDifficultyScorer(baseLog *logger.Logger) DifficultyScorer {
	return &difficultyScorer{log: baseLog.With("service", "DifficultyScorer")}
}

// ExtractWords tokenizes text into lowercase letter runs longer than two runes.
// Accented letters count; digits and punctuation split tokens.
func ExtractWords(text string) []string {
	var words []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			if w := b.String(); len([]rune(w)) > 2 {
				words = append(words, w)
			}
			b.Reset()
		}
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return words
}

func (ds *difficultyScorer) ScoreContentForUser(profile types.AdaptiveProfile, content types.ContentItem) types.ScoredContent {
	words := ExtractWords(content.Text)

	known := make(map[string]struct{}, len(profile.KnownWords))
	for _, w := range profile.KnownWords {
		known[strings.ToLower(w)] = struct{}{}
	}

	// Occurrences count individually: a word repeated five times is five units
	// of difficulty, not one.
	var unknown []string
	for _, w := range words {
		if _, ok := known[w]; !ok {
			unknown = append(unknown, w)
		}
	}
	newWordCount := len(unknown)

	var score float64
	var zone types.Zone
	switch {
	case newWordCount >= goldilocksMin && newWordCount <= goldilocksMax:
		score = 100 - absF(float64(newWordCount-goldilocksCenter))*5
		zone = types.ZoneGoldilocks
	case newWordCount < goldilocksMin:
		score = 40 + float64(newWordCount)*10
		zone = types.ZoneTooEasy
	case newWordCount <= challengingMax:
		score = maxF(0, 100-float64(newWordCount-goldilocksMax)*5)
		zone = types.ZoneChallenging
	default:
		score = maxF(0, 20-float64(newWordCount-challengingMax)*2)
		zone = types.ZoneTooHard
	}

	// Bonus is applied after banding and is deliberately allowed past 100.
	if profile.KnownWordCount < beginnerWordThreshold && newWordCount <= goldilocksMin {
		score += beginnerBonus
	}

	preview := unknown
	if len(preview) > unknownWordsPreview {
		preview = preview[:unknownWordsPreview]
	}

	return types.ScoredContent{
		Content:      content,
		Score:        score,
		Zone:         zone,
		NewWordCount: newWordCount,
		UnknownWords: preview,
		TotalWords:   len(words),
		Difficulty:   ds.EstimateContentDifficulty(words),
		Reasoning:    zoneReasoning(zone, newWordCount),
	}
}

func zoneReasoning(zone types.Zone, newWordCount int) string {
	switch zone {
	case types.ZoneGoldilocks:
		return fmt.Sprintf("Perfect! %d new words to learn", newWordCount)
	case types.ZoneTooEasy:
		return fmt.Sprintf("Only %d new words, good for confidence", newWordCount)
	case types.ZoneChallenging:
		return fmt.Sprintf("%d new words, a stretch but doable", newWordCount)
	default:
		return fmt.Sprintf("%d new words is too many right now", newWordCount)
	}
}

// EstimateContentDifficulty approximates a CEFR band from lexical shape alone:
// longer average words and a richer unique-word mix read as harder.
func (ds *difficultyScorer) EstimateContentDifficulty(words []string) types.Level {
	if len(words) == 0 {
		return types.LevelA1
	}

	var totalLen int
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		totalLen += len([]rune(w))
		unique[w] = struct{}{}
	}
	avgWordLen := float64(totalLen) / float64(len(words))
	density := float64(len(unique)) / float64(len(words))

	complexity := avgWordLen*5 + density*50
	switch {
	case complexity < 30:
		return types.LevelA1
	case complexity < 45:
		return types.LevelA2
	case complexity < 60:
		return types.LevelB1
	case complexity < 75:
		return types.LevelB2
	case complexity < 90:
		return types.LevelC1
	default:
		return types.LevelC2
	}
}

// GetGoldilocksContent scores every item, sorts by descending score (stable, so
// equal scores keep catalog order) and partitions by zone.
func (ds *difficultyScorer) GetGoldilocksContent(profile types.AdaptiveProfile, items []types.ContentItem) types.GoldilocksFeed {
	scored := make([]types.ScoredContent, 0, len(items))
	for _, item := range items {
		scored = append(scored, ds.ScoreContentForUser(profile, item))
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	feed := types.GoldilocksFeed{All: scored}
	for _, sc := range scored {
		switch sc.Zone {
		case types.ZoneGoldilocks:
			feed.Recommended = append(feed.Recommended, sc)
		case types.ZoneChallenging:
			feed.Challenging = append(feed.Challenging, sc)
		case types.ZoneTooEasy:
			feed.TooEasy = append(feed.TooEasy, sc)
		default:
			feed.TooHard = append(feed.TooHard, sc)
		}
	}
	return feed
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
