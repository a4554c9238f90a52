package types

// ContentItem is an external, read-only piece of learnable content.
type ContentItem struct {
	ID          string   `json:"id"`
	Type        string   `json:"type,omitempty"`
	Title       string   `json:"title,omitempty"`
	Text        string   `json:"text"`
	Topics      []string `json:"topics,omitempty"`
	DurationSec float64  `json:"durationSec,omitempty"`
}

// Zone is the Goldilocks difficulty band a content item falls into for a user.
type Zone string

const (
	ZoneGoldilocks  Zone = "goldilocks"
	ZoneTooEasy     Zone = "too_easy"
	ZoneChallenging Zone = "challenging"
	ZoneTooHard     Zone = "too_hard"
)

type ScoredContent struct {
	Content      ContentItem `json:"content"`
	Score        float64     `json:"score"`
	Zone         Zone        `json:"zone"`
	NewWordCount int         `json:"newWordCount"`
	UnknownWords []string    `json:"unknownWords"`
	TotalWords   int         `json:"totalWords"`
	Difficulty   Level       `json:"difficulty"`
	Reasoning    string      `json:"reasoning"`
}

// GoldilocksFeed partitions scored content by zone; All is the full list sorted
// by descending score.
type GoldilocksFeed struct {
	Recommended []ScoredContent `json:"recommended"`
	Challenging []ScoredContent `json:"challenging"`
	TooEasy     []ScoredContent `json:"tooEasy"`
	TooHard     []ScoredContent `json:"tooHard"`
	All         []ScoredContent `json:"all"`
}

type FeedMetadata struct {
	UserID             string         `json:"userId"`
	CurrentLevel       Level          `json:"currentLevel"`
	BeginnerMode       bool           `json:"beginnerMode"`
	Recommendation     Recommendation `json:"recommendation"`
	TotalAvailable     int            `json:"totalAvailable"`
	AvgGoldilocksScore float64        `json:"avgGoldilocksScore"`
}

type FeedPage struct {
	Items    []ScoredContent `json:"items"`
	Metadata FeedMetadata    `json:"metadata"`
}
