package content

import (
	"strings"
	"sync"
)

// Vocabulary maps words to corpus frequency ranks. It backs the word-save
// tracking when the client does not supply a rank.
type Vocabulary struct {
	mu    sync.RWMutex
	ranks map[string]int
}

// SeedRanks is a small starter frequency list used until a real corpus is
// loaded.
func SeedRanks() map[string]int {
	return map[string]int{
		"hola": 12, "que": 1, "por": 9, "gracias": 120, "bueno": 85,
		"casa": 210, "tiempo": 140, "trabajo": 330, "comida": 460,
		"gobierno": 780, "medidas": 1900, "inversion": 2600,
		"trimestre": 4100, "extranjera": 2300,
	}
}

func NewVocabulary(ranks map[string]int) *Vocabulary {
	v := &Vocabulary{ranks: make(map[string]int, len(ranks))}
	for w, r := range ranks {
		v.ranks[strings.ToLower(w)] = r
	}
	return v
}

func (v *Vocabulary) Rank(word string) (int, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	r, ok := v.ranks[strings.ToLower(word)]
	return r, ok
}

// LevelForRank maps a frequency rank to the CEFR band name used throughout the
// saved-word signals.
func (v *Vocabulary) LevelForRank(rank int) string {
	switch {
	case rank < 500:
		return "A1"
	case rank < 1500:
		return "A2"
	case rank < 3000:
		return "B1"
	case rank < 5000:
		return "B2"
	default:
		return "C1"
	}
}
