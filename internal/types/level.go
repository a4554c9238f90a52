package types

import (
	"encoding/json"
	"fmt"
)

// Level is a CEFR proficiency level, ordered A1 < A2 < B1 < B2 < C1 < C2.
type Level int

const (
	LevelA1 Level = iota
	LevelA2
	LevelB1
	LevelB2
	LevelC1
	LevelC2
)

var levelNames = [...]string{"A1", "A2", "B1", "B2", "C1", "C2"}

func (l Level) String() string {
	if l < LevelA1 || l > LevelC2 {
		return "A1"
	}
	return levelNames[l]
}

func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if name == s {
			return Level(i), nil
		}
	}
	return LevelA1, fmt.Errorf("unknown CEFR level %q", s)
}

func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	lvl, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = lvl
	return nil
}

// Step moves the level by delta positions, clamped to [A1, C2].
func (l Level) Step(delta int) Level {
	i := int(l) + delta
	if i < int(LevelA1) {
		return LevelA1
	}
	if i > int(LevelC2) {
		return LevelC2
	}
	return Level(i)
}

// LevelFromWordCount maps a known-vocabulary size onto a base CEFR level.
func LevelFromWordCount(wordCount int) Level {
	switch {
	case wordCount < 300:
		return LevelA1
	case wordCount < 600:
		return LevelA2
	case wordCount < 1200:
		return LevelB1
	case wordCount < 2000:
		return LevelB2
	case wordCount < 3500:
		return LevelC1
	default:
		return LevelC2
	}
}
