package services

import (
	"context"

	"github.com/langflix/langflix-backend/internal/types"
)

// ContentFilter narrows a catalog fetch. Zero value means everything.
type ContentFilter struct {
	Topic string
	Type  string
	Limit int
}

// ContentProvider supplies the learnable catalog. Implementations live outside
// this package so the scorer and feed stay storage-agnostic.
type ContentProvider interface {
	FetchAll(ctx context.Context, filter ContentFilter) ([]types.ContentItem, error)
}

// VocabularyProvider resolves frequency ranks for words the user saves.
type VocabularyProvider interface {
	Rank(word string) (int, bool)
	LevelForRank(rank int) string
}
