package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/langflix/langflix-backend/internal/platform/clock"
	"github.com/langflix/langflix-backend/internal/platform/logger"
	"github.com/langflix/langflix-backend/internal/types"
)

const feedPageSize = 20

// FeedCache stores built feed pages keyed by user. Implementations must treat
// a miss and an error alike as "rebuild".
type FeedCache interface {
	Get(ctx context.Context, userID string) (*types.FeedPage, bool)
	Set(ctx context.Context, userID string, page *types.FeedPage, ttl time.Duration) error
	Invalidate(ctx context.Context, userID string) error
}

// FeedService assembles the personalized Goldilocks feed with a short-lived
// per-user cache. Concurrent builds for the same user are deduplicated.
type FeedService interface {
	GetPersonalizedFeed(ctx context.Context, userID string, filter ContentFilter) (*types.FeedPage, error)
	ForceRefresh(ctx context.Context, userID string, filter ContentFilter) (*types.FeedPage, error)
	InvalidateFeed(ctx context.Context, userID string)
}

type feedService struct {
	profiles    ProfileService
	interpreter SignalInterpreter
	scorer      DifficultyScorer
	content     ContentProvider
	cache       FeedCache
	ttl         time.Duration
	group       singleflight.Group
	clk         clock.Clock
	log         *logger.Logger
}

func NewFeedService(
	baseLog *logger.Logger,
	profiles ProfileService,
	interpreter SignalInterpreter,
	scorer DifficultyScorer,
	content ContentProvider,
	cache FeedCache,
	ttl time.Duration,
	clk clock.Clock,
) FeedService {
	return &feedService{
		profiles:    profiles,
		interpreter: interpreter,
		scorer:      scorer,
		content:     content,
		cache:       cache,
		ttl:         ttl,
		clk:         clk,
		log:         baseLog.With("service", "FeedService"),
	}
}

func (fs *feedService) GetPersonalizedFeed(ctx context.Context, userID string, filter ContentFilter) (*types.FeedPage, error) {
	// Filtered requests bypass the cache; the cached page is the default feed.
	if filter == (ContentFilter{}) {
		if page, ok := fs.cache.Get(ctx, userID); ok {
			fs.log.Debug("feed cache hit", "user_id", userID)
			return page, nil
		}
	}
	return fs.build(ctx, userID, filter)
}

func (fs *feedService) ForceRefresh(ctx context.Context, userID string, filter ContentFilter) (*types.FeedPage, error) {
	fs.InvalidateFeed(ctx, userID)
	return fs.build(ctx, userID, filter)
}

func (fs *feedService) InvalidateFeed(ctx context.Context, userID string) {
	if err := fs.cache.Invalidate(ctx, userID); err != nil {
		fs.log.Warn("feed invalidation failed", "user_id", userID, "error", err)
	}
}

func (fs *feedService) build(ctx context.Context, userID string, filter ContentFilter) (*types.FeedPage, error) {
	key := fmt.Sprintf("%s|%s|%s|%d", userID, filter.Topic, filter.Type, filter.Limit)
	v, err, _ := fs.group.Do(key, func() (any, error) {
		return fs.buildPage(ctx, userID, filter)
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.FeedPage), nil
}

func (fs *feedService) buildPage(ctx context.Context, userID string, filter ContentFilter) (*types.FeedPage, error) {
	items, err := fs.content.FetchAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("fetch content: %w", err)
	}

	profile := fs.profiles.GetProfile(userID)
	beginner := profile.KnownWordCount < beginnerWordThreshold
	feed := fs.scorer.GetGoldilocksContent(profile, items)

	ranked := feed.All
	if beginner {
		ranked = beginnerFilter(feed)
	}
	if filter.Topic != "" {
		ranked = filterByTopic(ranked, filter.Topic)
	}

	page := ranked
	limit := feedPageSize
	if filter.Limit > 0 && filter.Limit < limit {
		limit = filter.Limit
	}
	if len(page) > limit {
		page = page[:limit]
	}

	result := &types.FeedPage{
		Items: page,
		Metadata: types.FeedMetadata{
			UserID:             userID,
			CurrentLevel:       profile.CurrentLevel,
			BeginnerMode:       beginner,
			Recommendation:     fs.interpreter.CalculateUserSignals(userID).Recommendation,
			TotalAvailable:     len(ranked),
			AvgGoldilocksScore: avgScore(feed.Recommended),
		},
	}

	if filter == (ContentFilter{}) {
		if err := fs.cache.Set(ctx, userID, result, fs.ttl); err != nil {
			fs.log.Warn("feed cache write failed", "user_id", userID, "error", err)
		}
	}
	fs.log.Debug("feed built", "user_id", userID, "items", len(page), "available", len(ranked))
	return result, nil
}

// beginnerFilter keeps only content a sub-threshold user can absorb: easy and
// low-goldilocks items, easiest bands first.
func beginnerFilter(feed types.GoldilocksFeed) []types.ScoredContent {
	var out []types.ScoredContent
	out = append(out, feed.TooEasy...)
	for _, sc := range feed.Recommended {
		if sc.NewWordCount <= 3 {
			out = append(out, sc)
		}
	}
	return out
}

func filterByTopic(items []types.ScoredContent, topic string) []types.ScoredContent {
	topic = strings.ToLower(topic)
	var out []types.ScoredContent
	for _, sc := range items {
		for _, t := range sc.Content.Topics {
			if strings.ToLower(t) == topic {
				out = append(out, sc)
				break
			}
		}
	}
	return out
}

func avgScore(items []types.ScoredContent) float64 {
	if len(items) == 0 {
		return 0
	}
	var sum float64
	for _, sc := range items {
		sum += sc.Score
	}
	return sum / float64(len(items))
}

// memoryFeedCache is the in-process FeedCache used when no external cache is
// configured, and in tests.
type memoryFeedCache struct {
	mu      sync.Mutex
	clk     clock.Clock
	entries map[string]memoryFeedEntry
}

type memoryFeedEntry struct {
	page      *types.FeedPage
	expiresAt time.Time
}

func NewMemoryFeedCache(clk clock.Clock) FeedCache {
	return &memoryFeedCache{
		clk:     clk,
		entries: make(map[string]memoryFeedEntry),
	}
}

func (c *memoryFeedCache) Get(_ context.Context, userID string) (*types.FeedPage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[userID]
	if !ok || c.clk.Now().After(e.expiresAt) {
		delete(c.entries, userID)
		return nil, false
	}
	return e.page, true
}

func (c *memoryFeedCache) Set(_ context.Context, userID string, page *types.FeedPage, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = memoryFeedEntry{page: page, expiresAt: c.clk.Now().Add(ttl)}
	return nil
}

func (c *memoryFeedCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	return nil
}
