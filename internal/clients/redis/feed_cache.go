package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/langflix/langflix-backend/internal/platform/logger"
	"github.com/langflix/langflix-backend/internal/services"
	"github.com/langflix/langflix-backend/internal/types"
)

const feedKeyPrefix = "feed:"

// feedCache is the redis-backed services.FeedCache. Cache failures degrade to
// a rebuild, never to a request failure.
type feedCache struct {
	log *logger.Logger
	rdb *goredis.Client
}

// NewFeedCache connects using REDIS_ADDR and verifies the connection before
// returning.
func NewFeedCache(log *logger.Logger) (services.FeedCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &feedCache{
		log: log.With("service", "RedisFeedCache"),
		rdb: rdb,
	}, nil
}

func (c *feedCache) Get(ctx context.Context, userID string) (*types.FeedPage, bool) {
	raw, err := c.rdb.Get(ctx, feedKeyPrefix+userID).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("feed cache read failed", "user_id", userID, "error", err)
		}
		return nil, false
	}
	var page types.FeedPage
	if err := json.Unmarshal(raw, &page); err != nil {
		c.log.Warn("bad cached feed payload", "user_id", userID, "error", err)
		return nil, false
	}
	return &page, true
}

func (c *feedCache) Set(ctx context.Context, userID string, page *types.FeedPage, ttl time.Duration) error {
	raw, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, feedKeyPrefix+userID, raw, ttl).Err()
}

func (c *feedCache) Invalidate(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, feedKeyPrefix+userID).Err()
}

func (c *feedCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
