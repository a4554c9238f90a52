package content

import (
	"context"
	"strings"
	"sync"

	"github.com/langflix/langflix-backend/internal/services"
	"github.com/langflix/langflix-backend/internal/types"
)

// Catalog is an in-memory services.ContentProvider. Items are seeded at
// startup and may be replaced wholesale at runtime.
type Catalog struct {
	mu    sync.RWMutex
	items []types.ContentItem
}

func NewCatalog(items []types.ContentItem) *Catalog {
	return &Catalog{items: append([]types.ContentItem(nil), items...)}
}

func (c *Catalog) FetchAll(_ context.Context, filter services.ContentFilter) ([]types.ContentItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]types.ContentItem, 0, len(c.items))
	for _, item := range c.items {
		if filter.Type != "" && !strings.EqualFold(item.Type, filter.Type) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// Replace swaps the full catalog.
func (c *Catalog) Replace(items []types.ContentItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]types.ContentItem(nil), items...)
}

func (c *Catalog) Add(item types.ContentItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item)
}
