package reference

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/leapstack-labs/refdash/internal/metrics"
	"github.com/leapstack-labs/refdash/pkg/core"
)

// DefaultTTL is how long a memoized query result stays valid.
const DefaultTTL = 600 * time.Second

// Cache memoizes query results by query text and bound arguments.
// Cached tables are shared between callers and must be treated as read-only.
type Cache struct {
	next    core.Executor
	store   *cache.Cache
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewCache wraps next with a TTL cache. A non-positive ttl uses DefaultTTL.
func NewCache(next core.Executor, ttl time.Duration, m *metrics.Metrics) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		next:    next,
		store:   cache.New(ttl, 2*ttl),
		ttl:     ttl,
		metrics: m,
	}
}

// Query returns the cached table for (sql, args) or runs it and stores the result.
// Errors are never cached.
func (c *Cache) Query(ctx context.Context, sql string, args ...any) (*core.Table, error) {
	key := cacheKey(sql, args)
	if v, ok := c.store.Get(key); ok {
		c.metrics.RecordCache(true)
		return v.(*core.Table), nil
	}
	c.metrics.RecordCache(false)

	table, err := c.next.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	c.store.Set(key, table, cache.DefaultExpiration)
	return table, nil
}

// TTL returns the configured expiry.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Len returns the number of stored entries, including expired ones not yet evicted.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}

// Flush drops every entry.
func (c *Cache) Flush() {
	c.store.Flush()
}

func cacheKey(sql string, args []any) string {
	var b strings.Builder
	b.WriteString(sql)
	for _, a := range args {
		b.WriteByte(0)
		fmt.Fprintf(&b, "%T:%v", a, a)
	}
	return b.String()
}

var _ core.Executor = (*Cache)(nil)
