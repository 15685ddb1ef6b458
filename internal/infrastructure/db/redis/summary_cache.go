package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dawam/attendance-system/internal/api/metrics"
	"github.com/dawam/attendance-system/internal/core/ports"
)

const summaryTTL = time.Minute

// SummaryCache stores computed rolling-window summaries with a short TTL.
// Check-out invalidates the entry; a stale read is bounded by the TTL.
// Key format: summary:<employee_id>
type SummaryCache struct {
	client *redis.Client
}

// NewSummaryCache creates a SummaryCache wrapping the given Redis client.
func NewSummaryCache(client *redis.Client) *SummaryCache {
	return &SummaryCache{client: client}
}

// Get returns the cached summary, or (nil, nil) on a miss.
func (c *SummaryCache) Get(ctx context.Context, employeeID string) (*ports.SummaryResult, error) {
	raw, err := c.client.Get(ctx, c.key(employeeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.SummaryCacheTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}
	if err != nil {
		metrics.SummaryCacheTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("summary cache get: %w", err)
	}

	var summary ports.SummaryResult
	if err := json.Unmarshal(raw, &summary); err != nil {
		metrics.SummaryCacheTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("summary cache decode: %w", err)
	}

	metrics.SummaryCacheTotal.WithLabelValues("hit").Inc()
	return &summary, nil
}

// Set stores the summary for the TTL window.
func (c *SummaryCache) Set(ctx context.Context, employeeID string, summary *ports.SummaryResult) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("summary cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(employeeID), raw, summaryTTL).Err()
}

// Invalidate drops the cached summary after a check-out changes the totals.
func (c *SummaryCache) Invalidate(ctx context.Context, employeeID string) error {
	return c.client.Del(ctx, c.key(employeeID)).Err()
}

func (c *SummaryCache) key(employeeID string) string {
	return "summary:" + employeeID
}
