package service

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const feedKeyPrefix = "feeds:v1:"

// FeedCache drops cached feed pages when their author records a new event.
type FeedCache struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewFeedCache wraps the feed cache client. A nil client makes every call a
// no-op.
func NewFeedCache(client *redis.Client, logger zerolog.Logger) *FeedCache {
	return &FeedCache{client: client, logger: logger.With().Str("component", "feed_cache").Logger()}
}

// Invalidate deletes every cached page of the author's feeds. Failures are
// logged; the pages then expire with their TTL.
func (c *FeedCache) Invalidate(ctx context.Context, author uint) {
	if c == nil || c.client == nil || author == 0 {
		return
	}

	pattern := fmt.Sprintf("%s*:%d:*", feedKeyPrefix, author)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn().Err(err).Uint("author_id", author).Msg("failed to scan feed cache")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn().Err(err).Uint("author_id", author).Msg("failed to invalidate feed cache")
	}
}
