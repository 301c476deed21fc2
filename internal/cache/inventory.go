package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Cache key inventory. Every read-model key the application writes is
// declared here so invalidation paths stay auditable. The rate limiter's
// rolling counters (rl:<resource>:<subject>) live in middleware/ratelimit.go,
// which cannot import this package.

// FeedTTL bounds how stale the anonymous first feed page may get.
const FeedTTL = 30 * time.Second

// PostTTL bounds how stale an anonymously-read post (and its counts) may get.
const PostTTL = 30 * time.Second

// FeedKey is the anonymous first page of the newest-first feed.
func FeedKey(limit int) string {
	return fmt.Sprintf("feed:new:%d", limit)
}

// PostKey is a single post read model.
func PostKey(id uuid.UUID) string {
	return fmt.Sprintf("post:%s", id)
}

// InvalidateFeed drops every cached feed page. Called on any post mutation.
func InvalidateFeed(ctx context.Context) {
	InvalidatePattern(ctx, "feed:new:*")
}

// InvalidatePost drops one cached post read model. Called when the post
// itself is edited or deleted; count drift from likes and comments is
// bounded by PostTTL instead.
func InvalidatePost(ctx context.Context, id uuid.UUID) {
	Invalidate(ctx, PostKey(id))
}
