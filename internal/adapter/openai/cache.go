package openai

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/couchcryptid/pipeline-leak-watch/internal/diagnosis"
	"github.com/couchcryptid/pipeline-leak-watch/internal/observability"
)

// CachedCompleter wraps a Completer with an in-memory LRU cache keyed by the
// full prompt, so repeated questions about the same pipeline skip the API.
type CachedCompleter struct {
	inner   diagnosis.Completer
	cache   *lru.Cache[string, string]
	metrics *observability.Metrics
}

// NewCachedCompleter creates a cache decorator around a completer. Sizes
// below one are raised to one.
func NewCachedCompleter(inner diagnosis.Completer, maxEntries int, metrics *observability.Metrics) *CachedCompleter {
	// New only fails for non-positive sizes.
	cache, _ := lru.New[string, string](max(maxEntries, 1))
	return &CachedCompleter{
		inner:   inner,
		cache:   cache,
		metrics: metrics,
	}
}

// Len reports how many completions are cached.
func (c *CachedCompleter) Len() int {
	return c.cache.Len()
}

func (c *CachedCompleter) Complete(ctx context.Context, req diagnosis.CompletionRequest) (string, error) {
	key := cacheKey(req)
	if text, ok := c.cache.Get(key); ok {
		c.metrics.NarrativeCache.WithLabelValues("hit").Inc()
		return text, nil
	}
	c.metrics.NarrativeCache.WithLabelValues("miss").Inc()

	text, err := c.inner.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	// Empty completions fall back to defaults downstream; retry them next time.
	if text != "" {
		c.cache.Add(key, text)
	}
	return text, nil
}

func cacheKey(req diagnosis.CompletionRequest) string {
	return fmt.Sprintf("%.2f\x00%s\x00%s", req.Temperature, req.System, req.User)
}
