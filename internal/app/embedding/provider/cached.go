package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fitqa/internal/app/embedding"
)

// CachedProvider decorates another provider with a Redis lookaside cache keyed
// by (model, text). A cache failure degrades to computing the embedding; it
// never fails the request.
type CachedProvider struct {
	inner  EmbeddingProvider
	client *redis.Client
	ttl    time.Duration
}

// NewCachedProvider wraps inner with a Redis cache at addr.
func NewCachedProvider(inner EmbeddingProvider, addr string, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		inner:  inner,
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Embed serves cached vectors where possible and delegates the rest to the
// wrapped provider in a single batch, preserving input order.
func (c *CachedProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	keys := make([]string, len(texts))
	for i, text := range texts {
		keys[i] = c.cacheKey(text)
	}

	vectors := make([][]float32, len(texts))
	missing := make([]int, 0, len(texts))

	cached, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		// Cache unreachable: fall through to the inner provider for everything.
		missing = missing[:0]
		for i := range texts {
			missing = append(missing, i)
		}
	} else {
		for i, raw := range cached {
			blob, ok := raw.(string)
			if !ok {
				missing = append(missing, i)
				continue
			}
			vec, decErr := embedding.DecodeVector([]byte(blob))
			if decErr != nil {
				missing = append(missing, i)
				continue
			}
			vectors[i] = vec
		}
	}

	if len(missing) > 0 {
		missTexts := make([]string, len(missing))
		for i, idx := range missing {
			missTexts[i] = texts[idx]
		}

		fresh, err := c.inner.Embed(ctx, missTexts)
		if err != nil {
			return nil, err
		}

		for i, idx := range missing {
			vectors[idx] = fresh[i]
			// Best effort write-back; a failed SET just means a future miss.
			c.client.Set(ctx, keys[idx], embedding.EncodeVector(fresh[i]), c.ttl)
		}
	}

	return vectors, nil
}

// Info returns the wrapped provider's metadata.
func (c *CachedProvider) Info() ProviderInfo {
	return c.inner.Info()
}

// Close releases the Redis connection.
func (c *CachedProvider) Close() error {
	return c.client.Close()
}

func (c *CachedProvider) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("fitqa:emb:%s:%s", c.inner.Info().Model, hex.EncodeToString(sum[:]))
}
