package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driven"
	"github.com/custodia-labs/proofmark/internal/logger"
)

// Ensure CachedChecker implements the interface.
var _ driven.GrammarChecker = (*CachedChecker)(nil)

var cacheLog = logger.For("cache")

// CachedChecker serves repeated requests for identical text from a
// ResultCache. Cache failures fall through to the provider.
type CachedChecker struct {
	next  driven.GrammarChecker
	cache driven.ResultCache
}

// NewCachedChecker wraps next with cache. A nil cache returns next unchanged.
func NewCachedChecker(next driven.GrammarChecker, cache driven.ResultCache) driven.GrammarChecker {
	if cache == nil {
		return next
	}
	return &CachedChecker{next: next, cache: cache}
}

// Check returns cached spans for the request, or asks the provider and
// caches a successful answer.
func (c *CachedChecker) Check(ctx context.Context, req domain.AnalysisRequest) ([]domain.ErrorSpan, error) {
	key := CacheKey(req)

	spans, found, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		cacheLog.Warn("get %s: %v", key[:12], err)
	case found:
		cacheLog.Debug("hit %s", key[:12])
		return spans, nil
	}

	spans, err = c.next.Check(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Put(ctx, key, spans); err != nil {
		cacheLog.Warn("put %s: %v", key[:12], err)
	}
	return spans, nil
}

// CacheKey derives the cache key from everything that affects the
// provider's answer. The generation is excluded.
func CacheKey(req domain.AnalysisRequest) string {
	h := sha256.New()
	h.Write([]byte(req.Language))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(req.DisabledRules, ",")))
	h.Write([]byte{0})
	h.Write([]byte(req.Text))
	return hex.EncodeToString(h.Sum(nil))
}
