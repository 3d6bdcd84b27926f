package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofmark/internal/core/domain"
)

type mapCache struct {
	values map[string][]domain.ErrorSpan
	getErr error
	puts   int
}

func (c *mapCache) Get(_ context.Context, key string) ([]domain.ErrorSpan, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *mapCache) Put(_ context.Context, key string, spans []domain.ErrorSpan) error {
	c.puts++
	c.values[key] = spans
	return nil
}

func TestNewCachedChecker_NilCache(t *testing.T) {
	checker := newFakeChecker()
	assert.Same(t, checker, NewCachedChecker(checker, nil))
}

func TestCachedChecker_HitSkipsProvider(t *testing.T) {
	ctx := context.Background()
	checker := newFakeChecker()
	checker.auto = agreementErrors
	cache := &mapCache{values: map[string][]domain.ErrorSpan{}}
	cached := NewCachedChecker(checker, cache)

	req := domain.AnalysisRequest{Generation: 1, Text: "I is here.", Language: "en-US"}
	first, err := cached.Check(ctx, req)
	require.NoError(t, err)

	req.Generation = 2
	second, err := cached.Check(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, checker.requestCount())
	assert.Equal(t, 1, cache.puts)
}

func TestCachedChecker_CacheErrorsFallThrough(t *testing.T) {
	checker := newFakeChecker()
	checker.auto = agreementErrors
	cache := &mapCache{values: map[string][]domain.ErrorSpan{}, getErr: errors.New("connection refused")}

	spans, err := NewCachedChecker(checker, cache).Check(context.Background(),
		domain.AnalysisRequest{Text: "He is here."})

	require.NoError(t, err)
	assert.Len(t, spans, 1)
}

func TestCachedChecker_ProviderErrorsAreNotCached(t *testing.T) {
	checker := newFakeChecker()
	checker.auto = func(domain.AnalysisRequest) ([]domain.ErrorSpan, error) {
		return nil, domain.ErrProviderUnavailable
	}
	cache := &mapCache{values: map[string][]domain.ErrorSpan{}}

	_, err := NewCachedChecker(checker, cache).Check(context.Background(), domain.AnalysisRequest{Text: "x"})

	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	assert.Equal(t, 0, cache.puts)
}

func TestCacheKey(t *testing.T) {
	base := domain.AnalysisRequest{Text: "abc", Language: "en-US", DisabledRules: []string{"A"}}

	same := base
	same.Generation = 9
	assert.Equal(t, CacheKey(base), CacheKey(same), "generation does not affect the key")

	other := base
	other.Language = "en-GB"
	assert.NotEqual(t, CacheKey(base), CacheKey(other))

	rules := base
	rules.DisabledRules = nil
	assert.NotEqual(t, CacheKey(base), CacheKey(rules))
	assert.Len(t, CacheKey(base), 64)
}
