// Package rediscache stores analysis results in Redis so that identical
// text is not re-sent to the provider. Values are msgpack-encoded.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driven"
)

// Bump when the payload layout changes; older entries are then ignored.
const payloadSchema uint16 = 1

const keyPrefix = "proofmark:check:"

// Ensure Cache implements the interface.
var _ driven.ResultCache = (*Cache)(nil)

// Cache is a ResultCache backed by Redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

type payload struct {
	Schema uint16       `msgpack:"v"`
	Spans  []cachedSpan `msgpack:"s"`
}

type cachedSpan struct {
	Offset       int      `msgpack:"o"`
	Length       int      `msgpack:"l"`
	Message      string   `msgpack:"m"`
	Replacements []string `msgpack:"r,omitempty"`
	RuleID       string   `msgpack:"ri,omitempty"`
	RuleDesc     string   `msgpack:"rd,omitempty"`
	IssueType    string   `msgpack:"it,omitempty"`
	HasRule      bool     `msgpack:"hr,omitempty"`
}

// New connects to redisURL and verifies the connection.
func New(ctx context.Context, redisURL string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewWithClient(client, ttl), nil
}

// NewWithClient wraps an existing client. A non-positive ttl stores
// entries without expiry.
func NewWithClient(client *redis.Client, ttl time.Duration) *Cache {
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{client: client, ttl: ttl}
}

// Get returns the spans cached under key.
func (c *Cache) Get(ctx context.Context, key string) ([]domain.ErrorSpan, bool, error) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached result: %w", err)
	}

	var p payload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return nil, false, fmt.Errorf("decode cached result: %w", err)
	}
	if p.Schema != payloadSchema {
		return nil, false, nil
	}

	spans := make([]domain.ErrorSpan, 0, len(p.Spans))
	for _, cs := range p.Spans {
		span := domain.ErrorSpan{
			Offset:       cs.Offset,
			Length:       cs.Length,
			Message:      cs.Message,
			Replacements: cs.Replacements,
		}
		if cs.HasRule {
			span.Rule = &domain.Rule{ID: cs.RuleID, Description: cs.RuleDesc, IssueType: cs.IssueType}
		}
		spans = append(spans, span)
	}
	return spans, true, nil
}

// Put stores spans under key.
func (c *Cache) Put(ctx context.Context, key string, spans []domain.ErrorSpan) error {
	p := payload{Schema: payloadSchema, Spans: make([]cachedSpan, 0, len(spans))}
	for _, span := range spans {
		cs := cachedSpan{
			Offset:       span.Offset,
			Length:       span.Length,
			Message:      span.Message,
			Replacements: span.Replacements,
		}
		if span.Rule != nil {
			cs.HasRule = true
			cs.RuleID = span.Rule.ID
			cs.RuleDesc = span.Rule.Description
			cs.IssueType = span.Rule.IssueType
		}
		p.Spans = append(p.Spans, cs)
	}

	data, err := msgpack.Marshal(&p)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("store result: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
