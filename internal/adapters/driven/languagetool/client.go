package languagetool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fortio.org/safecast"

	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driven"
	"github.com/custodia-labs/proofmark/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.GrammarChecker = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.languagetool.org"
	DefaultTimeout = 30 * time.Second
)

// maxErrorBody bounds how much of a failed response is kept for the error.
const maxErrorBody = 512

// Config holds configuration for the LanguageTool client.
type Config struct {
	// BaseURL is the server root (default: https://api.languagetool.org).
	BaseURL string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// RequestsPerMinute throttles requests. Zero disables throttling.
	RequestsPerMinute int
}

// Client checks text with a LanguageTool server.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *rateLimiter
}

type checkResponse struct {
	Matches []match `json:"matches"`
}

type match struct {
	Message      string        `json:"message"`
	Offset       int           `json:"offset"`
	Length       int           `json:"length"`
	Replacements []replacement `json:"replacements"`
	Rule         *rule         `json:"rule"`
}

type replacement struct {
	Value string `json:"value"`
}

type rule struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	IssueType   string `json:"issueType"`
}

// NewClient creates a new LanguageTool client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: newRateLimiter(cfg.RequestsPerMinute),
	}
}

// NewClientFromSettings creates a client from provider settings.
func NewClientFromSettings(s domain.ProviderSettings) *Client {
	return NewClient(Config{
		BaseURL:           s.BaseURL,
		Timeout:           s.Timeout,
		RequestsPerMinute: s.RequestsPerMinute,
	})
}

// Check submits req.Text and returns the matches as rune-offset spans.
func (c *Client) Check(ctx context.Context, req domain.AnalysisRequest) ([]domain.ErrorSpan, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}

	language := req.Language
	if language == "" {
		language = domain.DefaultLanguage
	}
	form := url.Values{}
	form.Set("text", req.Text)
	form.Set("language", language)
	if len(req.DisabledRules) > 0 {
		form.Set("disabledRules", strings.Join(req.DisabledRules, ","))
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/v2/check",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.backOff(resp.Header.Get("Retry-After"))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: status %d: %s",
			domain.ErrProviderResponse, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("%w: decode: %w", domain.ErrProviderResponse, err)
	}

	return convertMatches(req.Text, parsed.Matches), nil
}

// convertMatches turns provider matches into spans over runes of text.
// Matches with offsets that do not fit are dropped.
func convertMatches(text string, matches []match) []domain.ErrorSpan {
	if len(matches) == 0 {
		return nil
	}

	index := newUTF16Index(text)
	spans := make([]domain.ErrorSpan, 0, len(matches))
	for _, m := range matches {
		start, err := safecast.Conv[uint32](m.Offset)
		if err != nil {
			logger.Debug("languagetool: dropping match with offset %d: %v", m.Offset, err)
			continue
		}
		end, err := safecast.Conv[uint32](m.Offset + m.Length)
		if err != nil || m.Length < 0 {
			logger.Debug("languagetool: dropping match with length %d: %v", m.Length, err)
			continue
		}

		from := index.runeOffset(int(start))
		to := index.runeOffset(int(end))

		span := domain.ErrorSpan{
			Offset:  from,
			Length:  to - from,
			Message: m.Message,
		}
		for i, r := range m.Replacements {
			if i == domain.MaxReplacements {
				break
			}
			span.Replacements = append(span.Replacements, r.Value)
		}
		if m.Rule != nil {
			span.Rule = &domain.Rule{
				ID:          m.Rule.ID,
				Description: m.Rule.Description,
				IssueType:   m.Rule.IssueType,
			}
		}
		spans = append(spans, span)
	}
	return spans
}

// Ping checks that the server answers its languages endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/languages", http.NoBody)
	if err != nil {
		return fmt.Errorf("languagetool: failed to create ping request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", domain.ErrProviderResponse, resp.StatusCode)
	}
	return nil
}
