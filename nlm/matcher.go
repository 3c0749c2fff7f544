package nlm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/poiesic/medquery/mapping"
)

// maxResponseBytes bounds how much of a service response is read.
const maxResponseBytes = 1 << 20

// MatcherClient calls a concept-matching endpoint that accepts {"text": ...}
// and returns a JSON list of matches. It implements mapping.ConceptMatcher.
type MatcherClient struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// MatcherOption configures a MatcherClient.
type MatcherOption func(*MatcherClient)

// WithMatcherHTTPClient sets a custom HTTP client, e.g. one with a deadline.
func WithMatcherHTTPClient(client *http.Client) MatcherOption {
	return func(c *MatcherClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewMatcherClient creates a client for the given matching endpoint.
func NewMatcherClient(endpoint string, opts ...MatcherOption) (*MatcherClient, error) {
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}

	c := &MatcherClient{
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
		logger:     slog.Default().With("component", "nlm-matcher"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type matcherRequest struct {
	Text string `json:"text"`
}

type matcherResponseEntry struct {
	Term          string  `json:"term"`
	ID            string  `json:"id"`
	Similarity    float64 `json:"similarity"`
	MatchedPhrase string  `json:"matchedPhrase"`
}

// MatchConcepts posts the normalized query text and decodes the service's
// match list. Any transport, status, or decode failure is returned as an
// error for the mapper to swallow.
func (c *MatcherClient) MatchConcepts(ctx context.Context, text string) ([]mapping.ExternalMatch, error) {
	body, err := json.Marshal(matcherRequest{Text: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d from %s", ErrUnexpectedStatus, resp.StatusCode, c.endpoint)
	}

	var entries []matcherResponseEntry
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding matcher response: %w", err)
	}

	matches := make([]mapping.ExternalMatch, 0, len(entries))
	for _, entry := range entries {
		matches = append(matches, mapping.ExternalMatch{
			Term:          entry.Term,
			ID:            entry.ID,
			Similarity:    entry.Similarity,
			MatchedPhrase: entry.MatchedPhrase,
		})
	}

	c.logger.Debug("concept matcher responded", "matches", len(matches))
	return matches, nil
}
