// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/medquery/core"
)

// DefaultEUtilsBase is the public NCBI E-utilities endpoint.
const DefaultEUtilsBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// DefaultSearchLimit is how many PMIDs a search returns unless overridden.
const DefaultSearchLimit = 10

// fetchBatchSize is how many PMIDs one efetch call carries.
const fetchBatchSize = 50

const maxResponseBytes = 8 << 20

// Client talks to the PubMed E-utilities endpoints. Batches of articles are
// fetched concurrently through a shared worker pool.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	apiKey      string
	pool        *ants.Pool
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client) error

// WithBaseURL overrides the E-utilities base URL. Intended for tests and
// self-hosted mirrors.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		if baseURL != "" {
			c.baseURL = strings.TrimSuffix(baseURL, "/")
		}
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) error {
		if client != nil {
			c.httpClient = client
		}
		return nil
	}
}

// WithAPIKey attaches an NCBI API key to every request. NCBI grants a higher
// rate limit to keyed requests.
func WithAPIKey(key string) Option {
	return func(c *Client) error {
		c.apiKey = key
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent batch fetching.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(c *Client) error {
		if size < 1 {
			size = 1
		}
		if c.pool != nil {
			c.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		c.pool = pool
		return nil
	}
}

// WithRetryPolicy sets how many attempts each batch fetch gets and the base
// delay between them.
func WithRetryPolicy(maxAttempts int, baseDelay time.Duration) Option {
	return func(c *Client) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		c.maxAttempts = maxAttempts
		c.baseDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger.With("component", "pubmed")
		}
		return nil
	}
}

// NewClient creates a PubMed client against the public E-utilities endpoint
// unless overridden.
func NewClient(opts ...Option) (*Client, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:     DefaultEUtilsBase,
		httpClient:  http.DefaultClient,
		pool:        pool,
		maxAttempts: 3,
		baseDelay:   500 * time.Millisecond,
		logger:      slog.Default().With("component", "pubmed"),
	}
	for _, opt := range opts {
		if optErr := opt(c); optErr != nil {
			c.Release()
			return nil, optErr
		}
	}
	return c, nil
}

// Release frees the worker pool. The client must not be used afterwards.
func (c *Client) Release() {
	if c.pool != nil {
		c.pool.Release()
	}
}

type esearchResponse struct {
	ESearchResult struct {
		Count  string   `json:"count"`
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// Search runs the query expression against db=pubmed sorted by relevance and
// returns up to limit PMIDs. A non-positive limit uses DefaultSearchLimit.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", query)
	params.Set("retmax", fmt.Sprintf("%d", limit))
	params.Set("retmode", "json")
	params.Set("sort", "relevance")

	var parsed esearchResponse
	if err := c.get(ctx, "/esearch.fcgi", params, func(body io.Reader) error {
		return json.NewDecoder(body).Decode(&parsed)
	}); err != nil {
		return nil, err
	}

	c.logger.Debug("pubmed search", "query", query, "hits", len(parsed.ESearchResult.IDList))
	return parsed.ESearchResult.IDList, nil
}

// FetchArticles retrieves full records for the given PMIDs. PMIDs are split
// into efetch batches that run concurrently on the worker pool; results come
// back in the order of the input PMIDs. PMIDs the server does not return are
// silently absent.
func (c *Client) FetchArticles(ctx context.Context, pmids []string) ([]*core.Article, error) {
	if len(pmids) == 0 {
		return []*core.Article{}, nil
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
		byPMID   = make(map[string]*core.Article, len(pmids))
	)

	for start := 0; start < len(pmids); start += fetchBatchSize {
		end := start + fetchBatchSize
		if end > len(pmids) {
			end = len(pmids)
		}
		batch := pmids[start:end]

		wg.Add(1)
		submitErr := c.pool.Submit(func() {
			defer wg.Done()

			var articles []*core.Article
			err := RetryWithBackoff(ctx, func() error {
				var fetchErr error
				articles, fetchErr = c.fetchBatch(ctx, batch)
				return fetchErr
			}, c.maxAttempts, c.baseDelay)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			for _, article := range articles {
				byPMID[article.PMID] = article
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = submitErr
			}
			mu.Unlock()
		}
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	ordered := make([]*core.Article, 0, len(pmids))
	for _, pmid := range pmids {
		if article, ok := byPMID[pmid]; ok {
			ordered = append(ordered, article)
		}
	}
	return ordered, nil
}

// SearchAndFetch runs Search then FetchArticles in one call.
func (c *Client) SearchAndFetch(ctx context.Context, query string, limit int) ([]*core.Article, error) {
	pmids, err := c.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return c.FetchArticles(ctx, pmids)
}

func (c *Client) fetchBatch(ctx context.Context, pmids []string) ([]*core.Article, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(pmids, ","))
	params.Set("retmode", "xml")

	var articles []*core.Article
	err := c.get(ctx, "/efetch.fcgi", params, func(body io.Reader) error {
		var parseErr error
		articles, parseErr = parseArticleSet(body)
		return parseErr
	})
	if err != nil {
		return nil, err
	}
	return articles, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, decode func(io.Reader) error) error {
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d from %s", ErrUnexpectedStatus, resp.StatusCode, path)
	}

	if err := decode(io.LimitReader(resp.Body, maxResponseBytes)); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
