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


package medquery

import (
	"context"
	"log/slog"

	"github.com/poiesic/medquery/ai"
	"github.com/poiesic/medquery/ai/openai"
	"github.com/poiesic/medquery/cache"
	"github.com/poiesic/medquery/core"
	"github.com/poiesic/medquery/mapping"
	"github.com/poiesic/medquery/nlm"
	"github.com/poiesic/medquery/pubmed"
	"github.com/poiesic/medquery/query"
)

// Client wires the full pipeline together: query mapping, PubMed query
// synthesis, literature retrieval, and optional answer synthesis.
type Client struct {
	mapper      *mapping.Mapper
	mapOpts     mapping.Options
	queryOpts   core.QueryOptions
	pubmed      *pubmed.Client
	synthesizer ai.AnswerSynthesizer
	backend     *cache.Backend
	searchLimit int
	logger      *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	matcherEndpoint string
	eutilsBase      string
	cachePath       string
	cacheInMemory   bool
	mapOpts         mapping.Options
	queryOpts       core.QueryOptions
	aiConfig        *ai.Config
	synthesizer     ai.AnswerSynthesizer
	searchLimit     int
}

// WithMatcherEndpoint enables the external concept matcher stage against the
// given service URL.
func WithMatcherEndpoint(endpoint string) ClientOption {
	return func(o *clientOptions) {
		o.matcherEndpoint = endpoint
	}
}

// WithEUtilsBase overrides the NCBI E-utilities base URL for both the MeSH
// lookup and PubMed retrieval. Intended for tests and self-hosted mirrors.
func WithEUtilsBase(baseURL string) ClientOption {
	return func(o *clientOptions) {
		o.eutilsBase = baseURL
	}
}

// WithCachePath stores the MeSH lookup cache on disk at the given directory.
// Default is an in-memory cache that lives as long as the client.
func WithCachePath(path string) ClientOption {
	return func(o *clientOptions) {
		if path != "" {
			o.cachePath = path
			o.cacheInMemory = false
		}
	}
}

// WithMappingOptions overrides the default mapping stage options.
func WithMappingOptions(opts mapping.Options) ClientOption {
	return func(o *clientOptions) {
		o.mapOpts = opts
	}
}

// WithQueryOptions overrides the default query synthesis options.
func WithQueryOptions(opts core.QueryOptions) ClientOption {
	return func(o *clientOptions) {
		o.queryOpts = opts
	}
}

// WithAnswerSynthesis enables answer synthesis using an OpenAI-compatible
// service described by config.
func WithAnswerSynthesis(config *ai.Config) ClientOption {
	return func(o *clientOptions) {
		o.aiConfig = config
	}
}

// WithSynthesizer supplies a ready answer synthesizer. Takes precedence over
// WithAnswerSynthesis; intended for tests.
func WithSynthesizer(s ai.AnswerSynthesizer) ClientOption {
	return func(o *clientOptions) {
		o.synthesizer = s
	}
}

// WithSearchLimit caps how many articles Search and Ask retrieve.
func WithSearchLimit(limit int) ClientOption {
	return func(o *clientOptions) {
		if limit > 0 {
			o.searchLimit = limit
		}
	}
}

// NewClient creates a fully wired client. Only the table-driven mapping
// stages and query synthesis work offline; the lookup, retrieval, and
// synthesis stages reach their services lazily on first use.
func NewClient(opts ...ClientOption) (*Client, error) {
	options := &clientOptions{
		cacheInMemory: true,
		mapOpts:       mapping.DefaultOptions(),
		queryOpts:     core.DefaultQueryOptions(),
		searchLimit:   pubmed.DefaultSearchLimit,
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := cache.OpenBackend(options.cachePath, options.cacheInMemory)
	if err != nil {
		return nil, err
	}

	var lookupOpts []nlm.LookupOption
	if options.eutilsBase != "" {
		lookupOpts = append(lookupOpts, nlm.WithLookupBaseURL(options.eutilsBase))
	}
	var lookup mapping.TermLookup = nlm.NewLookupClient(lookupOpts...)

	lookup, err = cache.NewLookupCache(backend, lookup)
	if err != nil {
		backend.Close()
		return nil, err
	}

	mapperOpts := []mapping.Option{mapping.WithTermLookup(lookup)}
	if options.matcherEndpoint != "" {
		matcher, err := nlm.NewMatcherClient(options.matcherEndpoint)
		if err != nil {
			backend.Close()
			return nil, err
		}
		mapperOpts = append(mapperOpts, mapping.WithConceptMatcher(matcher))
	}

	mapper, err := mapping.NewMapper(mapperOpts...)
	if err != nil {
		backend.Close()
		return nil, err
	}

	var pubmedOpts []pubmed.Option
	if options.eutilsBase != "" {
		pubmedOpts = append(pubmedOpts, pubmed.WithBaseURL(options.eutilsBase))
	}
	retriever, err := pubmed.NewClient(pubmedOpts...)
	if err != nil {
		backend.Close()
		return nil, err
	}

	synthesizer := options.synthesizer
	if synthesizer == nil && options.aiConfig != nil {
		synthesizer, err = openai.NewAnswerSynthesizer(options.aiConfig)
		if err != nil {
			retriever.Release()
			backend.Close()
			return nil, err
		}
	}

	return &Client{
		mapper:      mapper,
		mapOpts:     options.mapOpts,
		queryOpts:   options.queryOpts,
		pubmed:      retriever,
		synthesizer: synthesizer,
		backend:     backend,
		searchLimit: options.searchLimit,
		logger:      slog.Default(),
	}, nil
}

// Close releases the worker pool and the lookup cache.
func (c *Client) Close() error {
	c.pubmed.Release()
	if err := c.backend.Close(); err != nil {
		c.logger.Error("error closing lookup cache", "err", err)
		return err
	}
	return nil
}

// MapQuery maps a free-text question to ranked medical concepts.
func (c *Client) MapQuery(ctx context.Context, text string) *core.MappingResult {
	return c.mapper.MapQuery(ctx, text, c.mapOpts)
}

// SynthesizeQuery builds a PubMed search expression from a mapping result
// using the client's query options.
func (c *Client) SynthesizeQuery(result *core.MappingResult) string {
	return query.Synthesize(result, c.queryOpts)
}

// ProcessResult bundles the mapping result with the search expression built
// from it.
type ProcessResult struct {
	Mapping *core.MappingResult
	Query   string
}

// ProcessQuery runs mapping and query synthesis in one step.
func (c *Client) ProcessQuery(ctx context.Context, text string) *ProcessResult {
	result := c.MapQuery(ctx, text)
	return &ProcessResult{
		Mapping: result,
		Query:   c.SynthesizeQuery(result),
	}
}

// Search maps the question, synthesizes the search expression, and retrieves
// matching articles from PubMed.
func (c *Client) Search(ctx context.Context, text string) (*ProcessResult, []*core.Article, error) {
	processed := c.ProcessQuery(ctx, text)
	articles, err := c.pubmed.SearchAndFetch(ctx, processed.Query, c.searchLimit)
	if err != nil {
		return processed, nil, err
	}
	return processed, articles, nil
}

// Answer is the outcome of the full pipeline for one question.
type Answer struct {
	Question string
	Mapping  *core.MappingResult
	Query    string
	Articles []*core.Article
	Text     string
}

// Ask runs the full pipeline: mapping, query synthesis, retrieval, and
// answer synthesis. Requires a synthesizer; configure one with
// WithAnswerSynthesis or WithSynthesizer.
func (c *Client) Ask(ctx context.Context, question string) (*Answer, error) {
	if c.synthesizer == nil {
		return nil, ErrSynthesizerRequired
	}

	processed, articles, err := c.Search(ctx, question)
	if err != nil {
		return nil, err
	}

	text, err := c.synthesizer.SynthesizeAnswer(ctx, question, articles)
	if err != nil {
		return nil, err
	}

	return &Answer{
		Question: question,
		Mapping:  processed.Mapping,
		Query:    processed.Query,
		Articles: articles,
		Text:     text,
	}, nil
}
