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


package nlm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/poiesic/medquery/mapping"
)

// DefaultEUtilsBase is the public NCBI E-utilities endpoint.
const DefaultEUtilsBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// maxLookupCandidates caps how many MeSH identifiers one lookup resolves.
const maxLookupCandidates = 5

// LookupClient resolves free text to MeSH display terms through E-utilities:
// one esearch call against db=mesh followed by a single batch esummary call.
// It implements mapping.TermLookup.
type LookupClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// LookupOption configures a LookupClient.
type LookupOption func(*LookupClient)

// WithLookupBaseURL overrides the E-utilities base URL. Intended for tests
// and self-hosted mirrors.
func WithLookupBaseURL(baseURL string) LookupOption {
	return func(c *LookupClient) {
		if baseURL != "" {
			c.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

// WithLookupHTTPClient sets a custom HTTP client.
func WithLookupHTTPClient(client *http.Client) LookupOption {
	return func(c *LookupClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewLookupClient creates a MeSH lookup client against the public
// E-utilities endpoint unless overridden.
func NewLookupClient(opts ...LookupOption) *LookupClient {
	c := &LookupClient{
		baseURL:    DefaultEUtilsBase,
		httpClient: http.DefaultClient,
		logger:     slog.Default().With("component", "nlm-lookup"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LookupTerms searches db=mesh for the query text and resolves up to five
// candidate UIDs to display terms in one batch call.
func (c *LookupClient) LookupTerms(ctx context.Context, text string) ([]mapping.Term, error) {
	uids, err := c.searchMesh(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(uids) == 0 {
		return nil, nil
	}
	return c.resolveTerms(ctx, uids)
}

type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

func (c *LookupClient) searchMesh(ctx context.Context, text string) ([]string, error) {
	params := url.Values{}
	params.Set("db", "mesh")
	params.Set("term", text)
	params.Set("retmax", fmt.Sprintf("%d", maxLookupCandidates))
	params.Set("retmode", "json")

	var parsed esearchResponse
	if err := c.getJSON(ctx, "/esearch.fcgi", params, &parsed); err != nil {
		return nil, err
	}

	uids := parsed.ESearchResult.IDList
	if len(uids) > maxLookupCandidates {
		uids = uids[:maxLookupCandidates]
	}
	return uids, nil
}

type esummaryEntry struct {
	DsMeshTerms []string `json:"ds_meshterms"`
}

type esummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

func (c *LookupClient) resolveTerms(ctx context.Context, uids []string) ([]mapping.Term, error) {
	params := url.Values{}
	params.Set("db", "mesh")
	params.Set("id", strings.Join(uids, ","))
	params.Set("retmode", "json")

	var parsed esummaryResponse
	if err := c.getJSON(ctx, "/esummary.fcgi", params, &parsed); err != nil {
		return nil, err
	}

	// Resolve in the order esearch returned the UIDs, not map order.
	terms := make([]mapping.Term, 0, len(uids))
	for _, uid := range uids {
		raw, ok := parsed.Result[uid]
		if !ok {
			continue
		}
		var entry esummaryEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			c.logger.Warn("skipping unparseable esummary entry", "uid", uid, "err", err)
			continue
		}
		if len(entry.DsMeshTerms) == 0 {
			continue
		}
		terms = append(terms, mapping.Term{UID: uid, Name: entry.DsMeshTerms[0]})
	}

	c.logger.Debug("mesh lookup resolved", "uids", len(uids), "terms", len(terms))
	return terms, nil
}

func (c *LookupClient) getJSON(ctx context.Context, path string, params url.Values, out any) error {
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

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
