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


package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/medquery/mapping"
)

// DefaultTTL is how long a cached lookup result stays valid.
const DefaultTTL = 24 * time.Hour

// LookupCache decorates a mapping.TermLookup with a BadgerDB-backed TTL
// cache. Only successful lookups are cached; errors from the inner lookup
// pass through untouched.
type LookupCache struct {
	backend *Backend
	inner   mapping.TermLookup
	ttl     time.Duration
	logger  *slog.Logger
}

var _ mapping.TermLookup = (*LookupCache)(nil)

// LookupCacheOption configures a LookupCache.
type LookupCacheOption func(*LookupCache)

// WithTTL overrides the default entry lifetime.
func WithTTL(ttl time.Duration) LookupCacheOption {
	return func(c *LookupCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) LookupCacheOption {
	return func(c *LookupCache) {
		if logger != nil {
			c.logger = logger.With("component", "lookup-cache")
		}
	}
}

// NewLookupCache wraps inner with a cache stored in backend.
func NewLookupCache(backend *Backend, inner mapping.TermLookup, opts ...LookupCacheOption) (*LookupCache, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	if inner == nil {
		return nil, ErrLookupRequired
	}

	c := &LookupCache{
		backend: backend,
		inner:   inner,
		ttl:     DefaultTTL,
		logger:  slog.Default().With("component", "lookup-cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// LookupTerms returns the cached result for text when present, otherwise
// delegates to the inner lookup and caches what it returns. Cache read and
// write failures degrade to the inner lookup rather than failing the call.
func (c *LookupCache) LookupTerms(ctx context.Context, text string) ([]mapping.Term, error) {
	key := lookupKey(text)

	terms, err := c.get(key)
	if err == nil {
		c.logger.Debug("lookup cache hit", "text", text, "terms", len(terms))
		return terms, nil
	}
	if !errors.Is(err, ErrNotFound) {
		c.logger.Warn("lookup cache read failed", "err", err)
	}

	terms, err = c.inner.LookupTerms(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := c.put(key, terms); err != nil {
		c.logger.Warn("lookup cache write failed", "err", err)
	}
	return terms, nil
}

func (c *LookupCache) get(key []byte) ([]mapping.Term, error) {
	var terms []mapping.Term
	err := c.backend.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			terms, err = UnmarshalTerms(val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return terms, nil
}

func (c *LookupCache) put(key []byte, terms []mapping.Term) error {
	return c.backend.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key, MarshalTerms(terms)).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
}
