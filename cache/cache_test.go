package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/medquery/mapping"
)

type countingLookup struct {
	calls int
	terms []mapping.Term
	err   error
}

func (l *countingLookup) LookupTerms(ctx context.Context, text string) ([]mapping.Term, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.terms, nil
}

func openTestBackend(t *testing.T) *Backend {
	t.Helper()
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return backend
}

func TestNewLookupCache(t *testing.T) {
	t.Run("requires a backend", func(t *testing.T) {
		_, err := NewLookupCache(nil, &countingLookup{})
		assert.Equal(t, ErrBackendRequired, err)
	})

	t.Run("requires an inner lookup", func(t *testing.T) {
		_, err := NewLookupCache(openTestBackend(t), nil)
		assert.Equal(t, ErrLookupRequired, err)
	})
}

func TestLookupTermsCaching(t *testing.T) {
	terms := []mapping.Term{
		{UID: "68014202", Name: "Tremor"},
		{UID: "68020329", Name: "Essential Tremor"},
	}

	t.Run("second lookup is served from cache", func(t *testing.T) {
		inner := &countingLookup{terms: terms}
		cache, err := NewLookupCache(openTestBackend(t), inner)
		require.NoError(t, err)

		got, err := cache.LookupTerms(context.Background(), "hands shake")
		require.NoError(t, err)
		assert.Equal(t, terms, got)
		assert.Equal(t, 1, inner.calls)

		got, err = cache.LookupTerms(context.Background(), "hands shake")
		require.NoError(t, err)
		assert.Equal(t, terms, got)
		assert.Equal(t, 1, inner.calls, "cache hit must not reach the inner lookup")
	})

	t.Run("distinct queries are distinct entries", func(t *testing.T) {
		inner := &countingLookup{terms: terms}
		cache, err := NewLookupCache(openTestBackend(t), inner)
		require.NoError(t, err)

		_, err = cache.LookupTerms(context.Background(), "hands shake")
		require.NoError(t, err)
		_, err = cache.LookupTerms(context.Background(), "chest pain")
		require.NoError(t, err)
		assert.Equal(t, 2, inner.calls)
	})

	t.Run("empty results are cached too", func(t *testing.T) {
		inner := &countingLookup{terms: []mapping.Term{}}
		cache, err := NewLookupCache(openTestBackend(t), inner)
		require.NoError(t, err)

		_, err = cache.LookupTerms(context.Background(), "asdfghjkl")
		require.NoError(t, err)
		_, err = cache.LookupTerms(context.Background(), "asdfghjkl")
		require.NoError(t, err)
		assert.Equal(t, 1, inner.calls)
	})

	t.Run("inner errors pass through uncached", func(t *testing.T) {
		sentinel := errors.New("eutils down")
		inner := &countingLookup{err: sentinel}
		cache, err := NewLookupCache(openTestBackend(t), inner)
		require.NoError(t, err)

		_, err = cache.LookupTerms(context.Background(), "anything")
		assert.ErrorIs(t, err, sentinel)

		_, err = cache.LookupTerms(context.Background(), "anything")
		assert.ErrorIs(t, err, sentinel)
		assert.Equal(t, 2, inner.calls, "failures are retried, not cached")
	})

	t.Run("expired entries fall through to the inner lookup", func(t *testing.T) {
		inner := &countingLookup{terms: terms}
		cache, err := NewLookupCache(openTestBackend(t), inner, WithTTL(time.Millisecond))
		require.NoError(t, err)

		_, err = cache.LookupTerms(context.Background(), "hands shake")
		require.NoError(t, err)

		// badger expiry has one-second granularity
		time.Sleep(1100 * time.Millisecond)

		_, err = cache.LookupTerms(context.Background(), "hands shake")
		require.NoError(t, err)
		assert.Equal(t, 2, inner.calls)
	})
}

func TestTermsRoundTrip(t *testing.T) {
	terms := []mapping.Term{
		{UID: "68014202", Name: "Tremor"},
		{UID: "", Name: "Unnamed"},
	}

	got, err := UnmarshalTerms(MarshalTerms(terms))
	require.NoError(t, err)
	assert.Equal(t, terms, got)

	got, err = UnmarshalTerms(MarshalTerms(nil))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUnmarshalTermsRejectsGarbage(t *testing.T) {
	_, err := UnmarshalTerms([]byte{0xff})
	assert.Error(t, err)
}
