package nlm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatcherClient(t *testing.T) {
	t.Run("requires an endpoint", func(t *testing.T) {
		_, err := NewMatcherClient("")
		assert.Equal(t, ErrEndpointRequired, err)
	})

	t.Run("valid endpoint", func(t *testing.T) {
		client, err := NewMatcherClient("http://localhost:9999/match")
		require.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestMatchConcepts(t *testing.T) {
	t.Run("decodes service matches", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "my hands shake", req["text"])

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[
				{"term":"Tremor","id":"C0040822","similarity":0.91,"matchedPhrase":"shake"},
				{"term":"Anxiety","id":"C0003467"}
			]`))
		}))
		defer server.Close()

		client, err := NewMatcherClient(server.URL)
		require.NoError(t, err)

		matches, err := client.MatchConcepts(context.Background(), "my hands shake")
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, "Tremor", matches[0].Term)
		assert.Equal(t, 0.91, matches[0].Similarity)
		assert.Equal(t, "shake", matches[0].MatchedPhrase)
		assert.Equal(t, 0.0, matches[1].Similarity, "omitted score decodes to zero")
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client, err := NewMatcherClient(server.URL)
		require.NoError(t, err)

		_, err = client.MatchConcepts(context.Background(), "text")
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
	})

	t.Run("malformed payload is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"not":"a list"`))
		}))
		defer server.Close()

		client, err := NewMatcherClient(server.URL)
		require.NoError(t, err)

		_, err = client.MatchConcepts(context.Background(), "text")
		assert.Error(t, err)
	})

	t.Run("unreachable endpoint is an error", func(t *testing.T) {
		client, err := NewMatcherClient("http://127.0.0.1:1/match")
		require.NoError(t, err)

		_, err = client.MatchConcepts(context.Background(), "text")
		assert.Error(t, err)
	})
}
