package medquery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/medquery/ai/mock"
	"github.com/poiesic/medquery/core"
)

const stubEFetchXML = `<?xml version="1.0" ?>
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation>
      <PMID>31234567</PMID>
      <Article>
        <Journal>
          <JournalIssue><PubDate><Year>2019</Year></PubDate></JournalIssue>
          <Title>Movement Disorders</Title>
        </Journal>
        <ArticleTitle>Essential tremor: a clinical review.</ArticleTitle>
        <Abstract><AbstractText>Tremor is common.</AbstractText></Abstract>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
</PubmedArticleSet>`

// stubEUtils answers the three E-utilities endpoints the pipeline touches:
// mesh search (empty), pubmed search, and article fetch.
func stubEUtils(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/esearch.fcgi":
			if r.URL.Query().Get("db") == "mesh" {
				w.Write([]byte(`{"esearchresult":{"idlist":[]}}`))
				return
			}
			w.Write([]byte(`{"esearchresult":{"idlist":["31234567"]}}`))
		case "/esummary.fcgi":
			w.Write([]byte(`{"result":{}}`))
		case "/efetch.fcgi":
			w.Write([]byte(stubEFetchXML))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, opts ...ClientOption) *Client {
	t.Helper()
	opts = append([]ClientOption{WithEUtilsBase(stubEUtils(t).URL)}, opts...)
	client, err := NewClient(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestProcessQuery(t *testing.T) {
	client := newTestClient(t)

	processed := client.ProcessQuery(context.Background(), "is afib related to a heart attack?")

	require.NotNil(t, processed.Mapping)
	concepts := make([]string, 0, len(processed.Mapping.Matches))
	for _, match := range processed.Mapping.Matches {
		concepts = append(concepts, match.Concept)
	}
	assert.Contains(t, concepts, "Atrial Fibrillation")
	assert.Contains(t, concepts, "Myocardial Infarction")
	assert.Equal(t, core.MethodHybrid, processed.Mapping.Method)

	assert.Contains(t, processed.Query, `"Atrial Fibrillation"[MeSH Terms]`)
	assert.Contains(t, processed.Query, `[All Fields]`)
	assert.Contains(t, processed.Query, `[Subheading]`)
}

func TestSearch(t *testing.T) {
	client := newTestClient(t)

	processed, articles, err := client.Search(context.Background(), "why do my hands shake?")
	require.NoError(t, err)
	require.NotNil(t, processed.Mapping)
	require.Len(t, articles, 1)
	assert.Equal(t, "31234567", articles[0].PMID)
	assert.Equal(t, "Essential tremor: a clinical review.", articles[0].Title)
}

func TestAsk(t *testing.T) {
	t.Run("full pipeline with synthesizer", func(t *testing.T) {
		synthesizer := mock.NewMockAnswerSynthesizer()
		client := newTestClient(t, WithSynthesizer(synthesizer))

		answer, err := client.Ask(context.Background(), "why do my hands shake?")
		require.NoError(t, err)
		assert.Equal(t, "why do my hands shake?", answer.Question)
		assert.NotEmpty(t, answer.Query)
		assert.Len(t, answer.Articles, 1)
		assert.Contains(t, answer.Text, "[31234567]")
		assert.Equal(t, 1, synthesizer.CallCount())
	})

	t.Run("requires a synthesizer", func(t *testing.T) {
		client := newTestClient(t)

		_, err := client.Ask(context.Background(), "why do my hands shake?")
		assert.ErrorIs(t, err, ErrSynthesizerRequired)
	})
}

func TestMapQueryUsesCachedLookups(t *testing.T) {
	var meshSearches int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/esearch.fcgi" && r.URL.Query().Get("db") == "mesh" {
			meshSearches++
		}
		w.Write([]byte(`{"esearchresult":{"idlist":[]}}`))
	}))
	defer server.Close()

	client, err := NewClient(WithEUtilsBase(server.URL))
	require.NoError(t, err)
	defer client.Close()

	// "afib" resolves one concept from the tables; the thin pool triggers
	// the external lookup, whose empty result is cached.
	client.MapQuery(context.Background(), "afib")
	client.MapQuery(context.Background(), "afib")
	assert.Equal(t, 1, meshSearches)
}
