// Package pubmed retrieves literature from the NCBI E-utilities PubMed
// endpoints: esearch for relevance-ranked PMIDs and efetch for full article
// records. Article batches are fetched concurrently through a worker pool,
// with exponential backoff around each batch.
package pubmed
