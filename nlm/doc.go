// Package nlm implements the HTTP clients for the mapper's two optional
// collaborators: a pluggable concept-matching endpoint and the NCBI
// E-utilities MeSH terminology lookup.
//
// Both clients are single-attempt and best-effort by contract. They return
// transport, status, and decode failures as plain errors; the mapping layer
// swallows those and continues, so nothing here retries or panics.
package nlm
