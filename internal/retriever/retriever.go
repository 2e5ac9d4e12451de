// Package retriever converts queries into embeddings and runs similarity
// search against the vector collection built by the Indexer.
package retriever

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"flarerag/internal/config"
	"flarerag/internal/domain"
)

// DefaultTopK is used when a caller passes a non-positive result limit.
const DefaultTopK = 5

// Retriever performs semantic search. Embedding or store errors propagate
// uncaught; no retries happen at this layer.
type Retriever struct {
	store    domain.VectorStore
	embedder domain.EmbeddingClient
	cfg      config.RetrieverConfig
	log      zerolog.Logger
}

func New(store domain.VectorStore, embedder domain.EmbeddingClient, cfg config.RetrieverConfig, log zerolog.Logger) *Retriever {
	return &Retriever{
		store:    store,
		embedder: embedder,
		cfg:      cfg,
		log:      log.With().Str("component", "retriever").Logger(),
	}
}

// SemanticSearch embeds the query with the query task-type and returns up to
// topK results, most similar first, in the order given by the store. Each
// result carries the payload text, the backend score unmodified, and the
// remaining payload fields as metadata.
func (r *Retriever) SemanticSearch(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	vector, err := r.embedder.Embed(ctx, r.cfg.EmbeddingModel, query, domain.TaskQuery, "")
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vector) != r.cfg.VectorSize {
		return nil, fmt.Errorf("%w: embedding dimension %d does not match configured vector size %d",
			domain.ErrConfiguration, len(vector), r.cfg.VectorSize)
	}
	hits, err := r.store.Search(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("searching collection %q: %w", r.cfg.CollectionName, err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		text := ""
		metadata := map[string]any{}
		if hit.Payload != nil {
			if t, ok := hit.Payload["text"].(string); ok {
				text = t
			}
			for field, value := range hit.Payload {
				if field != "text" {
					metadata[field] = value
				}
			}
		}
		results = append(results, domain.SearchResult{Text: text, Score: hit.Score, Metadata: metadata})
	}
	r.log.Debug().Str("query", query).Int("num_results", len(results)).Msg("semantic search complete")
	return results, nil
}
