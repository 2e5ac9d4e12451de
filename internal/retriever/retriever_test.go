package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flarerag/internal/domain"
	"flarerag/internal/vectorstore/memory"
)

func seededStore(t *testing.T, dim, numPoints int) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Recreate(context.Background(), dim))
	points := make([]domain.Point, 0, numPoints)
	for i := 0; i < numPoints; i++ {
		vec := make([]float32, dim)
		vec[i%dim] = 1
		points = append(points, domain.Point{
			ID:     uint64(i + 1),
			Vector: vec,
			Payload: map[string]any{
				"filename": "doc.md",
				"metadata": "{}",
				"text":     "some document text",
			},
		})
	}
	require.NoError(t, store.Upsert(context.Background(), points))
	return store
}

func TestSemanticSearchHonorsTopK(t *testing.T) {
	store := seededStore(t, 4, 5)
	embedder := newFakeEmbedder(4)
	r := New(store, embedder, testRetrieverConfig(4), zerolog.Nop())

	results, err := r.SemanticSearch(context.Background(), "query", 3)

	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, res := range results {
		assert.NotContains(t, res.Metadata, "text")
		assert.Contains(t, res.Metadata, "filename")
		assert.Equal(t, "some document text", res.Text)
	}
}

func TestSemanticSearchDefaultsTopK(t *testing.T) {
	store := seededStore(t, 4, 8)
	embedder := newFakeEmbedder(4)
	r := New(store, embedder, testRetrieverConfig(4), zerolog.Nop())

	results, err := r.SemanticSearch(context.Background(), "query", 0)

	require.NoError(t, err)
	assert.Len(t, results, DefaultTopK)
}

func TestSemanticSearchUsesQueryTaskType(t *testing.T) {
	store := seededStore(t, 4, 1)
	embedder := newFakeEmbedder(4)
	r := New(store, embedder, testRetrieverConfig(4), zerolog.Nop())

	_, err := r.SemanticSearch(context.Background(), "What is Flare?", 1)

	require.NoError(t, err)
	require.Len(t, embedder.calls, 1)
	assert.Equal(t, domain.TaskQuery, embedder.calls[0].task)
	assert.Empty(t, embedder.calls[0].title)
}

func TestSemanticSearchEmptyPayloadYieldsEmptyText(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Recreate(context.Background(), 4))
	require.NoError(t, store.Upsert(context.Background(), []domain.Point{
		{ID: 1, Vector: []float32{1, 0, 0, 0}},
	}))
	embedder := newFakeEmbedder(4)
	r := New(store, embedder, testRetrieverConfig(4), zerolog.Nop())

	results, err := r.SemanticSearch(context.Background(), "query", 1)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Text)
	assert.Empty(t, results[0].Metadata)
}

func TestSemanticSearchEmbeddingErrorPropagates(t *testing.T) {
	store := seededStore(t, 4, 1)
	embedder := newFakeEmbedder(4)
	providerErr := errors.New("embedding backend down")
	embedder.failWith["query"] = providerErr
	r := New(store, embedder, testRetrieverConfig(4), zerolog.Nop())

	_, err := r.SemanticSearch(context.Background(), "query", 1)

	require.ErrorIs(t, err, providerErr)
}

func TestSemanticSearchDimensionMismatchIsConfigurationError(t *testing.T) {
	store := seededStore(t, 4, 1)
	embedder := newFakeEmbedder(3)
	r := New(store, embedder, testRetrieverConfig(4), zerolog.Nop())

	_, err := r.SemanticSearch(context.Background(), "query", 1)

	require.ErrorIs(t, err, domain.ErrConfiguration)
}
