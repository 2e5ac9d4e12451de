package retriever

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"flarerag/internal/config"
	"flarerag/internal/domain"
)

// Indexer transforms a document corpus into vector store points. Its key
// property is partial-failure tolerance: one bad document never aborts the
// batch.
type Indexer struct {
	store    domain.VectorStore
	embedder domain.EmbeddingClient
	cfg      config.RetrieverConfig
	log      zerolog.Logger
}

func NewIndexer(store domain.VectorStore, embedder domain.EmbeddingClient, cfg config.RetrieverConfig, log zerolog.Logger) *Indexer {
	return &Indexer{
		store:    store,
		embedder: embedder,
		cfg:      cfg,
		log:      log.With().Str("component", "indexer").Logger(),
	}
}

// BuildCollection destructively recreates the collection and fills it from
// the corpus rows in order. Ids are dense: they start at 1 and are assigned
// only to emitted points, which keeps the append-by-count path correct.
// Rows with missing content or rejected embeddings are skipped with a
// warning. Returns the number of points written.
//
// The rebuild is not atomic: queries racing it will see an empty or
// partially filled collection.
func (ix *Indexer) BuildCollection(ctx context.Context, docs []domain.DocumentRow) (int, error) {
	if err := ix.store.Recreate(ctx, ix.cfg.VectorSize); err != nil {
		return 0, fmt.Errorf("recreating collection %q: %w", ix.cfg.CollectionName, err)
	}
	ix.log.Info().Str("collection_name", ix.cfg.CollectionName).Msg("created the collection")

	var points []domain.Point
	nextID := uint64(1)
	for _, row := range docs {
		if strings.TrimSpace(row.Content) == "" {
			ix.log.Warn().Str("filename", row.FileName).Msg("skipping document due to missing or invalid content")
			continue
		}
		vector, err := ix.embedder.Embed(ctx, ix.cfg.EmbeddingModel, row.Content, domain.TaskDocument, row.FileName)
		if err != nil {
			if errors.Is(err, domain.ErrContentTooLarge) {
				ix.log.Warn().Str("filename", row.FileName).Msg("skipping document due to size limit")
				continue
			}
			ix.log.Error().Err(err).Str("filename", row.FileName).Msg("error encoding document")
			continue
		}
		if len(vector) != ix.cfg.VectorSize {
			return 0, dimensionMismatch(len(vector), ix.cfg.VectorSize)
		}
		points = append(points, domain.Point{
			ID:     nextID,
			Vector: vector,
			Payload: map[string]any{
				"filename": row.FileName,
				"metadata": row.MetaData,
				"text":     row.Content,
			},
		})
		nextID++
	}

	if len(points) == 0 {
		ix.log.Warn().Msg("no valid documents found to insert")
		return 0, nil
	}
	if err := ix.store.Upsert(ctx, points); err != nil {
		return 0, fmt.Errorf("upserting %d points: %w", len(points), err)
	}
	ix.log.Info().
		Str("collection_name", ix.cfg.CollectionName).
		Int("num_points", len(points)).
		Msg("collection generated and documents inserted")
	return len(points), nil
}

// AppendDocument inserts a single document without rebuilding, assigning the
// next dense id from the current point count. Store and embedding failures
// are reported to the caller rather than crashing the surrounding process.
func (ix *Indexer) AppendDocument(ctx context.Context, content string, metadata map[string]any) error {
	count, err := ix.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("reading point count: %w", err)
	}
	vector, err := ix.embedder.Embed(ctx, ix.cfg.EmbeddingModel, content, domain.TaskDocument, "")
	if err != nil {
		return fmt.Errorf("embedding document: %w", err)
	}
	if len(vector) != ix.cfg.VectorSize {
		return dimensionMismatch(len(vector), ix.cfg.VectorSize)
	}
	point := domain.Point{
		ID:     uint64(count) + 1,
		Vector: vector,
		Payload: map[string]any{
			"metadata": metadata,
			"text":     content,
		},
	}
	if err := ix.store.Upsert(ctx, []domain.Point{point}); err != nil {
		return fmt.Errorf("upserting point %d: %w", point.ID, err)
	}
	ix.log.Info().Uint64("point_id", point.ID).Msg("appended document to collection")
	return nil
}

func dimensionMismatch(got, want int) error {
	return fmt.Errorf("%w: embedding dimension %d does not match configured vector size %d",
		domain.ErrConfiguration, got, want)
}
