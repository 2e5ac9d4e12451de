package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"flarerag/internal/domain"
)

// Store is a minimal REST client to Qdrant implementing domain.VectorStore.
// Collections use cosine distance; Recreate is destructive.
type Store struct {
	baseURL    string
	apiKey     string
	collection string
	client     *http.Client
}

type Config struct {
	Host       string
	Port       int
	APIKey     string
	Collection string
	Timeout    time.Duration
}

func NewStore(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Store{
		baseURL:    fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// Recreate drops the collection if present and creates it fresh with the
// given dimensionality. Any prior contents are discarded.
func (s *Store) Recreate(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("%w: invalid vector dimension %d", domain.ErrConfiguration, dimension)
	}
	// A 404 on delete just means the collection did not exist yet.
	if err := s.do(ctx, http.MethodDelete, s.collectionURL(""), nil, nil); err != nil {
		var se *statusError
		if !asStatusError(err, &se) || se.code != http.StatusNotFound {
			return err
		}
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	return s.do(ctx, http.MethodPut, s.collectionURL(""), body, nil)
}

// Upsert writes the points in one batch and waits for them to be persisted.
func (s *Store) Upsert(ctx context.Context, points []domain.Point) error {
	batch := make([]map[string]any, len(points))
	for i, p := range points {
		batch[i] = map[string]any{
			"id":      p.ID,
			"vector":  p.Vector,
			"payload": p.Payload,
		}
	}
	body := map[string]any{"points": batch}
	return s.do(ctx, http.MethodPut, s.collectionURL("/points?wait=true"), body, nil)
}

// Search returns up to limit hits ordered by descending similarity.
func (s *Store) Search(ctx context.Context, vector []float32, limit int) ([]domain.ScoredPoint, error) {
	req := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float32        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := s.do(ctx, http.MethodPost, s.collectionURL("/points/search"), req, &resp); err != nil {
		return nil, err
	}
	hits := make([]domain.ScoredPoint, 0, len(resp.Result))
	for _, r := range resp.Result {
		hits = append(hits, domain.ScoredPoint{Score: r.Score, Payload: r.Payload})
	}
	return hits, nil
}

// Count returns the exact number of points in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	req := map[string]any{"exact": true}
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	if err := s.do(ctx, http.MethodPost, s.collectionURL("/points/count"), req, &resp); err != nil {
		return 0, err
	}
	return resp.Result.Count, nil
}

func (s *Store) collectionURL(suffix string) string {
	return fmt.Sprintf("%s/collections/%s%s", s.baseURL, s.collection, suffix)
}

type statusError struct {
	code   int
	method string
	url    string
	status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qdrant %s %s failed: %s", e.method, e.url, e.status)
}

func asStatusError(err error, target **statusError) bool {
	se, ok := err.(*statusError)
	if ok {
		*target = se
	}
	return ok
}

func (s *Store) do(ctx context.Context, method, url string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return &statusError{code: resp.StatusCode, method: method, url: url, status: resp.Status}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
