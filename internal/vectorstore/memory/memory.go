package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"flarerag/internal/domain"
)

// Store is an in-memory vector store using brute-force cosine similarity.
// It mirrors the remote store's behavior for development and tests.
type Store struct {
	mu        sync.RWMutex
	dimension int
	points    []domain.Point
}

func NewStore() *Store { return &Store{} }

func (s *Store) Recreate(_ context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("%w: invalid vector dimension %d", domain.ErrConfiguration, dimension)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.points = nil
	return nil
}

func (s *Store) Upsert(_ context.Context, points []domain.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimension == 0 {
		return fmt.Errorf("%w: collection has not been created", domain.ErrConfiguration)
	}
	for _, p := range points {
		if len(p.Vector) != s.dimension {
			return fmt.Errorf("%w: vector dimension %d does not match collection size %d",
				domain.ErrConfiguration, len(p.Vector), s.dimension)
		}
	}
	s.points = append(s.points, points...)
	return nil
}

func (s *Store) Search(_ context.Context, vector []float32, limit int) ([]domain.ScoredPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 5
	}
	scored := make([]domain.ScoredPoint, 0, len(s.points))
	for _, p := range s.points {
		scored = append(scored, domain.ScoredPoint{
			Score:   cosine(p.Vector, vector),
			Payload: p.Payload,
		})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if limit > len(scored) {
		limit = len(scored)
	}
	return scored[:limit], nil
}

func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points), nil
}

// Points returns a copy of the stored points, oldest first. Test helper.
func (s *Store) Points() []domain.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Point, len(s.points))
	copy(out, s.points)
	return out
}

func cosine(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
