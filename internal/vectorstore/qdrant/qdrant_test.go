package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flarerag/internal/domain"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	apiKey string
	body   map[string]any
}

// testServer records every request and answers from a per-path response table.
func testServer(t *testing.T, responses map[string]func(w http.ResponseWriter)) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			apiKey: r.Header.Get("api-key"),
		}
		if r.ContentLength > 0 {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&rec.body))
		}
		requests = append(requests, rec)
		if respond, ok := responses[r.Method+" "+r.URL.Path]; ok {
			respond(w)
			return
		}
		w.Write([]byte(`{"result": true, "status": "ok"}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func storeFor(t *testing.T, srv *httptest.Server, apiKey string) *Store {
	t.Helper()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return NewStore(Config{
		Host:       u.Hostname(),
		Port:       port,
		APIKey:     apiKey,
		Collection: "docs_collection",
		Timeout:    time.Second,
	})
}

func TestRecreateDeletesThenCreatesCollection(t *testing.T) {
	srv, requests := testServer(t, nil)
	s := storeFor(t, srv, "")

	require.NoError(t, s.Recreate(context.Background(), 768))

	reqs := *requests
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodDelete, reqs[0].method)
	assert.Equal(t, "/collections/docs_collection", reqs[0].path)
	assert.Equal(t, http.MethodPut, reqs[1].method)
	assert.Equal(t, "/collections/docs_collection", reqs[1].path)
	vectors, ok := reqs[1].body["vectors"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(768), vectors["size"])
	assert.Equal(t, "Cosine", vectors["distance"])
}

func TestRecreateToleratesMissingCollection(t *testing.T) {
	srv, _ := testServer(t, map[string]func(w http.ResponseWriter){
		"DELETE /collections/docs_collection": func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusNotFound)
		},
	})
	s := storeFor(t, srv, "")

	require.NoError(t, s.Recreate(context.Background(), 768))
}

func TestRecreateSurfacesOtherDeleteFailures(t *testing.T) {
	srv, _ := testServer(t, map[string]func(w http.ResponseWriter){
		"DELETE /collections/docs_collection": func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusInternalServerError)
		},
	})
	s := storeFor(t, srv, "")

	require.Error(t, s.Recreate(context.Background(), 768))
}

func TestRecreateRejectsInvalidDimension(t *testing.T) {
	srv, requests := testServer(t, nil)
	s := storeFor(t, srv, "")

	err := s.Recreate(context.Background(), 0)

	require.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Empty(t, *requests)
}

func TestUpsertBatchesPointsAndWaits(t *testing.T) {
	srv, requests := testServer(t, nil)
	s := storeFor(t, srv, "secret")

	points := []domain.Point{
		{ID: 1, Vector: []float32{1, 0}, Payload: map[string]any{"text": "one"}},
		{ID: 2, Vector: []float32{0, 1}, Payload: map[string]any{"text": "two"}},
	}
	require.NoError(t, s.Upsert(context.Background(), points))

	reqs := *requests
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPut, reqs[0].method)
	assert.Equal(t, "/collections/docs_collection/points", reqs[0].path)
	assert.Equal(t, "wait=true", reqs[0].query)
	assert.Equal(t, "secret", reqs[0].apiKey)
	batch, ok := reqs[0].body["points"].([]any)
	require.True(t, ok)
	require.Len(t, batch, 2)
	first := batch[0].(map[string]any)
	assert.Equal(t, float64(1), first["id"])
	assert.Equal(t, map[string]any{"text": "one"}, first["payload"])
}

func TestSearchParsesScoredHits(t *testing.T) {
	srv, requests := testServer(t, map[string]func(w http.ResponseWriter){
		"POST /collections/docs_collection/points/search": func(w http.ResponseWriter) {
			w.Write([]byte(`{"result": [
				{"score": 0.92, "payload": {"text": "best", "filename": "a.md"}},
				{"score": 0.41, "payload": {"text": "worse", "filename": "b.md"}}
			]}`))
		},
	})
	s := storeFor(t, srv, "")

	hits, err := s.Search(context.Background(), []float32{1, 0}, 2)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.InDelta(t, 0.92, hits[0].Score, 1e-6)
	assert.Equal(t, "best", hits[0].Payload["text"])
	assert.InDelta(t, 0.41, hits[1].Score, 1e-6)

	reqs := *requests
	require.Len(t, reqs, 1)
	assert.Equal(t, float64(2), reqs[0].body["limit"])
	assert.Equal(t, true, reqs[0].body["with_payload"])
}

func TestCountRequestsExactTotal(t *testing.T) {
	srv, requests := testServer(t, map[string]func(w http.ResponseWriter){
		"POST /collections/docs_collection/points/count": func(w http.ResponseWriter) {
			w.Write([]byte(`{"result": {"count": 42}}`))
		},
	})
	s := storeFor(t, srv, "")

	count, err := s.Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 42, count)
	reqs := *requests
	require.Len(t, reqs, 1)
	assert.Equal(t, true, reqs[0].body["exact"])
}

func TestErrorStatusIsReported(t *testing.T) {
	srv, _ := testServer(t, map[string]func(w http.ResponseWriter){
		"POST /collections/docs_collection/points/search": func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusBadRequest)
		},
	})
	s := storeFor(t, srv, "")

	_, err := s.Search(context.Background(), []float32{1, 0}, 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "qdrant POST")
}
