package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flarerag/internal/domain"
	"flarerag/internal/service"
)

type fakeChat struct {
	result *service.ChatResult
	err    error
	query  string
}

func (f *fakeChat) Chat(_ context.Context, query string) (*service.ChatResult, error) {
	f.query = query
	return f.result, f.err
}

type fakeAppender struct {
	err      error
	content  string
	metadata map[string]any
}

func (f *fakeAppender) AppendDocument(_ context.Context, content string, metadata map[string]any) error {
	f.content = content
	f.metadata = metadata
	return f.err
}

func newTestServer(chat *fakeChat, appender *fakeAppender) *Server {
	return New(chat, appender, []string{"*"}, zerolog.Nop())
}

func TestChatEndpointReturnsAnswer(t *testing.T) {
	chat := &fakeChat{result: &service.ChatResult{
		Classification: domain.ClassificationAnswer,
		Response:       "Flare is the blockchain for data.",
	}}
	srv := newTestServer(chat, &fakeAppender{})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message": "What is Flare?"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "What is Flare?", chat.query)

	var body chatResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, domain.ClassificationAnswer, body.Classification)
	assert.Equal(t, "Flare is the blockchain for data.", body.Response)
}

func TestChatEndpointRejectsEmptyMessage(t *testing.T) {
	srv := newTestServer(&fakeChat{}, &fakeAppender{})

	for _, payload := range []string{`{"message": ""}`, `{}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "payload %q", payload)
	}
}

func TestChatEndpointPipelineFailureIsServiceUnavailable(t *testing.T) {
	chat := &fakeChat{err: errors.New("provider unreachable")}
	srv := newTestServer(chat, &fakeAppender{})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message": "query"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "service unavailable", body.Error)
}

func TestAppendDocumentEndpointStoresContent(t *testing.T) {
	appender := &fakeAppender{}
	srv := newTestServer(&fakeChat{}, appender)

	payload := `{"content": "a new message", "metadata": {"author": "alice"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/documents", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "a new message", appender.content)
	assert.Equal(t, map[string]any{"author": "alice"}, appender.metadata)
}

func TestAppendDocumentEndpointRejectsEmptyContent(t *testing.T) {
	srv := newTestServer(&fakeChat{}, &fakeAppender{})

	req := httptest.NewRequest(http.MethodPost, "/api/documents", strings.NewReader(`{"content": ""}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAppendDocumentEndpointFailureIsServiceUnavailable(t *testing.T) {
	appender := &fakeAppender{err: errors.New("store down")}
	srv := newTestServer(&fakeChat{}, appender)

	req := httptest.NewRequest(http.MethodPost, "/api/documents", strings.NewReader(`{"content": "text"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&fakeChat{}, &fakeAppender{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}
