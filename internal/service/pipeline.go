// Package service wires the router, retriever, and responder into the
// request pipeline.
package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"flarerag/internal/domain"
)

// QueryRouter classifies a query into an action category.
type QueryRouter interface {
	RouteQuery(ctx context.Context, query string) (string, error)
}

// Searcher retrieves the most similar documents for a query.
type Searcher interface {
	SemanticSearch(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)
}

// AnswerGenerator produces the final answer from query plus context.
type AnswerGenerator interface {
	GenerateResponse(ctx context.Context, query string, retrieved []domain.SearchResult) (string, error)
}

// ChatResult is the outcome of one pipeline run. For CLARIFY and REJECT the
// classification label doubles as the response text; the surrounding
// front-end decides how to present it.
type ChatResult struct {
	Classification string                `json:"classification"`
	Response       string                `json:"response"`
	Sources        []domain.SearchResult `json:"sources,omitempty"`
}

// Pipeline is the explicitly constructed, dependency-injected three-stage
// pipeline. It holds no per-request state; each step blocks on one external
// call before the next begins.
type Pipeline struct {
	router    QueryRouter
	retriever Searcher
	responder AnswerGenerator
	topK      int
	log       zerolog.Logger
}

func NewPipeline(router QueryRouter, retriever Searcher, responder AnswerGenerator, topK int, log zerolog.Logger) *Pipeline {
	if topK <= 0 {
		topK = 5
	}
	return &Pipeline{
		router:    router,
		retriever: retriever,
		responder: responder,
		topK:      topK,
		log:       log.With().Str("component", "pipeline").Logger(),
	}
}

// Chat runs query -> classify -> (if ANSWER) retrieve -> respond. For any
// other classification the label is returned as the response and retrieval
// never runs.
func (p *Pipeline) Chat(ctx context.Context, query string) (*ChatResult, error) {
	classification, err := p.router.RouteQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("routing query: %w", err)
	}
	p.log.Debug().Str("classification", classification).Msg("query classified")

	if classification != domain.ClassificationAnswer {
		return &ChatResult{Classification: classification, Response: classification}, nil
	}

	retrieved, err := p.retriever.SemanticSearch(ctx, query, p.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieving context: %w", err)
	}
	answer, err := p.responder.GenerateResponse(ctx, query, retrieved)
	if err != nil {
		return nil, fmt.Errorf("generating response: %w", err)
	}
	return &ChatResult{
		Classification: classification,
		Response:       answer,
		Sources:        retrieved,
	}, nil
}
