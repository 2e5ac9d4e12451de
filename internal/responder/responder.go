// Package responder composes retrieved context with the query and obtains
// the final answer from the generation capability.
package responder

import (
	"context"
	"fmt"
	"strings"

	"flarerag/internal/config"
	"flarerag/internal/domain"
	"flarerag/internal/prompts"
)

// Config holds the responder model and its prompt text.
type Config struct {
	Model        config.ModelConfig
	SystemPrompt string
	QueryPrompt  string
}

// DefaultConfig builds a responder config around the given model using the
// stock prompt library.
func DefaultConfig(model config.ModelConfig) Config {
	return Config{
		Model:        model,
		SystemPrompt: prompts.ResponderInstruction,
		QueryPrompt:  prompts.ResponderPrompt,
	}
}

// Responder turns a query plus retrieved documents into a free-form answer.
type Responder struct {
	client domain.GenerationClient
	cfg    Config
}

func New(client domain.GenerationClient, cfg Config) *Responder {
	return &Responder{client: client, cfg: cfg}
}

// GenerateResponse builds the context block in retrieval order, appends the
// query and the configured instruction suffix, and returns the generated
// text verbatim. Provider errors propagate uncaught.
func (rp *Responder) GenerateResponse(ctx context.Context, query string, retrieved []domain.SearchResult) (string, error) {
	prompt := BuildPrompt(query, retrieved, rp.cfg.QueryPrompt)
	resp, err := rp.client.Generate(ctx, prompt, nil)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// BuildPrompt concatenates a per-document header and text for each retrieved
// document, then the literal query and the instruction suffix. Documents
// without a filename get a positional Doc{n} label.
func BuildPrompt(query string, retrieved []domain.SearchResult, queryPrompt string) string {
	var b strings.Builder
	b.WriteString("List of retrieved documents:\n")
	for i, doc := range retrieved {
		identifier := fmt.Sprintf("Doc%d", i+1)
		if fn, ok := doc.Metadata["filename"].(string); ok && fn != "" {
			identifier = fn
		}
		fmt.Fprintf(&b, "Document %s:\n%s\n\n", identifier, doc.Text)
	}
	fmt.Fprintf(&b, "User query: %s\n", query)
	b.WriteString(queryPrompt)
	return b.String()
}
