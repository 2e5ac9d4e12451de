package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"flarerag/internal/config"
	"flarerag/internal/domain"
)

// GeminiProvider implements domain.GenerationClient on Google's Gemini API.
// Generate is stateless; SendMessage lazily opens a chat session and keeps
// it for the lifetime of the provider, so one provider instance serves one
// conversation.
type GeminiProvider struct {
	client *genai.Client
	model  config.ModelConfig
	system string
	chat   *genai.Chat
	log    zerolog.Logger
}

// NewGeminiProvider creates a provider for the given model. systemInstruction
// may be empty.
func NewGeminiProvider(ctx context.Context, apiKey string, model config.ModelConfig, systemInstruction string, log zerolog.Logger) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiProvider{
		client: client,
		model:  model,
		system: systemInstruction,
		log:    log.With().Str("service", "gemini").Logger(),
	}, nil
}

func (p *GeminiProvider) generateConfig(opts *domain.GenerateOptions) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if p.system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(p.system, genai.RoleUser)
	}
	if p.model.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(p.model.MaxTokens)
	}
	if p.model.Temperature != nil {
		cfg.Temperature = genai.Ptr(*p.model.Temperature)
	}
	if opts != nil {
		if opts.ResponseMIMEType != "" {
			cfg.ResponseMIMEType = opts.ResponseMIMEType
		}
		if len(opts.ResponseSchema) > 0 {
			if schema, err := toGenaiSchema(opts.ResponseSchema); err != nil {
				p.log.Error().Err(err).Msg("invalid response schema, generating without it")
			} else {
				cfg.ResponseSchema = schema
			}
		}
	}
	return cfg
}

// Generate produces content for a single prompt.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string, opts *domain.GenerateOptions) (*domain.ModelResponse, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := p.client.Models.GenerateContent(ctx, p.model.ID, contents, p.generateConfig(opts))
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	text := resp.Text()
	p.log.Debug().Str("model", p.model.ID).Int("prompt_len", len(prompt)).Msg("generated content")
	return &domain.ModelResponse{
		Text: text,
		Metadata: map[string]any{
			"candidate_count": len(resp.Candidates),
		},
	}, nil
}

// SendMessage sends a message on the provider's chat session, creating the
// session on first use.
func (p *GeminiProvider) SendMessage(ctx context.Context, text string) (*domain.ModelResponse, error) {
	if p.chat == nil {
		chat, err := p.client.Chats.Create(ctx, p.model.ID, p.generateConfig(nil), nil)
		if err != nil {
			return nil, fmt.Errorf("starting chat session: %w", err)
		}
		p.chat = chat
	}
	resp, err := p.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return nil, fmt.Errorf("gemini send message: %w", err)
	}
	return &domain.ModelResponse{
		Text: resp.Text(),
		Metadata: map[string]any{
			"candidate_count": len(resp.Candidates),
		},
	}, nil
}

// Reset drops the chat session so the next SendMessage starts a fresh
// conversation.
func (p *GeminiProvider) Reset() {
	p.chat = nil
}

// GeminiEmbedding implements domain.EmbeddingClient on the Gemini
// embedding endpoint.
type GeminiEmbedding struct {
	client *genai.Client
}

func NewGeminiEmbedding(ctx context.Context, apiKey string) (*GeminiEmbedding, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiEmbedding{client: client}, nil
}

// Embed generates an embedding vector for content. A provider rejection for
// an oversized payload is reported as domain.ErrContentTooLarge; a response
// with no embedding field as domain.ErrNoEmbedding.
func (e *GeminiEmbedding) Embed(ctx context.Context, model, content string, task domain.TaskType, title string) ([]float32, error) {
	cfg := &genai.EmbedContentConfig{TaskType: string(task)}
	if title != "" {
		cfg.Title = title
	}
	contents := []*genai.Content{genai.NewContentFromText(content, genai.RoleUser)}
	resp, err := e.client.Models.EmbedContent(ctx, model, contents, cfg)
	if err != nil {
		if isPayloadTooLarge(err) {
			return nil, fmt.Errorf("embedding %q: %w", title, domain.ErrContentTooLarge)
		}
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if resp == nil || len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, domain.ErrNoEmbedding
	}
	return resp.Embeddings[0].Values, nil
}

func isPayloadTooLarge(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == 400 && strings.Contains(apiErr.Message, "payload size exceeds the limit")
	}
	return strings.Contains(err.Error(), "payload size exceeds the limit")
}
