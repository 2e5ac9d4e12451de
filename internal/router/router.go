// Package router classifies incoming queries before the retrieval pipeline
// runs them.
package router

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"flarerag/internal/config"
	"flarerag/internal/domain"
	"flarerag/internal/prompts"
)

// Config holds the classification prompts, the model, and the three valid
// classification outcomes. The option strings are compared upper-cased.
type Config struct {
	SystemPrompt  string
	RouterPrompt  string
	Model         config.ModelConfig
	AnswerOption  string
	ClarifyOption string
	RejectOption  string
}

// DefaultConfig builds a router config around the given model using the
// stock prompt library and the canonical option strings.
func DefaultConfig(model config.ModelConfig) Config {
	return Config{
		SystemPrompt:  prompts.RouterInstruction,
		RouterPrompt:  prompts.RouterPrompt,
		Model:         model,
		AnswerOption:  domain.ClassificationAnswer,
		ClarifyOption: domain.ClassificationClarify,
		RejectOption:  domain.ClassificationReject,
	}
}

// QueryRouter classifies a query into one of the configured options using
// the generation capability. It holds no per-request state and is safe for
// concurrent use.
type QueryRouter struct {
	client domain.GenerationClient
	cfg    Config
	log    zerolog.Logger
}

func New(client domain.GenerationClient, cfg Config, log zerolog.Logger) *QueryRouter {
	return &QueryRouter{
		client: client,
		cfg:    cfg,
		log:    log.With().Str("component", "router").Logger(),
	}
}

// RouteQuery classifies the query. Provider errors propagate to the caller;
// a malformed or out-of-vocabulary model response never does — it degrades
// to the clarify option, which defers the decision back to the user instead
// of risking a wrong ANSWER or REJECT.
func (r *QueryRouter) RouteQuery(ctx context.Context, query string) (string, error) {
	prompt := r.cfg.SystemPrompt + "\n" + r.cfg.RouterPrompt + query
	resp, err := r.client.Generate(ctx, prompt, &domain.GenerateOptions{
		ResponseMIMEType: "application/json",
		ResponseSchema:   classificationSchema(r.cfg),
	})
	if err != nil {
		return "", err
	}

	classification, err := extractClassification(resp.Text)
	if err != nil {
		r.log.Warn().Err(err).Msg("unparsable classification response, falling back to clarify")
		return r.cfg.ClarifyOption, nil
	}
	classification = strings.ToUpper(classification)
	switch classification {
	case strings.ToUpper(r.cfg.AnswerOption),
		strings.ToUpper(r.cfg.ClarifyOption),
		strings.ToUpper(r.cfg.RejectOption):
		return classification, nil
	}
	r.log.Debug().Str("classification", classification).Msg("out-of-vocabulary classification, falling back to clarify")
	return r.cfg.ClarifyOption, nil
}

func classificationSchema(cfg Config) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"classification": map[string]any{
				"type": "string",
				"enum": []string{cfg.AnswerOption, cfg.ClarifyOption, cfg.RejectOption},
			},
		},
		"required": []string{"classification"},
	}
}
