package api

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"taskflow-backend/pkg/ai"
	"taskflow-backend/pkg/config"
	"taskflow-backend/pkg/gemini"
)

// NewAdvisor picks the advice provider from cfg.AIProvider and wraps it in the
// canned fallback. The returned cleanup releases provider resources.
//
// "auto" prefers Gemini when an API key is set and Ollama otherwise.
func NewAdvisor(ctx context.Context, cfg *config.Config, settings *RuntimeSettings) (ai.Advisor, func()) {
	provider := ai.ProviderType(strings.ToLower(strings.TrimSpace(cfg.AIProvider)))
	if provider == "" {
		provider = ai.ProviderAuto
	}
	if provider == ai.ProviderAuto {
		provider = ai.ProviderOllama
		if cfg.GeminiAPIKey != "" {
			provider = ai.ProviderGemini
		}
	}

	noop := func() {}

	switch provider {
	case ai.ProviderGemini:
		svc, err := gemini.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Warn().Err(err).Msg("[AI] Failed to initialize Gemini, using canned advice")
			return ai.NewFallbackAdvisor(nil, cfg.AITimeout), noop
		}
		log.Info().Msgf("[AI] Advice provider: gemini (%s)", cfg.GeminiModel)
		return ai.NewFallbackAdvisor(svc, cfg.AITimeout), func() {
			if err := svc.Close(); err != nil {
				log.Warn().Err(err).Msg("[AI] Failed to close Gemini client")
			}
		}

	case ai.ProviderOllama:
		log.Info().Msgf("[AI] Advice provider: ollama (%s, dynamic config enabled)", settings.OllamaBaseURL())
		svc := ai.NewOllamaServiceWithGetters(settings.OllamaBaseURL, settings.OllamaModel)
		return ai.NewFallbackAdvisor(svc, cfg.AITimeout), noop

	case ai.ProviderNone:
		log.Info().Msg("[AI] Advice provider disabled, using canned advice")
		return ai.NewFallbackAdvisor(nil, cfg.AITimeout), noop

	default:
		log.Warn().Msgf("[AI] Unknown AI_PROVIDER %q, using canned advice", cfg.AIProvider)
		return ai.NewFallbackAdvisor(nil, cfg.AITimeout), noop
	}
}
