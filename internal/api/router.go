package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/omkarsat/lumi-agent/internal/agent"
	"github.com/omkarsat/lumi-agent/internal/api/handler"
	customMiddleware "github.com/omkarsat/lumi-agent/internal/api/middleware"
	"github.com/omkarsat/lumi-agent/internal/config"
	"github.com/omkarsat/lumi-agent/internal/corpus"
	"github.com/omkarsat/lumi-agent/internal/domain"
	"github.com/omkarsat/lumi-agent/internal/llm"
	"github.com/omkarsat/lumi-agent/internal/llm/gemini"
	"github.com/omkarsat/lumi-agent/internal/llm/ollama"
	"github.com/omkarsat/lumi-agent/internal/llm/openai"
	"github.com/omkarsat/lumi-agent/internal/repository/redis"
	"github.com/omkarsat/lumi-agent/internal/service"
	"github.com/omkarsat/lumi-agent/internal/session"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, repo domain.RecordRepository, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize LLM Router with providers
	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)

	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.LLM.DefaultProvider)

	if cfg.LLM.Ollama.Host != "" {
		log.Info().Str("host", cfg.LLM.Ollama.Host).Msg("Registering Ollama provider")
		llmRouter.RegisterProvider(ollama.NewProvider(cfg.LLM.Ollama.Host, cfg.LLM.Ollama.DefaultModel))
	}
	if cfg.LLM.OpenAI.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model))
	}
	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini))
	} else {
		log.Warn().Msg("Gemini API Key is empty, skipping registration")
	}

	// Initialize core components
	sessions := session.NewStore(cfg.Session.MaxMessages)
	retriever := corpus.NewRetriever(cfg.Corpus)
	recordService := service.NewRecordService(repo)
	registry := agent.NewRegistry(retriever, recordService)
	orchestrator := agent.NewOrchestrator(llmRouter, registry, sessions, cfg.Agent.MaxIterations)

	// Initialize handlers
	chatHandler := handler.NewChatHandler(orchestrator)
	sessionHandler := handler.NewSessionHandler(sessions)
	recordHandler := handler.NewRecordHandler(recordService)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(repo))
		r.Get("/llm-providers", handler.ListLLMProviders(llmRouter))

		r.Group(func(r chi.Router) {
			if cfg.Redis.Enabled && redisClient != nil {
				rateLimiter := redis.NewRateLimiter(
					redisClient,
					cfg.Agent.RequestsPerMinute,
					cfg.Agent.Burst,
				)
				r.Use(customMiddleware.NewRateLimitMiddleware(rateLimiter).Limit)
			}

			r.Post("/chat", chatHandler.Chat)

			r.Route("/sessions/{sessionID}", func(r chi.Router) {
				r.Get("/history", sessionHandler.History)
				r.Post("/clear", sessionHandler.Clear)
			})

			r.Get("/records/{recordID}", recordHandler.Get)
		})
	})

	return r
}
