package app

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/openai/openai-go/v3"

	"llm-gateway/internal/cache"
	"llm-gateway/internal/config"
	"llm-gateway/internal/dispatch"
	"llm-gateway/internal/llm"
	"llm-gateway/internal/logger"
)

// Deps bundles the gateway's runtime dependencies.
type Deps struct {
	Config     config.Config
	Log        *slog.Logger
	Cache      cache.Cache
	Dispatcher *dispatch.Service
}

// Build loads env, config, and shared components. A missing chain-backend
// credential fails the build (the process must not start without it); a
// missing direct-backend credential only fails /groqlive calls later.
func Build() (Deps, error) {
	// .env is optional; real deployments configure the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	chain, err := llm.NewChainClient(cfg.OpenRouterKey, cfg.OpenRouterBaseURL, openai.ChatModel(cfg.Model), cfg.UpstreamTimeout())
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize chain backend (is OPENROUTER_API_KEY set?): %w", err)
	}
	log.Info("using chain backend", "base_url", cfg.OpenRouterBaseURL, "model", cfg.Model)

	direct := llm.NewGroqClient(log, cfg.GroqKey, cfg.GroqBaseURL, cfg.GroqModel, cfg.UpstreamTimeout())
	if cfg.GroqKey == "" {
		log.Warn("GROQ_API_KEY not set; /groqlive will fail until it is configured")
	}

	c := buildCache(cfg, log)

	return Deps{
		Config:     cfg,
		Log:        log,
		Cache:      c,
		Dispatcher: dispatch.New(log, chain, direct, c, cfg.CacheTTL()),
	}, nil
}

func buildCache(cfg config.Config, log *slog.Logger) cache.Cache {
	switch cfg.CacheProvider {
	case "redis":
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Warn("redis unavailable, answers will not be cached", "err", err)
			return cache.NewNoOpCache()
		}
		log.Info("using Redis answer cache", "addr", cfg.RedisAddr)
		return c
	default:
		return cache.NewNoOpCache()
	}
}
