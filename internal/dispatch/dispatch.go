// Package dispatch routes inbound questions to the configured LLM backends
// and normalizes their heterogeneous responses into one answer envelope.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"llm-gateway/internal/cache"
	"llm-gateway/internal/extract"
	"llm-gateway/internal/llm"
)

const (
	backendChain  = "chain"
	backendDirect = "direct"
)

// Answer is the uniform success envelope for both routes.
type Answer struct {
	Answer string `json:"answer"`
}

// Service holds the two backends plus an optional answer cache. All fields
// are read-only after construction; requests share it without locking.
type Service struct {
	chain    llm.ChainBackend
	direct   llm.DirectBackend
	cache    cache.Cache
	cacheTTL time.Duration
	log      *slog.Logger
}

// New builds a dispatcher over the given backends.
func New(log *slog.Logger, chain llm.ChainBackend, direct llm.DirectBackend, c cache.Cache, cacheTTL time.Duration) *Service {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	return &Service{
		chain:    chain,
		direct:   direct,
		cache:    c,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// AskChain runs the question through the prompt chain. Every upstream or
// extraction failure collapses into an opaque error; this route never
// relays upstream status codes or bodies to the caller.
func (s *Service) AskChain(ctx context.Context, question string) (Answer, error) {
	if answer, ok := s.cached(ctx, backendChain, question); ok {
		return answer, nil
	}

	resp, err := s.chain.Run(ctx, question)
	if err != nil {
		s.log.Error("chain backend failed", "err", err)
		return Answer{}, fmt.Errorf("chain backend: %w", err)
	}
	text, err := extract.FromCompletion(resp)
	if err != nil {
		s.log.Error("chain extraction failed", "err", err)
		return Answer{}, fmt.Errorf("chain extraction: %w", err)
	}

	s.store(ctx, backendChain, question, text)
	return Answer{Answer: text}, nil
}

// AskDirect asks the raw HTTP backend. A *llm.StatusError stays reachable
// through the returned error chain so the HTTP layer can relay the
// upstream status and body verbatim; extraction itself never fails here,
// it degrades to the placeholder answer.
func (s *Service) AskDirect(ctx context.Context, question string) (Answer, error) {
	if answer, ok := s.cached(ctx, backendDirect, question); ok {
		return answer, nil
	}

	raw, err := s.direct.Ask(ctx, question)
	if err != nil {
		s.log.Error("direct backend failed", "err", err)
		return Answer{}, fmt.Errorf("direct backend: %w", err)
	}
	text := extract.FromChatJSON(raw)

	s.store(ctx, backendDirect, question, text)
	return Answer{Answer: text}, nil
}

func (s *Service) cached(ctx context.Context, backend, question string) (Answer, bool) {
	key := cache.GenerateCacheKey(backend, question)
	entry, err := s.cache.GetAnswer(ctx, key)
	if err != nil {
		s.log.Warn("cache read failed", "err", err)
		return Answer{}, false
	}
	if entry == nil {
		return Answer{}, false
	}
	s.log.Debug("cache hit", "backend", backend)
	return Answer{Answer: entry.Answer}, true
}

// store caches a successful answer. Placeholder answers are not cached so a
// transiently degraded upstream does not pin the fallback text.
func (s *Service) store(ctx context.Context, backend, question, text string) {
	if text == extract.Placeholder {
		return
	}
	key := cache.GenerateCacheKey(backend, question)
	entry := &cache.Entry{Answer: text, Backend: backend}
	if err := s.cache.SetAnswer(ctx, key, entry, s.cacheTTL); err != nil {
		// Log cache write failure but don't fail the request
		s.log.Warn("cache write failed", "err", err)
	}
}
