package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"llm-gateway/internal/app"
	"llm-gateway/internal/httputil"
	"llm-gateway/internal/llm"
)

type completionRequest struct {
	Question string `json:"question" validate:"required"`
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	r := httputil.NewRouter(deps.Log)

	r.Post("/completion", completionHandler(deps))
	r.Post("/groqlive", groqLiveHandler(deps))
	r.Get("/name/{name}", greeterWithName)
	r.Get("/name", greeterDefault)
	r.Get("/healthz", httputil.HealthHandler(deps.Log))
	mountStatic(r, deps.Config.StaticDir)

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		deps.Log.Info("gateway listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Shut the server down cleanly on SIGINT/SIGTERM
	g.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		select {
		case <-ctx.Done():
			return nil
		case s := <-sig:
			deps.Log.Info("shutting down", "signal", s.String())
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("server failed", "err", err)
	}
	if err := deps.Cache.Close(); err != nil {
		deps.Log.Warn("cache close failed", "err", err)
	}
}

// completionHandler serves the chain-backend route. Upstream failures are
// never relayed: every error collapses into an opaque 500.
func completionHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req completionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		answer, err := deps.Dispatcher.AskChain(r.Context(), req.Question)
		if err != nil {
			httputil.Fail(deps.Log, w, "internal error", err, http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, answer)
	}
}

// groqLiveHandler serves the direct-backend route. A non-success upstream
// status is re-emitted to the caller with the same status code and the raw
// upstream body wrapped as {"error": body}; everything else is a 500.
func groqLiveHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req completionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		answer, err := deps.Dispatcher.AskDirect(r.Context(), req.Question)
		if err != nil {
			var se *llm.StatusError
			if errors.As(err, &se) {
				httputil.WriteJSON(w, se.Code, map[string]string{"error": se.Body})
				return
			}
			httputil.Fail(deps.Log, w, "internal error", err, http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, answer)
	}
}

func greeterWithName(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "Hello, %s!", chi.URLParam(r, "name"))
}

func greeterDefault(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "Hello, world!")
}

// mountStatic serves the frontend assets both under /static and at the
// root, mirroring the deployed layout. Explicit routes above win over the
// catch-all.
func mountStatic(r *chi.Mux, dir string) {
	fs := http.FileServer(http.Dir(dir))
	r.Handle("/static/*", http.StripPrefix("/static", fs))
	r.Handle("/*", fs)
}
