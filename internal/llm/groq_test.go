package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGroqClientAsk(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantBody   string
		wantStatus int // non-zero means expect *StatusError with this code
		wantErr    error
	}{
		{
			name:     "success returns raw body",
			status:   http.StatusOK,
			body:     `{"choices":[{"message":{"role":"assistant","content":"hi"}}]}`,
			wantBody: `{"choices":[{"message":{"role":"assistant","content":"hi"}}]}`,
		},
		{
			name:       "rate limit surfaces verbatim status and body",
			status:     http.StatusTooManyRequests,
			body:       `{"error":"rate limited"}`,
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "server error surfaces verbatim",
			status:     http.StatusBadGateway,
			body:       "upstream exploded",
			wantStatus: http.StatusBadGateway,
		},
		{
			name:    "non-json success body is malformed",
			status:  http.StatusOK,
			body:    "<html>not json</html>",
			wantErr: ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/chat/completions" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
					t.Errorf("unexpected Authorization header %q", got)
				}
				if got := r.Header.Get("Content-Type"); got != "application/json" {
					t.Errorf("unexpected Content-Type %q", got)
				}
				if r.Header.Get("X-Request-ID") == "" {
					t.Error("expected X-Request-ID header")
				}

				var req chatRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Fatalf("decode request: %v", err)
				}
				if req.Model != "test-model" {
					t.Errorf("expected model test-model, got %s", req.Model)
				}
				if len(req.Messages) != 1 || req.Messages[0].Role != "user" || req.Messages[0].Content != "What is Go?" {
					t.Errorf("unexpected messages %+v", req.Messages)
				}

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewGroqClient(testLogger(), "test-key", srv.URL, "test-model", 5*time.Second)
			raw, err := c.Ask(context.Background(), "What is Go?")

			switch {
			case tt.wantStatus != 0:
				var se *StatusError
				if !errors.As(err, &se) {
					t.Fatalf("expected StatusError, got %v", err)
				}
				if se.Code != tt.wantStatus {
					t.Errorf("expected status %d, got %d", tt.wantStatus, se.Code)
				}
				if se.Body != tt.body {
					t.Errorf("expected verbatim body %q, got %q", tt.body, se.Body)
				}
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if string(raw) != tt.wantBody {
					t.Errorf("expected body %q, got %q", tt.wantBody, string(raw))
				}
			}
		})
	}
}

func TestGroqClientMissingCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called without a credential")
	}))
	defer srv.Close()

	c := NewGroqClient(testLogger(), "", srv.URL, "test-model", time.Second)
	if _, err := c.Ask(context.Background(), "anything"); !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestGroqClientNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewGroqClient(testLogger(), "test-key", srv.URL, "test-model", time.Second)
	_, err := c.Ask(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected transport error")
	}
	var se *StatusError
	if errors.As(err, &se) {
		t.Errorf("transport failure must not be a StatusError, got %v", se)
	}
}
