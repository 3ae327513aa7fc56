package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// GroqClient posts chat-completion requests straight to the Groq API.
type GroqClient struct {
	apiKey  string
	baseURL string
	model   string
	hc      *http.Client
	log     *slog.Logger
}

// NewGroqClient builds the direct backend. An empty apiKey is allowed at
// construction; Ask fails with ErrMissingCredential until one is set.
func NewGroqClient(log *slog.Logger, apiKey, baseURL, model string, timeout time.Duration) *GroqClient {
	if timeout <= 0 {
		timeout = defaultUpstreamTimeout
	}
	return &GroqClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		hc:      &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Ask sends the question as a single user message and returns the raw
// upstream JSON document. Non-2xx statuses surface as *StatusError with
// the body preserved verbatim so it can be relayed unchanged.
func (c *GroqClient) Ask(ctx context.Context, question string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingCredential
	}

	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: question}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.log.Warn("groq returned non-success status",
			"status", resp.StatusCode,
			"request_id", requestID,
		)
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not valid json", ErrMalformedResponse)
	}
	return body, nil
}
