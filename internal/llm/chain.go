package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// PromptTemplate is the fixed single-slot template every chain question is
// rendered into before being sent upstream.
const PromptTemplate = "You are a helpful assistant. Answer concisely:\n{{question}}"

const defaultUpstreamTimeout = 30 * time.Second

// ChainClient is a one-step prompt chain bound to an OpenAI-compatible
// proxy endpoint.
type ChainClient struct {
	model    openai.ChatModel
	client   *openai.Client
	template string
	timeout  time.Duration
}

// NewChainClient builds a chain client against an OpenAI-compatible base
// URL. The API key is mandatory here; a missing key is a startup error,
// not a per-request one.
func NewChainClient(apiKey, baseURL string, model openai.ChatModel, timeout time.Duration) (*ChainClient, error) {
	if apiKey == "" {
		return nil, ErrMissingCredential
	}
	if timeout <= 0 {
		timeout = defaultUpstreamTimeout
	}
	cli := openai.NewClient(option.WithAPIKey(apiKey), option.WithBaseURL(baseURL))
	return &ChainClient{
		model:    model,
		client:   &cli,
		template: PromptTemplate,
		timeout:  timeout,
	}, nil
}

// Run renders the template with the question and executes the single chain
// step, suspending until the upstream round trip completes.
func (c *ChainClient) Run(ctx context.Context, question string) (*openai.ChatCompletion, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(renderPrompt(c.template, question)),
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chain step failed: %w", err)
	}
	return resp, nil
}

// renderPrompt substitutes the question into the template's single slot.
func renderPrompt(template, question string) string {
	return strings.ReplaceAll(template, "{{question}}", question)
}
