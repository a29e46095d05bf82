package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// fallbackModels is the prioritized list of free-tier model identifiers
// the plain backend walks when no explicit model is configured or the
// configured model fails. The call fails only once every candidate has
// been tried.
var fallbackModels = []string{
	"mistralai/mistral-7b-instruct:free",
	"meta-llama/llama-3.2-3b-instruct:free",
	"google/gemma-3-4b-it:free",
	"openai/gpt-oss-20b:free",
}

// openRouterClient implements Provider over an OpenAI-shaped
// chat-completions endpoint. It has no grounding and no streaming.
type openRouterClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewOpenRouterClient creates the plain chat-completion backend.
func NewOpenRouterClient(cfg Config, observer Observer) Provider {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &openRouterClient{
		cfg:      cfg,
		http:     &http.Client{},
		observer: observer,
	}
}

func (c *openRouterClient) Name() string { return "openrouter" }

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *openRouterClient) Send(ctx context.Context, system string, msgs []Message, temperature float64) (*Reply, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	candidates := fallbackModels
	if c.cfg.OpenRouterModel != "" {
		candidates = append([]string{c.cfg.OpenRouterModel}, fallbackModels...)
	}

	var lastErr error
	for _, model := range candidates {
		text, err := c.complete(ctx, model, system, msgs, temperature)
		if err == nil {
			c.observer.OnCallComplete(CallEvent{
				Backend:   c.Name(),
				Model:     model,
				LatencyMs: time.Since(start).Milliseconds(),
				Success:   true,
			})
			return &Reply{Text: text, Model: model}, nil
		}
		lastErr = err

		// Retry only across the model list, never across a dead context.
		if ctx.Err() != nil {
			break
		}
	}

	c.observer.OnCallComplete(CallEvent{
		Backend:   c.Name(),
		Model:     "",
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   false,
		ErrorCode: "ALL_MODELS_FAILED",
	})
	// Keep the last candidate's error in the chain so credential and
	// quota failures stay distinguishable to the caller.
	return nil, fmt.Errorf("%w: %w", ErrAllModelsFailed, lastErr)
}

func (c *openRouterClient) complete(ctx context.Context, model, system string, msgs []Message, temperature float64) (string, error) {
	messages := make([]chatMessage, 0, len(msgs)+1)
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	for _, m := range msgs {
		messages = append(messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	data, err := json.Marshal(chatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := c.cfg.OpenRouterEndpoint + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.OpenRouterKey)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", model, ErrNetwork, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var resp chatCompletionResponse
	decodeErr := json.Unmarshal(respBody, &resp)

	// A structured error body takes priority over generic status text.
	if decodeErr == nil && resp.Error != nil && resp.Error.Message != "" {
		if sentinel := classifyTransport(httpResp.StatusCode, resp.Error.Message); sentinel != nil {
			return "", fmt.Errorf("%s: %s: %w", model, resp.Error.Message, sentinel)
		}
		return "", fmt.Errorf("%s: %s", model, resp.Error.Message)
	}
	if httpResp.StatusCode != http.StatusOK {
		if sentinel := classifyTransport(httpResp.StatusCode, ""); sentinel != nil {
			return "", fmt.Errorf("%s: status %d: %w", model, httpResp.StatusCode, sentinel)
		}
		return "", fmt.Errorf("%s: status %d: %s", model, httpResp.StatusCode, http.StatusText(httpResp.StatusCode))
	}
	if decodeErr != nil {
		return "", fmt.Errorf("%s: decoding response: %w", model, decodeErr)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: empty choices in response", model)
	}
	return resp.Choices[0].Message.Content, nil
}
