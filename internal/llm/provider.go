// Package llm abstracts the two interchangeable AI backends behind one
// provider contract: a grounded chat backend with search citations and
// streaming, and a plain chat-completions backend with automatic
// fallback across free-tier models. Pipeline code is written against the
// Provider interface only.
package llm

import "context"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat turn.
type Message struct {
	Role    Role
	Content string
}

// Citation is a web-grounding reference attached to a grounded reply.
type Citation struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Reply is the uniform result of a provider call. Citations is empty for
// backends without grounding support.
type Reply struct {
	Text      string
	Model     string
	Citations []Citation
}

// Provider is the uniform contract over both backends. Model selection,
// fallback, and retry are hidden behind Send.
type Provider interface {
	// Send submits a system context plus message list and returns the
	// model's reply.
	Send(ctx context.Context, system string, msgs []Message, temperature float64) (*Reply, error)

	// Name identifies the backend ("gemini" or "openrouter").
	Name() string
}

// Streamer is implemented by backends that can deliver the reply text
// incrementally. Chunks arrive in receipt order; the final Reply holds
// the accumulated text.
type Streamer interface {
	SendStream(ctx context.Context, system string, msgs []Message, temperature float64, onChunk func(string)) (*Reply, error)
}

// Select picks the active backend: the explicit preference when its key
// is present, otherwise whichever backend has a key, preferring the
// grounded backend when both are configured.
func Select(cfg Config, observer Observer) (Provider, error) {
	switch cfg.Preference {
	case "gemini":
		if cfg.GeminiKey != "" {
			return NewGeminiClient(cfg, observer), nil
		}
	case "openrouter":
		if cfg.OpenRouterKey != "" {
			return NewOpenRouterClient(cfg, observer), nil
		}
	}
	if cfg.GeminiKey != "" {
		return NewGeminiClient(cfg, observer), nil
	}
	if cfg.OpenRouterKey != "" {
		return NewOpenRouterClient(cfg, observer), nil
	}
	return nil, ErrAPIKeyMissing
}
