package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// GeminiClient implements Provider over the Gemini generateContent API
// with search grounding enabled. It additionally supports streaming
// (Streamer) and persistent multi-turn sessions.
type GeminiClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewGeminiClient creates the grounded backend.
func NewGeminiClient(cfg Config, observer Observer) *GeminiClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &GeminiClient{
		cfg:      cfg,
		http:     &http.Client{},
		observer: observer,
	}
}

func (c *GeminiClient) Name() string { return "gemini" }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent   `json:"system_instruction,omitempty"`
	Contents          []geminiContent  `json:"contents"`
	Tools             []map[string]any `json:"tools,omitempty"`
	GenerationConfig  struct {
		Temperature float64 `json:"temperature"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		GroundingMetadata *struct {
			GroundingChunks []struct {
				Web *struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
}

func (c *GeminiClient) buildRequest(system string, msgs []Message, temperature float64) geminiRequest {
	req := geminiRequest{
		Tools: []map[string]any{{"google_search": map[string]any{}}},
	}
	req.GenerationConfig.Temperature = temperature
	if system != "" {
		req.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: system}}}
	}
	for _, m := range msgs {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		req.Contents = append(req.Contents, geminiContent{Role: role, Parts: []geminiPart{{Text: m.Content}}})
	}
	return req
}

// Send submits a grounded generation call and collects any web-grounding
// citations attached to the first candidate.
func (c *GeminiClient) Send(ctx context.Context, system string, msgs []Message, temperature float64) (*Reply, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.cfg.GeminiEndpoint, c.cfg.GeminiModel, c.cfg.GeminiKey)
	resp, err := c.doJSON(ctx, url, c.buildRequest(system, msgs, temperature))
	if err != nil {
		c.observer.OnCallComplete(CallEvent{Backend: c.Name(), Model: c.cfg.GeminiModel, LatencyMs: time.Since(start).Milliseconds(), Success: false, ErrorCode: "TRANSPORT"})
		return nil, err
	}

	reply, err := replyFromResponse(resp, c.cfg.GeminiModel)
	if err != nil {
		c.observer.OnCallComplete(CallEvent{Backend: c.Name(), Model: c.cfg.GeminiModel, LatencyMs: time.Since(start).Milliseconds(), Success: false, ErrorCode: "EMPTY"})
		return nil, err
	}
	c.observer.OnCallComplete(CallEvent{Backend: c.Name(), Model: c.cfg.GeminiModel, LatencyMs: time.Since(start).Milliseconds(), Success: true})
	return reply, nil
}

// SendStream submits a streaming generation call. Chunks are delivered
// to onChunk in receipt order; the returned Reply accumulates the full
// text plus any citations carried by the final chunks.
func (c *GeminiClient) SendStream(ctx context.Context, system string, msgs []Message, temperature float64, onChunk func(string)) (*Reply, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse&key=%s", c.cfg.GeminiEndpoint, c.cfg.GeminiModel, c.cfg.GeminiKey)

	data, err := json.Marshal(c.buildRequest(system, msgs, temperature))
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrNetwork, err)
		c.observer.OnCallComplete(CallEvent{Backend: c.Name(), Model: c.cfg.GeminiModel, LatencyMs: time.Since(start).Milliseconds(), Success: false, ErrorCode: "TRANSPORT"})
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(httpResp.Body)
		c.observer.OnCallComplete(CallEvent{Backend: c.Name(), Model: c.cfg.GeminiModel, LatencyMs: time.Since(start).Milliseconds(), Success: false, ErrorCode: "API"})
		return nil, apiError(body, httpResp.StatusCode)
	}

	var text strings.Builder
	var citations []Citation
	scanner := bufio.NewScanner(httpResp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" || payload == "[DONE]" {
			continue
		}
		var chunk geminiResponse
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			continue
		}
		reply, err := replyFromResponse(&chunk, c.cfg.GeminiModel)
		if err != nil {
			continue
		}
		if reply.Text != "" {
			text.WriteString(reply.Text)
			if onChunk != nil {
				onChunk(reply.Text)
			}
		}
		citations = append(citations, reply.Citations...)
	}
	if err := scanner.Err(); err != nil {
		c.observer.OnCallComplete(CallEvent{Backend: c.Name(), Model: c.cfg.GeminiModel, LatencyMs: time.Since(start).Milliseconds(), Success: false, ErrorCode: "STREAM"})
		return nil, fmt.Errorf("reading stream: %w", err)
	}

	c.observer.OnCallComplete(CallEvent{Backend: c.Name(), Model: c.cfg.GeminiModel, LatencyMs: time.Since(start).Milliseconds(), Success: true})
	return &Reply{Text: text.String(), Model: c.cfg.GeminiModel, Citations: citations}, nil
}

func (c *GeminiClient) doJSON(ctx context.Context, url string, body geminiRequest) (*geminiResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, apiError(respBody, httpResp.StatusCode)
	}

	var resp geminiResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &resp, nil
}

// apiError prefers the structured error body message over HTTP status
// text, and tags recognized credential/quota failures with their
// transport sentinel.
func apiError(body []byte, status int) error {
	var resp geminiResponse
	message := ""
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error != nil {
		message = resp.Error.Message
	}
	if sentinel := classifyTransport(status, message); sentinel != nil {
		if message != "" {
			return fmt.Errorf("gemini: %s: %w", message, sentinel)
		}
		return fmt.Errorf("gemini: status %d: %w", status, sentinel)
	}
	if message != "" {
		return fmt.Errorf("gemini: %s", message)
	}
	return fmt.Errorf("gemini: status %d: %s", status, http.StatusText(status))
}

func replyFromResponse(resp *geminiResponse, model string) (*Reply, error) {
	if resp.Error != nil && resp.Error.Message != "" {
		return nil, fmt.Errorf("gemini: %s", resp.Error.Message)
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini: no candidates in response")
	}
	cand := resp.Candidates[0]

	var text strings.Builder
	for _, part := range cand.Content.Parts {
		text.WriteString(part.Text)
	}

	var citations []Citation
	if cand.GroundingMetadata != nil {
		for _, chunk := range cand.GroundingMetadata.GroundingChunks {
			if chunk.Web != nil && chunk.Web.URI != "" {
				citations = append(citations, Citation{URL: chunk.Web.URI, Title: chunk.Web.Title})
			}
		}
	}

	return &Reply{Text: text.String(), Model: model, Citations: citations}, nil
}

// ChatSession is a persistent multi-turn conversation over the grounded
// backend. It is safe for use from one goroutine at a time per the
// cooperative UI model; the mutex only protects against accidental
// overlap.
type ChatSession struct {
	mu      sync.Mutex
	client  *GeminiClient
	system  string
	history []Message
}

// NewSession creates a chat session with a fixed system context.
func (c *GeminiClient) NewSession(system string) *ChatSession {
	return &ChatSession{client: c, system: system}
}

// Send appends a user turn, calls the backend with the full history, and
// records the assistant reply. When onChunk is non-nil the reply streams
// incrementally.
func (s *ChatSession) Send(ctx context.Context, userText string, temperature float64, onChunk func(string)) (*Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := append(append([]Message(nil), s.history...), Message{Role: RoleUser, Content: userText})

	var reply *Reply
	var err error
	if onChunk != nil {
		reply, err = s.client.SendStream(ctx, s.system, msgs, temperature, onChunk)
	} else {
		reply, err = s.client.Send(ctx, s.system, msgs, temperature)
	}
	if err != nil {
		return nil, err
	}

	s.history = append(s.history,
		Message{Role: RoleUser, Content: userText},
		Message{Role: RoleAssistant, Content: reply.Text},
	)
	return reply, nil
}

// History returns a copy of the recorded turns.
func (s *ChatSession) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.history...)
}
