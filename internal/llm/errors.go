package llm

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrAPIKeyMissing indicates no backend has a configured API key.
	ErrAPIKeyMissing = errors.New("no ai provider api key configured")

	// ErrNotReady indicates the provider was not initialized before use.
	ErrNotReady = errors.New("ai provider not initialized")

	// ErrInvalidOutput indicates the model response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("model returned invalid json")

	// ErrAllModelsFailed indicates every candidate in the fallback model
	// list was tried and failed.
	ErrAllModelsFailed = errors.New("all fallback models failed")

	// ErrInvalidAPIKey indicates the backend rejected the configured
	// credential.
	ErrInvalidAPIKey = errors.New("api key rejected by provider")

	// ErrQuotaExceeded indicates the backend throttled or exhausted the
	// account's usage allowance.
	ErrQuotaExceeded = errors.New("provider quota exceeded")

	// ErrNetwork indicates the request never produced a backend
	// response (dial failure, timeout, connection reset).
	ErrNetwork = errors.New("provider unreachable")
)

// classifyTransport maps an HTTP status plus structured error message to
// one of the transport sentinels, or nil when the failure is not a
// recognized class. Message matching covers both backends' phrasings
// (Gemini "API key not valid"/"RESOURCE_EXHAUSTED", OpenRouter
// "No auth credentials"/"Rate limit exceeded").
func classifyTransport(status int, message string) error {
	m := strings.ToLower(message)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden,
		strings.Contains(m, "api key"), strings.Contains(m, "api_key"),
		strings.Contains(m, "auth credentials"), strings.Contains(m, "permission_denied"):
		return ErrInvalidAPIKey
	case status == http.StatusTooManyRequests,
		strings.Contains(m, "quota"), strings.Contains(m, "rate limit"),
		strings.Contains(m, "resource_exhausted"):
		return ErrQuotaExceeded
	default:
		return nil
	}
}
