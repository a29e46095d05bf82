package llm

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTransport(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
		want    error
	}{
		{"unauthorized status", http.StatusUnauthorized, "", ErrInvalidAPIKey},
		{"forbidden status", http.StatusForbidden, "", ErrInvalidAPIKey},
		{"gemini bad key message", http.StatusBadRequest, "API key not valid. Please pass a valid API key.", ErrInvalidAPIKey},
		{"openrouter auth message", http.StatusOK, "No auth credentials found", ErrInvalidAPIKey},
		{"too many requests", http.StatusTooManyRequests, "", ErrQuotaExceeded},
		{"gemini quota message", http.StatusOK, "Quota exceeded for quota metric", ErrQuotaExceeded},
		{"gemini resource exhausted", http.StatusOK, "RESOURCE_EXHAUSTED", ErrQuotaExceeded},
		{"rate limit message", http.StatusOK, "Rate limit exceeded: free-models-per-day", ErrQuotaExceeded},
		{"server error unclassified", http.StatusInternalServerError, "internal error", nil},
		{"plain model failure unclassified", http.StatusOK, "model is overloaded", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyTransport(tt.status, tt.message)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestAPIError_TagsCredentialAndQuotaFailures(t *testing.T) {
	badKey := apiError([]byte(`{"error":{"message":"API key not valid"}}`), http.StatusBadRequest)
	assert.ErrorIs(t, badKey, ErrInvalidAPIKey)
	assert.Contains(t, badKey.Error(), "API key not valid")

	quota := apiError([]byte(`{"error":{"message":"Quota exceeded"}}`), http.StatusTooManyRequests)
	assert.ErrorIs(t, quota, ErrQuotaExceeded)

	plain := apiError([]byte(`{}`), http.StatusInternalServerError)
	assert.NotErrorIs(t, plain, ErrInvalidAPIKey)
	assert.NotErrorIs(t, plain, ErrQuotaExceeded)
}
