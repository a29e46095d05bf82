package planner

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minjae-ko/gyomucal/internal/llm"
)

func TestUserMessage_TransportClassesAreDistinct(t *testing.T) {
	badKey := UserMessage(fmt.Errorf("gemini: API key not valid: %w", llm.ErrInvalidAPIKey))
	quota := UserMessage(fmt.Errorf("gemini: quota exceeded: %w", llm.ErrQuotaExceeded))
	network := UserMessage(fmt.Errorf("%w: dial tcp: connection refused", llm.ErrNetwork))

	assert.NotEqual(t, badKey, quota)
	assert.NotEqual(t, badKey, network)
	assert.NotEqual(t, quota, network)

	generic := UserMessage(errors.New("something else"))
	assert.NotEqual(t, generic, badKey)
	assert.NotEqual(t, generic, quota)
	assert.NotEqual(t, generic, network)
}

func TestUserMessage_QuotaBeatsFallbackWrap(t *testing.T) {
	// An OpenRouter walk that died on quota should surface the quota
	// wording, not the all-models wording.
	err := fmt.Errorf("%w: %w", llm.ErrAllModelsFailed, llm.ErrQuotaExceeded)
	assert.Equal(t, UserMessage(err), UserMessage(llm.ErrQuotaExceeded))
}

func TestUserMessage_KnownSentinels(t *testing.T) {
	seen := map[string]bool{}
	for _, err := range []error{
		llm.ErrAPIKeyMissing,
		llm.ErrNotReady,
		llm.ErrInvalidOutput,
		llm.ErrInvalidAPIKey,
		llm.ErrQuotaExceeded,
		llm.ErrNetwork,
		llm.ErrAllModelsFailed,
		ErrNothingActionable,
		ErrAlreadyApplied,
	} {
		msg := UserMessage(err)
		assert.NotEmpty(t, msg)
		assert.False(t, seen[msg], "duplicate message for %v", err)
		seen[msg] = true
	}
	assert.Empty(t, UserMessage(nil))
}
