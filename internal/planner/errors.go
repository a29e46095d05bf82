package planner

import (
	"errors"

	"github.com/minjae-ko/gyomucal/internal/llm"
)

// UserMessage maps a pipeline or provider error to the Korean message
// shown to the user. Every known failure class gets its own wording;
// anything unrecognized falls back to a generic retry message.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, llm.ErrAPIKeyMissing):
		return "AI 기능을 사용하려면 API 키를 먼저 등록해 주세요. (gyomucal config set-key)"
	case errors.Is(err, llm.ErrNotReady):
		return "AI 기능이 아직 준비되지 않았습니다. 설정을 확인해 주세요."
	case errors.Is(err, llm.ErrInvalidOutput):
		return "AI가 일정 형식을 만들지 못했습니다. 요청을 조금 더 구체적으로 다시 입력해 주세요."
	case errors.Is(err, llm.ErrInvalidAPIKey):
		return "등록된 API 키가 유효하지 않습니다. 키를 다시 확인해 주세요. (gyomucal config set-key)"
	case errors.Is(err, llm.ErrQuotaExceeded):
		return "AI 사용 한도를 초과했습니다. 잠시 후 다시 시도해 주세요."
	case errors.Is(err, llm.ErrNetwork):
		return "AI 서버에 연결하지 못했습니다. 네트워크 연결을 확인해 주세요."
	case errors.Is(err, llm.ErrAllModelsFailed):
		return "사용 가능한 AI 모델이 모두 응답하지 않습니다. 잠시 후 다시 시도해 주세요."
	case errors.Is(err, ErrNothingActionable):
		return "요청에서 등록할 행정 일정을 찾지 못했습니다. 업무 내용과 기간을 함께 적어 주세요."
	case errors.Is(err, ErrAlreadyApplied):
		return "이미 등록이 완료된 제안입니다."
	default:
		return "일정 생성 중 오류가 발생했습니다. 잠시 후 다시 시도해 주세요."
	}
}
