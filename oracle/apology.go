package oracle

import "fmt"

var apologies = map[string]map[Kind]string{
	"en": {
		KindUnavailable: "Sorry, the language model service cannot be reached right now. Please check the network connection.",
		KindAuth:        "The language model service rejected the credentials. Please check the API key.",
		KindRateLimit:   "The language model service is rate limiting requests. Please try again shortly.",
		KindStatus:      "The language model service returned an error (code: %d).",
		KindUnknown:     "An unexpected error occurred. Please try again in a moment.",
	},
	"ko": {
		KindUnavailable: "죄송합니다. LLM 서비스에 연결할 수 없습니다. 네트워크 연결을 확인해주세요.",
		KindAuth:        "LLM 인증 오류가 발생했습니다. API 키를 확인해주세요.",
		KindRateLimit:   "LLM 요청 한도를 초과했습니다. 잠시 후 다시 시도해주세요.",
		KindStatus:      "LLM 서비스 오류가 발생했습니다. (코드: %d)",
		KindUnknown:     "예상치 못한 오류가 발생했습니다. 잠시 후 다시 시도해주세요.",
	},
}

// Apology returns the user-facing text for a failed completion. Unknown
// languages fall back to English; protocol failures use the generic text.
func Apology(language string, err *Error) string {
	texts, ok := apologies[language]
	if !ok {
		texts = apologies["en"]
	}
	kind := KindUnknown
	status := 0
	if err != nil {
		kind = err.Kind
		status = err.StatusCode
	}
	if kind == KindStatus {
		return fmt.Sprintf(texts[KindStatus], status)
	}
	text, ok := texts[kind]
	if !ok {
		return texts[KindUnknown]
	}
	return text
}
