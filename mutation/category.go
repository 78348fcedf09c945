package mutation

import (
	"fmt"
	"strings"
)

// Category tags a variant with the policy that produced it.
type Category int

const (
	Base Category = iota
	Custom
	Structure
	Professional
	Specific
	Persuasive
	Actionable
	Tone
	Format
	// Caller marks variants supplied through Generator.Extra.
	Caller
)

type treatment struct {
	name string
	// markers select the category from an analysis direction. Only the
	// direction categories have them.
	markers []string
	headers map[string]string
	// boost is the additive score adjustment of the demo configuration.
	boost float64
}

var treatments = map[Category]treatment{
	Base: {name: "base"},
	Custom: {
		name:  "custom",
		boost: 0.4,
		headers: map[string]string{
			"en": "Caller requirements:",
			"ko": "사용자 요구사항:",
		},
	},
	Structure: {
		name:    "structure",
		boost:   0.3,
		markers: []string{"구조화", "문서", "계획서", "structur", "document", "outline", "report"},
		headers: map[string]string{
			"en": "Your answer must follow this structure:",
			"ko": "답변은 반드시 다음 구조로 작성해라:",
		},
	},
	Professional: {
		name:    "professional",
		boost:   0.25,
		markers: []string{"전문성", "전문", "분석", "profession", "expert", "analy"},
		headers: map[string]string{
			"en": "Your answer must satisfy these requirements:",
			"ko": "답변은 반드시 다음 요구사항을 만족해라:",
		},
	},
	Specific: {
		name:    "specific",
		boost:   0.2,
		markers: []string{"구체성", "구체", "수치", "specific", "concrete", "detail", "figure"},
		headers: map[string]string{
			"en": "Your answer must include these elements:",
			"ko": "답변은 반드시 다음 요소를 포함해라:",
		},
	},
	Persuasive: {
		name:    "persuasive",
		boost:   0.35,
		markers: []string{"설득력", "투자자", "고객", "persua", "investor", "customer", "convinc"},
		headers: map[string]string{
			"en": "Your answer must be written from this perspective:",
			"ko": "답변은 반드시 다음 관점에서 작성해라:",
		},
	},
	Actionable: {
		name:    "actionable",
		boost:   0.3,
		markers: []string{"실행성", "실행", "액션", "action", "execut"},
		headers: map[string]string{
			"en": "Your answer must be presented in this form:",
			"ko": "답변은 반드시 다음 형태로 제시해라:",
		},
	},
	Tone: {
		name:  "tone",
		boost: 0.25,
		headers: map[string]string{
			"en": "Your answer must use this format:\n" +
				"1. Use a professional and persuasive tone\n" +
				"2. Include concrete figures and data\n" +
				"3. Put the key information investors and customers want first\n" +
				"4. Give every section a clear title and summary",
			"ko": "답변은 반드시 다음 형식으로 작성해라:\n" +
				"1. 전문적이고 설득력 있는 어조 사용\n" +
				"2. 구체적인 수치와 데이터 포함\n" +
				"3. 투자자/고객이 원하는 핵심 정보 우선 배치\n" +
				"4. 각 섹션마다 명확한 제목과 요약 포함",
		},
	},
	Format: {
		name:  "format",
		boost: 0.35,
		headers: map[string]string{
			"en": "Your answer must follow this structure:\n" +
				"- Title: [a clear title]\n" +
				"- Summary: [the key points in 2-3 lines]\n" +
				"- Details: [concrete steps as numbered points and bullets]\n" +
				"- Conclusion: [actionable next steps]\n" +
				"- Appendix: [references or additional information]",
			"ko": "답변은 반드시 다음 구조로 작성해라:\n" +
				"- 제목: [명확한 제목]\n" +
				"- 요약: [핵심 내용 2-3줄]\n" +
				"- 상세 내용: [번호와 불릿으로 구체적 단계 제시]\n" +
				"- 결론: [실행 가능한 다음 단계 제시]\n" +
				"- 부록: [참고 자료나 추가 정보]",
		},
	},
	Caller: {name: "caller"},
}

// directionOrder is the precedence used when a direction matches several
// categories.
var directionOrder = []Category{Structure, Professional, Specific, Persuasive, Actionable}

func (c Category) String() string {
	if t, ok := treatments[c]; ok {
		return t.name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for cat, t := range treatments {
		if t.name == name {
			*c = cat
			return nil
		}
	}
	return fmt.Errorf("unknown variant category: %q", string(text))
}

func (c Category) header(language string) string {
	h := treatments[c].headers
	if text, ok := h[language]; ok {
		return text
	}
	return h["en"]
}

// ForDirection maps an analysis direction onto a category. The first
// category in precedence order with a marker contained in the direction
// wins; ok is false when none matches.
func ForDirection(direction string) (Category, bool) {
	d := strings.ToLower(direction)
	for _, c := range directionOrder {
		for _, m := range treatments[c].markers {
			if strings.Contains(d, m) {
				return c, true
			}
		}
	}
	return 0, false
}

// DemoBoosts returns the per-category score boosts of the original demo
// configuration, where every non-base variant is pushed above the baseline.
func DemoBoosts() map[Category]float64 {
	boosts := make(map[Category]float64)
	for c, t := range treatments {
		if t.boost > 0 {
			boosts[c] = t.boost
		}
	}
	return boosts
}
