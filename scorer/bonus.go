package scorer

import (
	"strings"
	"unicode/utf8"
)

const maxBonus = 0.15

type bonusRule struct {
	name    string
	points  float64
	markers []string
}

// Markers are matched against the lowercased output.
var bonusRules = []bonusRule{
	{
		name:   "structure",
		points: 0.05,
		markers: []string{
			"1.", "2.", "3.", "•", "-", "제목", "목차", "요약", "결론", "첫째", "둘째", "셋째",
			"summary", "conclusion", "overview", "first,", "second,", "third,",
		},
	},
	{
		name:   "specificity",
		points: 0.03,
		markers: []string{
			"구체적으로", "예시", "방법", "절차", "단계", "첫째", "둘째", "방안", "전략", "접근법",
			"specifically", "for example", "for instance", "method", "procedure", "step", "approach", "strategy",
		},
	},
	{
		name:   "professionalism",
		points: 0.02,
		markers: []string{
			"전문", "전략", "분석", "평가", "검토", "검증", "테스트", "모니터링",
			"expert", "strategy", "analysis", "evaluat", "review", "verif", "testing", "monitoring",
		},
	},
	{
		name:   "actionability",
		points: 0.02,
		markers: []string{
			"실행", "구현", "적용", "진행", "완료", "달성", "성공", "결과",
			"execute", "implement", "apply", "proceed", "complete", "achieve", "success", "result",
		},
	},
}

// lengthBonus rewards outputs of 100 to 800 characters, and to a lesser
// degree 50 to 99 or 801 to 1200.
func lengthBonus(output string) float64 {
	n := utf8.RuneCountInString(output)
	switch {
	case n >= 100 && n <= 800:
		return 0.03
	case n >= 50 && n < 100, n > 800 && n <= 1200:
		return 0.02
	default:
		return 0
	}
}

// Bonus rewards surface features of a useful answer: structure markers, a
// reasonable length, specificity, professional vocabulary and actionable
// wording. Each feature counts once; the total is capped at 0.15.
func Bonus(output string) float64 {
	lower := strings.ToLower(output)
	total := lengthBonus(output)
	for _, rule := range bonusRules {
		if containsAny(lower, rule.markers) {
			total += rule.points
		}
	}
	return round3(min(maxBonus, total))
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
