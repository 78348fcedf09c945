package scorer

import (
	"strings"
	"unicode/utf8"
)

const (
	exactCredit   = 1.0
	partialCredit = 0.7
	synonymCredit = 0.6
	// neutralCoverage is returned when keywords were requested but none matched.
	neutralCoverage = 0.5
)

// synonyms maps a whole lowercased keyword to alternatives accepted in its place.
var synonyms = map[string][]string{
	"고객서비스": {"고객", "서비스", "고객지원", "고객만족"},
	"고객":    {"고객", "클라이언트", "사용자"},
	"서비스":   {"서비스", "지원", "도움"},
	"제품":    {"제품", "상품", "물건"},
	"프로젝트":  {"프로젝트", "작업", "계획"},

	"customer service": {"customer support", "customer satisfaction", "customer", "service"},
	"customer":         {"client", "user", "buyer"},
	"service":          {"support", "help", "assistance"},
	"product":          {"goods", "item", "merchandise"},
	"project":          {"task", "plan", "initiative"},
}

// KeywordCoverage scores how well output covers keywords. Each keyword earns
// full credit when it occurs verbatim (case-insensitive), partial credit when
// one of its words longer than two characters occurs, and synonym credit when
// a listed synonym occurs. The mean is clamped to [0, 1]. An empty keyword
// list scores 1; a non-empty list with no credit at all scores 0.5.
func KeywordCoverage(output string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 1
	}

	lower := strings.ToLower(output)
	found := 0.0
	for _, kw := range keywords {
		found += keywordCredit(lower, strings.ToLower(kw))
	}
	if found == 0 {
		return neutralCoverage
	}
	return clamp01(found / float64(len(keywords)))
}

func keywordCredit(output, kw string) float64 {
	if strings.Contains(output, kw) {
		return exactCredit
	}
	for _, part := range strings.Fields(kw) {
		if utf8.RuneCountInString(part) > 2 && strings.Contains(output, part) {
			return partialCredit
		}
	}
	for _, alt := range synonyms[kw] {
		if strings.Contains(output, alt) {
			return synonymCredit
		}
	}
	return 0
}
