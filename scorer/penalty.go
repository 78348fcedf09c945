package scorer

import "strings"

const (
	penaltyPerWord = 0.3
	penaltyFloor   = 0.1
)

// ForbiddenPenalty returns the multiplier for output given forbidden words.
// Every distinct word present (trimmed, case-insensitive substring) costs
// 0.3, down to a floor of 0.1. No words, or none present, yields 1.
func ForbiddenPenalty(output string, words []string) float64 {
	if len(words) == 0 {
		return 1
	}

	lower := strings.ToLower(output)
	seen := make(map[string]bool, len(words))
	penalty := 0.0
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		if strings.Contains(lower, w) {
			penalty += penaltyPerWord
		}
	}
	return max(penaltyFloor, 1-penalty)
}

// FinalScore applies penalty to base and rounds to three decimals.
func FinalScore(base, penalty float64) float64 {
	return round3(base * penalty)
}
