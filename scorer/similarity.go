package scorer

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// normalize lowercases s and collapses runs of whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// ratio is the difflib sequence similarity of a and b compared rune by rune.
func ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	m := difflib.NewMatcherWithJunk(strings.Split(a, ""), strings.Split(b, ""), false, nil)
	return m.Ratio()
}

// TokenSetRatio compares the whitespace token sets of a and b, ignoring
// order and repetition. Shared tokens are sorted into a common prefix and
// the best of the three pairwise ratios between prefix, prefix+rest(a) and
// prefix+rest(b) is returned.
func TokenSetRatio(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var sect, onlyA, onlyB []string
	for tok := range setA {
		if setB[tok] {
			sect = append(sect, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range setB {
		if !setA[tok] {
			onlyB = append(onlyB, tok)
		}
	}
	if len(sect) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 1
	}

	sort.Strings(sect)
	sort.Strings(onlyA)
	sort.Strings(onlyB)
	t0 := strings.Join(sect, " ")
	t1 := strings.TrimSpace(t0 + " " + strings.Join(onlyA, " "))
	t2 := strings.TrimSpace(t0 + " " + strings.Join(onlyB, " "))

	best := ratio(t1, t2)
	if t0 != "" {
		best = max(best, ratio(t0, t1), ratio(t0, t2))
	}
	return best
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

// band maps a raw similarity onto a coarse level. Values strictly below
// low map to lowLevel, strictly below mid to midLevel and strictly above
// mid to highLevel; a value exactly at mid is returned unchanged.
type band struct {
	low, mid                      float64
	lowLevel, midLevel, highLevel float64
}

func (b band) apply(x float64) float64 {
	switch {
	case x < b.low:
		return b.lowLevel
	case x < b.mid:
		return b.midLevel
	case x > b.mid:
		return b.highLevel
	default:
		return x
	}
}

var (
	sequenceBand = band{low: 0.5, mid: 0.7, lowLevel: 0.4, midLevel: 0.5, highLevel: 0.6}
	tokenSetBand = band{low: 0.4, mid: 0.6, lowLevel: 0.35, midLevel: 0.45, highLevel: 0.55}
)

// SequenceSimilarity is the banded character-sequence similarity of the
// normalized output and reference.
func SequenceSimilarity(output, reference string) float64 {
	return sequenceBand.apply(ratio(normalize(output), normalize(reference)))
}

// TokenSimilarity is the banded token-set similarity of output and reference.
// Tokens are compared as written.
func TokenSimilarity(output, reference string) float64 {
	return tokenSetBand.apply(TokenSetRatio(output, reference))
}
