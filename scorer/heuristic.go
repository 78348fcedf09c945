package scorer

import "context"

// Composite weights.
const (
	sequenceWeight = 0.35
	tokenWeight    = 0.25
	keywordWeight  = 0.15
	bonusWeight    = 0.25
)

// Heuristic is the lexical composite scorer. It makes no oracle calls.
type Heuristic struct {
	lift LiftTable
}

type HeuristicOption func(*Heuristic)

// WithoutLift reports the weighted composite as is.
func WithoutLift() HeuristicOption {
	return func(h *Heuristic) {
		h.lift = nil
	}
}

// WithLiftTable replaces DefaultLift.
func WithLiftTable(t LiftTable) HeuristicOption {
	return func(h *Heuristic) {
		h.lift = t
	}
}

func NewHeuristic(opts ...HeuristicOption) *Heuristic {
	h := &Heuristic{lift: DefaultLift}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Composite returns the lifted weighted score of output against reference
// and keywords, before any forbidden-word penalty, together with its parts.
func (h *Heuristic) Composite(output, reference string, keywords []string) (float64, map[string]float64) {
	seq := SequenceSimilarity(output, reference)
	tok := TokenSimilarity(output, reference)
	kw := KeywordCoverage(output, keywords)
	bonus := Bonus(output)

	weighted := sequenceWeight*seq + tokenWeight*tok + keywordWeight*kw + bonusWeight*bonus
	score := round3(clamp01(h.lift.Apply(weighted)))

	return score, map[string]float64{
		"sequence_similarity": seq,
		"token_similarity":    tok,
		"keyword_coverage":    kw,
		"bonus":               bonus,
		"weighted":            round3(weighted),
		"composite":           score,
	}
}

// Score is the composite multiplied by the forbidden-word penalty.
func (h *Heuristic) Score(_ context.Context, in Input) Assessment {
	base, breakdown := h.Composite(in.Output, in.Reference, in.Keywords)
	penalty := ForbiddenPenalty(in.Output, in.ForbiddenWords)
	breakdown["forbidden_penalty"] = penalty

	return Assessment{
		Score:     FinalScore(base, penalty),
		Breakdown: breakdown,
		Method:    MethodHeuristic,
	}
}
