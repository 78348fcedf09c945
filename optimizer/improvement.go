package optimizer

// selectBest returns the index of the highest scoring trial. Ties go to the
// earliest trial.
func selectBest(trials []Trial) int {
	best := 0
	for i := 1; i < len(trials); i++ {
		if trials[i].Score > trials[best].Score {
			best = i
		}
	}
	return best
}

// baselineScore is the score of the base variant, or DefaultBaselineScore
// when it has no trial.
func baselineScore(trials []Trial) float64 {
	for _, t := range trials {
		if t.VariantName == "base" {
			return t.Score
		}
	}
	return DefaultBaselineScore
}
