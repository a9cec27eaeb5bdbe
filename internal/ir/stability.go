package ir

import "math"

// StabilityScore rates how resilient a selector is to UI churn. The base
// score comes from the strategy kind, then penalties apply for fragile
// selector shapes. Scores stay inside [0.1, 0.99].
func StabilityScore(strategy, value string) float64 {
	score := baseStability(strategy)

	if hasPositionalIndex(value) {
		score -= 0.10
	}
	if len(value) > 120 {
		score -= 0.05
	}

	if score < 0.1 {
		score = 0.1
	}
	if score > 0.99 {
		score = 0.99
	}
	return round2(score)
}

func baseStability(strategy string) float64 {
	switch strategy {
	case "id":
		return 0.95
	case "cssSelector", "css":
		return 0.90
	case "name":
		return 0.85
	case "linkText":
		return 0.75
	case "tagName":
		return 0.60
	case "className":
		return 0.55
	case "xpath":
		return 0.50
	default:
		return 0.45
	}
}

// hasPositionalIndex reports whether the selector pins an element by
// position, e.g. an xpath step like div[3].
func hasPositionalIndex(value string) bool {
	for i := 0; i+1 < len(value); i++ {
		if value[i] == '[' && value[i+1] >= '0' && value[i+1] <= '9' {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PreferredStrategy picks the highest-scoring strategy name from a scored
// list. Ties keep the earlier entry. Empty input yields the empty string.
func PreferredStrategy(strategies []SelectorStrategy) string {
	best := ""
	bestScore := math.Inf(-1)
	for _, s := range strategies {
		if s.StabilityScore > bestScore {
			best = s.Strategy
			bestScore = s.StabilityScore
		}
	}
	return best
}
