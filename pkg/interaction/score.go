package interaction

// Importance weights. Each term is capped so no single signal dominates;
// a record with no characters, plot, or relationship movement scores the
// 0.5 baseline.
const (
	baseImportance = 0.5

	characterWeight = 0.1
	characterCap    = 0.3

	plotWeight = 0.15
	plotCap    = 0.3

	relationshipWeight = 0.2
	relationshipCap    = 0.4
)

// Score computes the salience of a record from its character, plot-element,
// and relationship-change counts. Pure and total: any non-negative counts
// yield a value in [0, 1].
func Score(characters, plotElements, relationshipChanges int) float64 {
	score := baseImportance
	score += capped(characterWeight*float64(characters), characterCap)
	score += capped(plotWeight*float64(plotElements), plotCap)
	score += capped(relationshipWeight*float64(relationshipChanges), relationshipCap)

	return clamp(score, 0, 1)
}

// ScoreRecord scores a record from its derived sets.
func ScoreRecord(r *Record) float64 {
	return Score(len(r.Characters()), len(r.PlotElements()), len(r.RelationshipChanges))
}

func capped(v, cap float64) float64 {
	if v > cap {
		return cap
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
