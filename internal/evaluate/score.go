package evaluate

import (
	"math"

	"markwise/internal/bank"
)

// Aggregate combines validated sub-scores and weights into the final
// result record. Pure and idempotent; all inputs are already validated.
func Aggregate(q bank.Question, w DimensionWeights, card ScoreCard) EvaluationResult {
	partials := make(map[string]float64, len(Dimensions))
	subs := make(map[string]float64, len(Dimensions))
	total := 0.0
	for _, dim := range Dimensions {
		p := w.Get(dim) * card.Get(dim) * q.MaxScore
		partials[dim] = round4(p)
		subs[dim] = card.Get(dim)
		total += p
	}

	// Clamp absorbs float drift so the final score never escapes the
	// question's score range.
	final := round2(clampRange(total, 0, q.MaxScore))
	percentage := round1(100 * final / q.MaxScore)

	return EvaluationResult{
		QuestionID:    q.ID,
		FinalScore:    final,
		MaxScore:      q.MaxScore,
		Percentage:    percentage,
		PartialScores: partials,
		SubScores:     subs,
		Weights:       w,
		Remarks:       card.Remark,
		Suggestions:   card.Suggestion,
		Degraded:      card.Degraded,
		Defaulted:     card.Defaulted,
		Analysis:      card.Analysis,
	}
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
