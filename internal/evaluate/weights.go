package evaluate

import (
	"strings"

	"markwise/internal/bank"
)

// Weight policy: scoring starts from a base split and shifts by small,
// zero-sum deltas keyed on question difficulty and assessment type. Every
// dimension is held inside a fixed bound range; harder and comprehension
// questions move weight toward intent, spelling drills move it toward
// spelling. Unknown tags contribute no delta.

var baseWeights = DimensionWeights{
	Intent:     0.45,
	Vocabulary: 0.22,
	Spelling:   0.18,
	Grammar:    0.15,
}

type weightBound struct {
	min, max float64
}

var weightBounds = map[string]weightBound{
	DimIntent:     {0.40, 0.50},
	DimVocabulary: {0.20, 0.25},
	DimSpelling:   {0.10, 0.35},
	DimGrammar:    {0.15, 0.35},
}

type weightDelta struct {
	intent, vocabulary, spelling, grammar float64
}

// Deltas are expressed as fractions of the total and sum to zero, so an
// adjusted weighting still sums to 1.0 before any bound clamping.
var difficultyDeltas = map[string]weightDelta{
	"easy":   {intent: -0.05, spelling: 0.02, grammar: 0.03},
	"medium": {},
	"hard":   {intent: 0.05, vocabulary: 0.03, spelling: -0.08},
}

var assessmentDeltas = map[string]weightDelta{
	"reading":       {intent: 0.05, vocabulary: 0.03, spelling: -0.08},
	"comprehension": {intent: 0.05, vocabulary: 0.03, spelling: -0.08},
	"spelling":      {intent: -0.05, vocabulary: -0.02, spelling: 0.07},
	"grammar":       {intent: -0.05, vocabulary: -0.02, grammar: 0.07},
}

// DeriveWeights maps question metadata to dimension weights. Pure; the
// result always sums to 1.0 within float tolerance and respects the bounds.
func DeriveWeights(q bank.Question) DimensionWeights {
	delta := difficultyDelta(q.Difficulty)
	delta = addDelta(delta, assessmentDelta(q.Context))

	raw := map[string]float64{
		DimIntent:     baseWeights.Intent + delta.intent,
		DimVocabulary: baseWeights.Vocabulary + delta.vocabulary,
		DimSpelling:   baseWeights.Spelling + delta.spelling,
		DimGrammar:    baseWeights.Grammar + delta.grammar,
	}

	for dim, b := range weightBounds {
		if raw[dim] < b.min {
			raw[dim] = b.min
		}
		if raw[dim] > b.max {
			raw[dim] = b.max
		}
	}
	settleResidual(raw)

	w := DimensionWeights{
		Intent:     raw[DimIntent],
		Vocabulary: raw[DimVocabulary],
		Spelling:   raw[DimSpelling],
		Grammar:    raw[DimGrammar],
	}
	return renormalize(w)
}

func difficultyDelta(tag string) weightDelta {
	return difficultyDeltas[strings.ToLower(strings.TrimSpace(tag))]
}

// assessmentDelta matches the type tag by substring, so "Reading
// Comprehension - Unit 3" still lands on the comprehension adjustment.
func assessmentDelta(tag string) weightDelta {
	tag = strings.ToLower(tag)
	for _, key := range []string{"comprehension", "reading", "spelling", "grammar"} {
		if strings.Contains(tag, key) {
			return assessmentDeltas[key]
		}
	}
	return weightDelta{}
}

func addDelta(a, b weightDelta) weightDelta {
	return weightDelta{
		intent:     a.intent + b.intent,
		vocabulary: a.vocabulary + b.vocabulary,
		spelling:   a.spelling + b.spelling,
		grammar:    a.grammar + b.grammar,
	}
}

// settleResidual restores a unit sum after clamping by spending the
// residual against dimensions that still have slack, in a fixed order so
// the policy is deterministic.
func settleResidual(raw map[string]float64) {
	order := []string{DimIntent, DimVocabulary, DimGrammar, DimSpelling}
	residual := 1.0
	for _, dim := range order {
		residual -= raw[dim]
	}
	for _, dim := range order {
		if residual == 0 {
			return
		}
		b := weightBounds[dim]
		next := raw[dim] + residual
		if next < b.min {
			next = b.min
		}
		if next > b.max {
			next = b.max
		}
		residual -= next - raw[dim]
		raw[dim] = next
	}
}

// renormalize divides out float drift so the weights sum to exactly 1.0.
func renormalize(w DimensionWeights) DimensionWeights {
	sum := w.Sum()
	if sum == 0 {
		return baseWeights
	}
	return DimensionWeights{
		Intent:     w.Intent / sum,
		Vocabulary: w.Vocabulary / sum,
		Spelling:   w.Spelling / sum,
		Grammar:    w.Grammar / sum,
	}
}
