package evaluate

import (
	"math"
	"testing"

	"markwise/internal/bank"
)

func TestDeriveWeights_BaseForUnknownTags(t *testing.T) {
	w := DeriveWeights(bank.Question{ID: "q1", Difficulty: "brutal", Context: "interpretive dance"})
	if w != DeriveWeights(bank.Question{ID: "q1"}) {
		t.Fatalf("expected unknown tags to fall back to base weighting, got %+v", w)
	}
	assertWeights(t, w, 0.45, 0.22, 0.18, 0.15)
}

func TestDeriveWeights_Hard(t *testing.T) {
	w := DeriveWeights(bank.Question{ID: "q1", Difficulty: "Hard"})
	assertWeights(t, w, 0.50, 0.25, 0.10, 0.15)
}

func TestDeriveWeights_Easy(t *testing.T) {
	w := DeriveWeights(bank.Question{ID: "q1", Difficulty: "easy"})
	assertWeights(t, w, 0.40, 0.22, 0.20, 0.18)
}

func TestDeriveWeights_SpellingAssessment(t *testing.T) {
	w := DeriveWeights(bank.Question{ID: "q1", Context: "Spelling practice - week 4"})
	assertWeights(t, w, 0.40, 0.20, 0.25, 0.15)
}

func TestDeriveWeights_ComprehensionMatchesBySubstring(t *testing.T) {
	w := DeriveWeights(bank.Question{ID: "q1", Context: "Reading Comprehension - Unit 3"})
	assertWeights(t, w, 0.50, 0.25, 0.10, 0.15)
}

func TestDeriveWeights_EasySpellingSettlesClampResidual(t *testing.T) {
	// easy pulls intent below its floor; the residual must come back out
	// of grammar and spelling, not break the unit sum.
	w := DeriveWeights(bank.Question{ID: "q1", Difficulty: "easy", Context: "spelling"})
	assertWeights(t, w, 0.40, 0.20, 0.25, 0.15)
}

func TestDeriveWeights_HardComprehensionClampsToBounds(t *testing.T) {
	w := DeriveWeights(bank.Question{ID: "q1", Difficulty: "hard", Context: "comprehension"})
	assertWeights(t, w, 0.50, 0.25, 0.10, 0.15)
}

func TestDeriveWeights_AllCombinationsSumToOneWithinBounds(t *testing.T) {
	difficulties := []string{"", "easy", "medium", "hard", "unknown"}
	contexts := []string{"", "reading", "comprehension", "spelling", "grammar", "history quiz"}
	for _, d := range difficulties {
		for _, c := range contexts {
			w := DeriveWeights(bank.Question{ID: "q1", Difficulty: d, Context: c})
			if math.Abs(w.Sum()-1.0) > 1e-6 {
				t.Fatalf("difficulty=%q context=%q: weights sum to %v", d, c, w.Sum())
			}
			for _, dim := range Dimensions {
				b := weightBounds[dim]
				got := w.Get(dim)
				if got < b.min-1e-9 || got > b.max+1e-9 {
					t.Fatalf("difficulty=%q context=%q: %s weight %v outside [%v,%v]", d, c, dim, got, b.min, b.max)
				}
			}
		}
	}
}

func assertWeights(t *testing.T, w DimensionWeights, intent, vocab, spelling, grammar float64) {
	t.Helper()
	if !closeTo(w.Intent, intent) || !closeTo(w.Vocabulary, vocab) || !closeTo(w.Spelling, spelling) || !closeTo(w.Grammar, grammar) {
		t.Fatalf("expected weights {%v %v %v %v}, got %+v", intent, vocab, spelling, grammar, w)
	}
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
