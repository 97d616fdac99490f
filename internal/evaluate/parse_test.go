package evaluate

import (
	"reflect"
	"testing"
)

func TestParseScores_CleanJSON(t *testing.T) {
	card := ParseScores(`{"intent":0.95,"vocabulary":0.8,"spelling":0.9,"grammar":0.85,"remark":"Strong answer.","suggestion":"Mind the tense."}`)
	if card.Degraded {
		t.Fatalf("expected clean response not to be degraded: %+v", card)
	}
	if card.Intent != 0.95 || card.Vocabulary != 0.8 || card.Spelling != 0.9 || card.Grammar != 0.85 {
		t.Fatalf("unexpected sub-scores: %+v", card)
	}
	if card.Remark != "Strong answer." || card.Suggestion != "Mind the tense." {
		t.Fatalf("unexpected feedback text: %+v", card)
	}
}

func TestParseScores_StripsCodeFences(t *testing.T) {
	raw := "```json\n{\"intent\":0.5,\"vocabulary\":0.5,\"spelling\":0.5,\"grammar\":0.5,\"remark\":\"ok\",\"suggestion\":\"ok\"}\n```"
	card := ParseScores(raw)
	if card.Degraded {
		t.Fatalf("expected fenced JSON to parse cleanly: %+v", card)
	}
	if card.Intent != 0.5 {
		t.Fatalf("expected intent 0.5, got %v", card.Intent)
	}
}

func TestParseScores_FindsEmbeddedObjectInProse(t *testing.T) {
	raw := `Here is my assessment: {"intent":0.7,"vocabulary":0.6,"spelling":0.8,"grammar":0.9,"remark":"fine","suggestion":"fine"} I hope that helps!`
	card := ParseScores(raw)
	if card.Intent != 0.7 || card.Grammar != 0.9 {
		t.Fatalf("expected embedded object to be extracted: %+v", card)
	}
}

func TestParseScores_BracesInsideStrings(t *testing.T) {
	raw := `{"intent":1,"vocabulary":1,"spelling":1,"grammar":1,"remark":"uses {braces} and \"quotes\"","suggestion":"s"}`
	card := ParseScores(raw)
	if card.Remark != `uses {braces} and "quotes"` {
		t.Fatalf("expected remark to survive brace scan, got %q", card.Remark)
	}
}

func TestParseScores_MissingDimensionDefaultsToZero(t *testing.T) {
	card := ParseScores(`{"intent":0.9,"vocabulary":0.8,"grammar":0.7}`)
	if !card.Degraded {
		t.Fatalf("expected missing dimension to degrade the card")
	}
	if card.Spelling != 0 {
		t.Fatalf("expected missing spelling to default to 0, got %v", card.Spelling)
	}
	if !reflect.DeepEqual(card.Defaulted, []string{DimSpelling}) {
		t.Fatalf("expected spelling to be recorded as defaulted, got %v", card.Defaulted)
	}
}

func TestParseScores_ClampsOutOfRange(t *testing.T) {
	card := ParseScores(`{"intent":0.9,"vocabulary":1.4,"spelling":-0.2,"grammar":0.5}`)
	if card.Vocabulary != 1.0 {
		t.Fatalf("expected vocabulary clamped to 1.0, got %v", card.Vocabulary)
	}
	if card.Spelling != 0 {
		t.Fatalf("expected spelling clamped to 0, got %v", card.Spelling)
	}
	if !card.Degraded {
		t.Fatalf("expected out-of-range values to degrade the card")
	}
}

func TestParseScores_CoercesNumericStrings(t *testing.T) {
	card := ParseScores(`{"intent":"0.8","vocabulary":0.7,"spelling":0.6,"grammar":0.5}`)
	if card.Intent != 0.8 {
		t.Fatalf("expected string score coerced to 0.8, got %v", card.Intent)
	}
	if !card.Degraded {
		t.Fatalf("expected coerced value to degrade the card")
	}
}

func TestParseScores_CoercesNestedScoreObjects(t *testing.T) {
	card := ParseScores(`{"intent":{"score":0.75,"note":"good"},"vocabulary":0.7,"spelling":0.6,"grammar":0.5}`)
	if card.Intent != 0.75 {
		t.Fatalf("expected nested score coerced to 0.75, got %v", card.Intent)
	}
	if !card.Degraded {
		t.Fatalf("expected nested object to degrade the card")
	}
}

func TestParseScores_NonNumericValueDefaultsWithoutPanic(t *testing.T) {
	card := ParseScores(`{"intent":"excellent","vocabulary":true,"spelling":null,"grammar":0.5}`)
	if card.Intent != 0 || card.Vocabulary != 0 || card.Spelling != 0 {
		t.Fatalf("expected uncoercible values to default to 0: %+v", card)
	}
	if card.Grammar != 0.5 {
		t.Fatalf("expected grammar kept, got %v", card.Grammar)
	}
	if !card.Degraded {
		t.Fatalf("expected degraded card")
	}
}

func TestParseScores_GarbageYieldsAllZeroDegraded(t *testing.T) {
	for _, raw := range []string{"", "   ", "no json here", "{broken", "[1,2,3]"} {
		card := ParseScores(raw)
		if !card.Degraded {
			t.Fatalf("raw %q: expected degraded card", raw)
		}
		if card.Intent != 0 || card.Vocabulary != 0 || card.Spelling != 0 || card.Grammar != 0 {
			t.Fatalf("raw %q: expected all-zero sub-scores, got %+v", raw, card)
		}
		if len(card.Defaulted) != len(Dimensions) {
			t.Fatalf("raw %q: expected all dimensions defaulted, got %v", raw, card.Defaulted)
		}
	}
}

func TestParseScores_PlaceholderFeedbackWhenMissing(t *testing.T) {
	card := ParseScores(`{"intent":1,"vocabulary":1,"spelling":1,"grammar":1}`)
	if card.Remark != placeholderRemark {
		t.Fatalf("expected placeholder remark, got %q", card.Remark)
	}
	if card.Suggestion != placeholderSuggestion {
		t.Fatalf("expected placeholder suggestion, got %q", card.Suggestion)
	}
	if card.Degraded {
		t.Fatalf("missing feedback text must not degrade the card")
	}
}

func TestParseScores_Analysis(t *testing.T) {
	raw := `{"intent":1,"vocabulary":1,"spelling":0.7,"grammar":1,
		"remark":"r","suggestion":"s",
		"misspellings":[{"word":"becaus","correct":"because","kind":"phonetic"},{"correct":"orphan"}],
		"phonetic_attempts":["becaus"],
		"concepts_missed":["water cycle"]}`
	card := ParseScores(raw)
	if len(card.Analysis.Misspellings) != 1 {
		t.Fatalf("expected entries without a word to be dropped, got %v", card.Analysis.Misspellings)
	}
	m := card.Analysis.Misspellings[0]
	if m.Word != "becaus" || m.Correct != "because" || m.Kind != "phonetic" {
		t.Fatalf("unexpected misspelling: %+v", m)
	}
	if !reflect.DeepEqual(card.Analysis.PhoneticAttempts, []string{"becaus"}) {
		t.Fatalf("unexpected phonetic attempts: %v", card.Analysis.PhoneticAttempts)
	}
	if !reflect.DeepEqual(card.Analysis.ConceptsMissed, []string{"water cycle"}) {
		t.Fatalf("unexpected concepts missed: %v", card.Analysis.ConceptsMissed)
	}
}
