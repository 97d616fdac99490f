package evaluate

import (
	"encoding/json"
	"strconv"
	"strings"
)

const (
	placeholderRemark     = "No remarks were returned for this answer."
	placeholderSuggestion = "Keep up the good work!"
)

// ParseScores turns raw model output into a usable ScoreCard. It never
// fails: a dimension that is missing or uncoercible scores zero and marks
// the card degraded, and a completely unusable response yields an all-zero
// degraded card. Missing remark or suggestion text is substituted, never
// treated as an error.
func ParseScores(raw string) ScoreCard {
	card := ScoreCard{
		Remark:     placeholderRemark,
		Suggestion: placeholderSuggestion,
	}

	payload := extractJSON(raw)
	var fields map[string]any
	if payload == "" || json.Unmarshal([]byte(payload), &fields) != nil {
		card.Degraded = true
		card.Defaulted = append([]string(nil), Dimensions...)
		return card
	}

	for _, dim := range Dimensions {
		score, coerced, ok := coerceScore(fields[dim])
		if !ok {
			card.Degraded = true
			card.Defaulted = append(card.Defaulted, dim)
			continue
		}
		clamped := clamp01(score)
		if coerced || clamped != score {
			card.Degraded = true
		}
		card.setScore(dim, clamped)
	}

	if s, ok := stringField(fields, "remark"); ok {
		card.Remark = s
	}
	if s, ok := stringField(fields, "suggestion"); ok {
		card.Suggestion = s
	}
	card.Analysis = parseAnalysis(fields)
	return card
}

func (c *ScoreCard) setScore(dim string, v float64) {
	switch dim {
	case DimIntent:
		c.Intent = v
	case DimVocabulary:
		c.Vocabulary = v
	case DimSpelling:
		c.Spelling = v
	case DimGrammar:
		c.Grammar = v
	}
}

// extractJSON returns the JSON object embedded in raw. Models sometimes
// wrap output in markdown fences or prose despite instructions; strip the
// fences first, then fall back to scanning for the first balanced object.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimPrefix(s, "json")
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}
	if strings.HasPrefix(s, "{") {
		if frag := balancedObject(s); frag != "" {
			return frag
		}
	}
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}
	return balancedObject(s[start:])
}

// balancedObject returns the first complete {...} fragment of s, which
// must start with '{'. String literals and escapes are honored so braces
// inside remark text do not end the scan early.
func balancedObject(s string) string {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[:i+1]
				}
			}
		}
	}
	return ""
}

// coerceScore accepts a plain number, a numeric string, or a nested
// object carrying a "score" field. coerced reports whether the value
// needed conversion, which degrades confidence in the result.
func coerceScore(v any) (score float64, coerced, ok bool) {
	switch val := v.(type) {
	case float64:
		return val, false, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false, false
		}
		return f, true, true
	case map[string]any:
		inner, _, ok := coerceScore(val["score"])
		return inner, true, ok
	default:
		return 0, false, false
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func stringField(fields map[string]any, key string) (string, bool) {
	s, ok := fields[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func parseAnalysis(fields map[string]any) Analysis {
	var a Analysis
	if items, ok := fields["misspellings"].([]any); ok {
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			word, _ := m["word"].(string)
			correct, _ := m["correct"].(string)
			kind, _ := m["kind"].(string)
			if word == "" {
				continue
			}
			a.Misspellings = append(a.Misspellings, Misspelling{Word: word, Correct: correct, Kind: kind})
		}
	}
	a.PhoneticAttempts = stringSlice(fields["phonetic_attempts"])
	a.ConceptsMissed = stringSlice(fields["concepts_missed"])
	return a
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
