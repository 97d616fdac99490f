package evaluate

import "errors"

// ErrConfiguration marks invalid grading inputs (e.g. non-positive max
// score). Fatal for the single question; never retried.
var ErrConfiguration = errors.New("invalid grading configuration")

const (
	DimIntent     = "intent"
	DimVocabulary = "vocabulary"
	DimSpelling   = "spelling"
	DimGrammar    = "grammar"
)

// Dimensions lists the four rubric dimensions in scoring order.
var Dimensions = []string{DimIntent, DimVocabulary, DimSpelling, DimGrammar}

// DimensionWeights is the per-question share of each rubric dimension.
// Invariant: the four weights sum to 1.0 and stay inside their policy bounds.
type DimensionWeights struct {
	Intent     float64 `json:"intent"`
	Vocabulary float64 `json:"vocabulary"`
	Spelling   float64 `json:"spelling"`
	Grammar    float64 `json:"grammar"`
}

func (w DimensionWeights) Sum() float64 {
	return w.Intent + w.Vocabulary + w.Spelling + w.Grammar
}

// Get returns the weight for a dimension name.
func (w DimensionWeights) Get(dim string) float64 {
	switch dim {
	case DimIntent:
		return w.Intent
	case DimVocabulary:
		return w.Vocabulary
	case DimSpelling:
		return w.Spelling
	case DimGrammar:
		return w.Grammar
	}
	return 0
}

// Misspelling is one spelling error the model identified.
type Misspelling struct {
	Word    string `json:"word"`
	Correct string `json:"correct"`
	Kind    string `json:"kind,omitempty"` // phonetic or typo
}

// Analysis carries the optional qualitative detail the model may return
// alongside the numeric sub-scores.
type Analysis struct {
	Misspellings     []Misspelling `json:"misspellings,omitempty"`
	PhoneticAttempts []string      `json:"phonetic_attempts,omitempty"`
	ConceptsMissed   []string      `json:"concepts_missed,omitempty"`
}

// ScoreCard is the parsed, validated model output for one answer.
// All sub-scores are in [0,1]. Degraded is set when any dimension was
// defaulted or coerced, so downstream review can flag the result.
type ScoreCard struct {
	Intent     float64
	Vocabulary float64
	Spelling   float64
	Grammar    float64

	Remark     string
	Suggestion string

	Degraded  bool
	Defaulted []string

	Analysis Analysis
}

// Get returns the sub-score for a dimension name.
func (c ScoreCard) Get(dim string) float64 {
	switch dim {
	case DimIntent:
		return c.Intent
	case DimVocabulary:
		return c.Vocabulary
	case DimSpelling:
		return c.Spelling
	case DimGrammar:
		return c.Grammar
	}
	return 0
}

// EvaluationResult is the immutable record produced for one answer.
type EvaluationResult struct {
	QuestionID    string             `json:"question_id"`
	StudentID     string             `json:"student_id,omitempty"`
	FinalScore    float64            `json:"final_score"`
	MaxScore      float64            `json:"max_score"`
	Percentage    float64            `json:"percentage"`
	PartialScores map[string]float64 `json:"partial_scores"`
	SubScores     map[string]float64 `json:"sub_scores"`
	Weights       DimensionWeights   `json:"weights"`
	Remarks       string             `json:"remarks"`
	Suggestions   string             `json:"suggestions"`
	Degraded      bool               `json:"degraded,omitempty"`
	Defaulted     []string           `json:"defaulted_dimensions,omitempty"`
	Analysis      Analysis           `json:"analysis"`
	Model         string             `json:"model,omitempty"`
	PromptVersion string             `json:"prompt_version,omitempty"`
}
