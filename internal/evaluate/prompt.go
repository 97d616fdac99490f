package evaluate

import (
	"bytes"
	"fmt"

	"markwise/internal/bank"
)

const promptVersion = "markwise-eval-v1"

type rubricDimension struct {
	ID          string
	Description string
}

// The rubric shares the aggregator's numeric weights with the model so its
// qualitative judgment is anchored to the same scale used for scoring.
var rubricDimensions = []rubricDimension{
	{
		ID:          DimIntent,
		Description: "Understanding: did the student grasp the main concept the question asks about? Credit partially correct reasoning.",
	},
	{
		ID:          DimVocabulary,
		Description: "Word choice: are the words appropriate and precise for the student's level?",
	},
	{
		ID:          DimSpelling,
		Description: "Spelling accuracy. Award partial credit for recognizable phonetic attempts, e.g. \"becaus\" is close to \"because\".",
	},
	{
		ID:          DimGrammar,
		Description: "Sentence structure, tense, and agreement.",
	},
}

func buildSystemPrompt() string {
	return "You are an expert literacy assessor for short student answers. " +
		"Score each dimension between 0.0 and 1.0. " +
		"Return ONLY valid JSON that conforms to the provided schema. " +
		"Keep remark and suggestion under 25 words each. " +
		"Do not include markdown, code fences, or any text outside the JSON object."
}

func buildUserPrompt(q bank.Question, w DimensionWeights, answer string) string {
	var buf bytes.Buffer
	buf.WriteString("Score the student's answer on four dimensions.\n")
	buf.WriteString("Dimensions:\n")
	for _, d := range rubricDimensions {
		buf.WriteString(fmt.Sprintf("- id: %s\n", d.ID))
		buf.WriteString(fmt.Sprintf("  description: %s\n", d.Description))
		buf.WriteString(fmt.Sprintf("  weight: %.4f\n", w.Get(d.ID)))
	}
	buf.WriteString(fmt.Sprintf("QUESTION: %s\n", q.Text))
	buf.WriteString(fmt.Sprintf("REFERENCE ANSWER: %s\n", q.CorrectAnswer))
	if q.Difficulty != "" {
		buf.WriteString(fmt.Sprintf("DIFFICULTY: %s\n", q.Difficulty))
	}
	if q.Context != "" {
		buf.WriteString(fmt.Sprintf("ASSESSMENT TYPE: %s\n", q.Context))
	}
	// The answer goes in verbatim. Phonetic and misspelled text must reach
	// the model unmodified so it can judge the attempt.
	buf.WriteString("STUDENT ANSWER:\n")
	buf.WriteString(answer)
	buf.WriteString("\n")
	buf.WriteString("Return one JSON object with numeric fields intent, vocabulary, spelling, grammar in [0,1], ")
	buf.WriteString("a short remark, a short suggestion, and optional arrays misspellings, phonetic_attempts, concepts_missed.\n")
	return buf.String()
}
