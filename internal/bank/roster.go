package bank

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"markwise/internal/config"
)

// ValidateRoster checks a batch roster before any model call is made.
// Per-answer grading failures are handled downstream; this only rejects
// rosters that are structurally unusable.
func ValidateRoster(roster []StudentAnswers) error {
	if len(roster) == 0 {
		return fmt.Errorf("roster must include at least one student")
	}
	total := 0
	seenStudents := make(map[string]struct{}, len(roster))
	for i, s := range roster {
		if strings.TrimSpace(s.StudentID) == "" {
			return fmt.Errorf("roster[%d].student_id is required", i)
		}
		if _, exists := seenStudents[s.StudentID]; exists {
			return fmt.Errorf("roster[%d].student_id must be unique", i)
		}
		seenStudents[s.StudentID] = struct{}{}
		if len(s.Answers) == 0 {
			return fmt.Errorf("roster[%d].answers must be non-empty", i)
		}
		seenQuestions := make(map[string]struct{}, len(s.Answers))
		for j, a := range s.Answers {
			if strings.TrimSpace(a.QuestionID) == "" {
				return fmt.Errorf("roster[%d].answers[%d].question_id is required", i, j)
			}
			if _, exists := seenQuestions[a.QuestionID]; exists {
				return fmt.Errorf("roster[%d].answers[%d] duplicates question %s", i, j, a.QuestionID)
			}
			seenQuestions[a.QuestionID] = struct{}{}
			if utf8.RuneCountInString(a.Text) > config.MaxAnswerChars {
				return fmt.Errorf("roster[%d].answers[%d] exceeds %d characters", i, j, config.MaxAnswerChars)
			}
		}
		total += len(s.Answers)
	}
	if total > config.MaxRosterAnswers {
		return fmt.Errorf("roster holds %d answers, maximum is %d", total, config.MaxRosterAnswers)
	}
	return nil
}
