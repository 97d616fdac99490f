package bank

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"markwise/internal/config"
)

// Question is one entry of the external question bank. Immutable once loaded.
type Question struct {
	ID            string  `json:"question_id"`
	Text          string  `json:"question_text"`
	CorrectAnswer string  `json:"correct_answer"`
	Context       string  `json:"context,omitempty"`
	Difficulty    string  `json:"difficulty,omitempty"`
	MaxScore      float64 `json:"max_score,omitempty"`
}

// Answer is one student's raw response to one question. The text is never
// normalized; misspellings must survive to the model untouched.
type Answer struct {
	StudentID  string `json:"student_id,omitempty"`
	QuestionID string `json:"question_id"`
	Text       string `json:"answer"`
}

// StudentAnswers groups a student's answer sheet for a batch run.
type StudentAnswers struct {
	StudentID string   `json:"student_id"`
	Answers   []Answer `json:"answers"`
}

type bankFile struct {
	Questions []Question `json:"questions"`
}

// Bank is a read-only collection of questions keyed by ID.
type Bank struct {
	byID  map[string]Question
	order []string
}

// Load reads and validates a question bank file.
func Load(path string) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open question bank: %w", err)
	}
	defer f.Close()
	return Read(io.LimitReader(f, int64(config.MaxBankBytes)+1))
}

// Read parses a question bank from r with strict schema checking.
func Read(r io.Reader) (*Bank, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	if len(raw) > config.MaxBankBytes {
		return nil, fmt.Errorf("question bank exceeds %d bytes", config.MaxBankBytes)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("question bank is empty")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var bf bankFile
	if err := dec.Decode(&bf); err != nil {
		return nil, fmt.Errorf("question bank must match schema: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("question bank must be a single JSON value")
	}
	if len(bf.Questions) == 0 {
		return nil, fmt.Errorf("questions must be a non-empty array")
	}

	b := &Bank{byID: make(map[string]Question, len(bf.Questions))}
	for i, q := range bf.Questions {
		if strings.TrimSpace(q.ID) == "" {
			return nil, fmt.Errorf("questions[%d].question_id is required", i)
		}
		if strings.TrimSpace(q.ID) != q.ID {
			return nil, fmt.Errorf("questions[%d].question_id must not include leading/trailing whitespace", i)
		}
		if strings.TrimSpace(q.Text) == "" {
			return nil, fmt.Errorf("questions[%d].question_text is required", i)
		}
		if q.MaxScore < 0 {
			return nil, fmt.Errorf("questions[%d].max_score must not be negative", i)
		}
		if q.MaxScore == 0 {
			q.MaxScore = 1
		}
		if _, exists := b.byID[q.ID]; exists {
			return nil, fmt.Errorf("questions[%d].question_id must be unique", i)
		}
		b.byID[q.ID] = q
		b.order = append(b.order, q.ID)
	}
	return b, nil
}

// Get returns the question with the given ID.
func (b *Bank) Get(id string) (Question, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// IDs returns question IDs in bank order.
func (b *Bank) IDs() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

func (b *Bank) Len() int {
	return len(b.order)
}
