package evaluate

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"markwise/internal/ai"
	"markwise/internal/bank"
)

// BatchFailure records one answer that could not be graded. The batch
// keeps going; the caller decides what to do with the leftovers.
type BatchFailure struct {
	StudentID  string `json:"student_id"`
	QuestionID string `json:"question_id"`
	Kind       string `json:"kind"`
	Message    string `json:"message"`
}

// StudentSummary is one student's line in the class summary.
type StudentSummary struct {
	StudentID  string  `json:"student_id"`
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"max_score"`
	Percentage float64 `json:"percentage"`
	Comment    string  `json:"comment"`
}

// BatchSummary aggregates a run for the result sink: class averages per
// dimension, a score distribution, and which answers were degraded.
type BatchSummary struct {
	Graded            int                `json:"graded"`
	DegradedCount     int                `json:"degraded_count"`
	ClassPercentage   float64            `json:"class_percentage"`
	DimensionAverages map[string]float64 `json:"dimension_averages"`
	Distribution      map[string]int     `json:"distribution"`
	Students          []StudentSummary   `json:"students"`
	Failures          []BatchFailure     `json:"failures,omitempty"`
}

type BatchResult struct {
	Results []EvaluationResult `json:"results"`
	Summary BatchSummary       `json:"summary"`
}

// BatchRunner grades a roster against a question bank. Evaluations are
// independent, so they run concurrently up to the configured limit.
type BatchRunner struct {
	engine      *Engine
	concurrency int
	logger      zerolog.Logger
}

func NewBatchRunner(engine *Engine, concurrency int, logger zerolog.Logger) *BatchRunner {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &BatchRunner{engine: engine, concurrency: concurrency, logger: logger}
}

// Run grades every answer in the roster. Per-answer failures are recorded
// in the summary and never abort the rest of the roster; only context
// cancellation stops a run early.
func (r *BatchRunner) Run(ctx context.Context, qb *bank.Bank, roster []bank.StudentAnswers) (BatchResult, error) {
	if err := bank.ValidateRoster(roster); err != nil {
		return BatchResult{}, err
	}

	var (
		mu       sync.Mutex
		results  []EvaluationResult
		failures []BatchFailure
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, student := range roster {
		for _, answer := range student.Answers {
			answer := answer
			answer.StudentID = student.StudentID
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				q, ok := qb.Get(answer.QuestionID)
				if !ok {
					mu.Lock()
					failures = append(failures, BatchFailure{
						StudentID:  answer.StudentID,
						QuestionID: answer.QuestionID,
						Kind:       "unknown_question",
						Message:    "question not found in bank",
					})
					mu.Unlock()
					return nil
				}
				res, err := r.engine.Evaluate(ctx, q, answer)
				if err != nil {
					r.logger.Warn().
						Str("student_id", answer.StudentID).
						Str("question_id", answer.QuestionID).
						Err(err).
						Msg("answer grading failed, continuing batch")
					mu.Lock()
					failures = append(failures, failureFor(answer, err))
					mu.Unlock()
					return nil
				}
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return BatchResult{}, err
	}

	sortResults(results)
	sortFailures(failures)
	summary := summarize(results, failures)
	return BatchResult{Results: results, Summary: summary}, nil
}

func failureFor(answer bank.Answer, err error) BatchFailure {
	kind := "configuration"
	var gwErr *ai.GatewayError
	if errors.As(err, &gwErr) {
		kind = gwErr.Kind.String()
	}
	return BatchFailure{
		StudentID:  answer.StudentID,
		QuestionID: answer.QuestionID,
		Kind:       kind,
		Message:    err.Error(),
	}
}

func sortResults(results []EvaluationResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].StudentID != results[j].StudentID {
			return results[i].StudentID < results[j].StudentID
		}
		return results[i].QuestionID < results[j].QuestionID
	})
}

func sortFailures(failures []BatchFailure) {
	sort.Slice(failures, func(i, j int) bool {
		if failures[i].StudentID != failures[j].StudentID {
			return failures[i].StudentID < failures[j].StudentID
		}
		return failures[i].QuestionID < failures[j].QuestionID
	})
}

var distributionBuckets = []struct {
	label string
	min   float64
}{
	{"90-100", 90},
	{"75-89", 75},
	{"60-74", 60},
	{"40-59", 40},
	{"0-39", 0},
}

func summarize(results []EvaluationResult, failures []BatchFailure) BatchSummary {
	summary := BatchSummary{
		Graded:            len(results),
		DimensionAverages: make(map[string]float64, len(Dimensions)),
		Distribution:      make(map[string]int, len(distributionBuckets)),
		Failures:          failures,
	}
	for _, b := range distributionBuckets {
		summary.Distribution[b.label] = 0
	}
	if len(results) == 0 {
		return summary
	}

	perStudentScore := make(map[string]float64)
	perStudentMax := make(map[string]float64)
	var studentOrder []string
	dimTotals := make(map[string]float64, len(Dimensions))
	pctTotal := 0.0

	for _, res := range results {
		if res.Degraded {
			summary.DegradedCount++
		}
		pctTotal += res.Percentage
		for _, dim := range Dimensions {
			dimTotals[dim] += res.SubScores[dim]
		}
		for _, b := range distributionBuckets {
			if res.Percentage >= b.min {
				summary.Distribution[b.label]++
				break
			}
		}
		if _, seen := perStudentScore[res.StudentID]; !seen {
			studentOrder = append(studentOrder, res.StudentID)
		}
		perStudentScore[res.StudentID] += res.FinalScore
		perStudentMax[res.StudentID] += res.MaxScore
	}

	summary.ClassPercentage = round1(pctTotal / float64(len(results)))
	for _, dim := range Dimensions {
		summary.DimensionAverages[dim] = round4(dimTotals[dim] / float64(len(results)))
	}

	sort.Strings(studentOrder)
	for _, id := range studentOrder {
		pct := round1(100 * perStudentScore[id] / perStudentMax[id])
		summary.Students = append(summary.Students, StudentSummary{
			StudentID:  id,
			Score:      round2(perStudentScore[id]),
			MaxScore:   perStudentMax[id],
			Percentage: pct,
			Comment:    toneRemark(pct),
		})
	}
	return summary
}

// toneRemark maps a percentage band to an encouragement prefix for the
// class summary.
func toneRemark(percentage float64) string {
	switch {
	case percentage >= 90:
		return "Excellent work!"
	case percentage >= 75:
		return "Great job!"
	case percentage >= 60:
		return "Good effort!"
	case percentage >= 40:
		return "Nice try!"
	default:
		return "Keep practicing!"
	}
}
