package evaluate

import (
	"errors"
	"net/http"
	"os"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"markwise/internal/ai"
	"markwise/internal/bank"
	"markwise/internal/config"
	"markwise/internal/httputil"
)

// EvaluateRequest is the JSON body for POST /api/evaluate.
type EvaluateRequest struct {
	QuestionID string `json:"question_id"`
	StudentID  string `json:"student_id"`
	Answer     string `json:"answer"`
}

// BatchRequest is the JSON body for POST /api/batch.
type BatchRequest struct {
	Students []bank.StudentAnswers `json:"students"`
}

// BatchResponse acknowledges a stored batch run.
type BatchResponse struct {
	RunID   string       `json:"run_id"`
	Summary BatchSummary `json:"summary"`
}

// Handler handles POST /api/evaluate. Expects APIKey auth to have run first.
func Handler(engine *Engine, qb *bank.Bank) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, config.MaxBodyBytes)

		var req EvaluateRequest
		if err := httputil.DecodeStrictJSON(c.Request.Body, &req); err != nil {
			if httputil.IsBodyTooLarge(err) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request JSON"})
			return
		}
		if req.QuestionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "question_id is required"})
			return
		}
		if utf8.RuneCountInString(req.Answer) > config.MaxAnswerChars {
			c.JSON(http.StatusBadRequest, gin.H{"error": "answer too long"})
			return
		}
		q, ok := qb.Get(req.QuestionID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown question"})
			return
		}

		answer := bank.Answer{
			StudentID:  req.StudentID,
			QuestionID: req.QuestionID,
			Text:       req.Answer,
		}
		result, err := engine.Evaluate(c.Request.Context(), q, answer)
		if err != nil {
			respondEvaluateError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// BatchHandler handles POST /api/batch: grades a roster and stores the run.
func BatchHandler(runner *BatchRunner, qb *bank.Bank, runsDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, config.MaxBankBytes)

		var req BatchRequest
		if err := httputil.DecodeStrictJSON(c.Request.Body, &req); err != nil {
			if httputil.IsBodyTooLarge(err) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request JSON"})
			return
		}

		batch, err := runner.Run(c.Request.Context(), qb, req.Students)
		if err != nil {
			if c.Request.Context().Err() != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "batch cancelled"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		runID, err := SaveRun(runsDir, config.RunsIndexLimit(), config.RunsMax(), batch)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store run"})
			return
		}
		c.JSON(http.StatusOK, BatchResponse{RunID: runID, Summary: batch.Summary})
	}
}

// RunHandler handles GET /api/runs/:id.
func RunHandler(runsDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		batch, err := LoadRun(runsDir, c.Param("id"))
		if err != nil {
			if os.IsNotExist(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
			return
		}
		c.JSON(http.StatusOK, batch)
	}
}

func respondEvaluateError(c *gin.Context, err error) {
	if errors.Is(err, ErrConfiguration) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	var gwErr *ai.GatewayError
	if errors.As(err, &gwErr) {
		status := http.StatusBadGateway
		if gwErr.Kind == ai.KindRateLimited {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"error": "model gateway failed",
			"kind":  gwErr.Kind.String(),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "evaluation failed"})
}
