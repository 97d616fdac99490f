package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads .env from the current directory and sets env vars.
// Safe to call multiple times; existing env vars are not overwritten.
func Load() error {
	return godotenv.Load()
}

// APIKey returns the key used to gate grading routes (MARKWISE_API_KEY).
func APIKey() string {
	return os.Getenv("MARKWISE_API_KEY")
}

// Provider returns the model provider to use: "gemini" or "openai".
func Provider() string {
	if v := os.Getenv("MARKWISE_AI_PROVIDER"); v != "" {
		return v
	}
	return "gemini"
}

// GeminiAPIKey returns the Google Gemini API key.
func GeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

// OpenAIAPIKey returns the OpenAI API key.
func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// ModelName returns the model to grade with. The name is forwarded to the
// gateway unchanged; it has no effect on scoring arithmetic.
func ModelName() string {
	if v := os.Getenv("MARKWISE_MODEL"); v != "" {
		return v
	}
	if Provider() == "openai" {
		return "gpt-4o-mini"
	}
	return "gemini-2.5-flash"
}

// RunsDir returns the directory for batch run artifacts and the response cache.
func RunsDir() string {
	if v := os.Getenv("MARKWISE_RUNS_DIR"); v != "" {
		return v
	}
	return "data/runs"
}

// QuestionBankPath returns the path of the question bank JSON file.
func QuestionBankPath() string {
	if v := os.Getenv("MARKWISE_QUESTION_BANK"); v != "" {
		return v
	}
	return "data/questions.json"
}

// GatewayTimeout returns the per-call deadline for the model gateway.
func GatewayTimeout() time.Duration {
	if v := os.Getenv("MARKWISE_GATEWAY_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return 45 * time.Second
}

// BatchConcurrency returns how many answers a batch run grades at once.
func BatchConcurrency() int {
	if v := os.Getenv("MARKWISE_BATCH_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 4
}

// RunsIndexLimit returns the max number of runs kept in index.json.
func RunsIndexLimit() int {
	if v := os.Getenv("MARKWISE_RUNS_INDEX_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 50
}

// RunsMax returns the maximum number of run artifacts to retain.
// If unset or invalid, defaults to 50. Set to 0 to disable pruning.
func RunsMax() int {
	if v := os.Getenv("MARKWISE_RUNS_MAX"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return 50
}
