package main

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"markwise/internal/ai"
	"markwise/internal/auth"
	"markwise/internal/bank"
	"markwise/internal/config"
	"markwise/internal/evaluate"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := config.Load(); err != nil {
		logger.Info().Err(err).Msg("no .env loaded")
	}
	if config.APIKey() == "" {
		logger.Warn().Msg("MARKWISE_API_KEY not set; grading routes will reject all requests")
	}

	gateway, err := buildGateway(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("model gateway init failed")
	}

	qb, err := bank.Load(config.QuestionBankPath())
	if err != nil {
		logger.Fatal().Err(err).Str("path", config.QuestionBankPath()).Msg("question bank load failed")
	}
	logger.Info().Int("questions", qb.Len()).Msg("question bank loaded")

	engine := evaluate.NewEngine(gateway, evaluate.EngineOptions{
		Model:   config.ModelName(),
		RunsDir: config.RunsDir(),
		Timeout: config.GatewayTimeout(),
		Logger:  logger.With().Str("component", "engine").Logger(),
	})
	runner := evaluate.NewBatchRunner(engine, config.BatchConcurrency(),
		logger.With().Str("component", "batch").Logger())

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := os.MkdirAll(config.RunsDir(), 0o755); err != nil {
			c.JSON(500, gin.H{"status": "error", "error": "runs dir not writable"})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(auth.APIKey())
	{
		api.POST("/evaluate", evaluate.Handler(engine, qb))
		api.POST("/batch", evaluate.BatchHandler(runner, qb, config.RunsDir()))
		api.GET("/runs/:id", evaluate.RunHandler(config.RunsDir()))
	}

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		if strings.HasPrefix(port, ":") {
			addr = port
		} else {
			addr = ":" + port
		}
	}

	if err := r.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

func buildGateway(logger zerolog.Logger) (ai.Gateway, error) {
	gwLogger := logger.With().Str("component", "gateway").Logger()
	if config.Provider() == "openai" {
		return ai.NewOpenAI(config.OpenAIAPIKey(), config.ModelName(), gwLogger)
	}
	return ai.NewGemini(config.GeminiAPIKey(), config.ModelName(), gwLogger)
}
