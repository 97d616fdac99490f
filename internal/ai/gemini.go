package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

const geminiProvider = "gemini"

// Gemini calls the Google Gemini API with a structured-response schema so
// the model is constrained to the scoring JSON contract.
type Gemini struct {
	apiKey string
	model  string
	logger zerolog.Logger
}

func NewGemini(apiKey, model string, logger zerolog.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	return &Gemini{apiKey: apiKey, model: model, logger: logger}, nil
}

func (g *Gemini) Generate(ctx context.Context, req Request) (Response, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: g.apiKey})
	if err != nil {
		return Response{}, newGatewayError(geminiProvider, KindAuthFailure, err)
	}

	model := req.Model
	if model == "" {
		model = g.model
	}

	result, err := client.Models.GenerateContent(ctx, model, geminiContents(req), geminiConfig(req))
	if err != nil {
		gwErr := classifyGemini(err)
		g.logger.Warn().Str("model", model).Stringer("kind", gwErr.Kind).Err(err).Msg("gemini generate failed")
		return Response{}, gwErr
	}

	return Response{
		Text:  result.Text(),
		Model: model,
		Usage: geminiUsage(result.UsageMetadata),
	}, nil
}

func geminiConfig(req Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		},
		Temperature:     &req.Temperature,
		MaxOutputTokens: req.MaxOutputTokens,
	}
	if req.ResponseSchema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseJsonSchema = req.ResponseSchema
	}
	return cfg
}

func geminiContents(req Request) []*genai.Content {
	return []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: req.UserPrompt}},
	}}
}

func geminiUsage(meta *genai.GenerateContentResponseUsageMetadata) *Usage {
	if meta == nil {
		return nil
	}
	return &Usage{
		PromptTokens:     meta.PromptTokenCount,
		CompletionTokens: meta.CandidatesTokenCount,
		TotalTokens:      meta.TotalTokenCount,
	}
}

func classifyGemini(err error) *GatewayError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return newGatewayError(geminiProvider, KindTransport, err)
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return newGatewayError(geminiProvider, kindForStatus(apiErr.Code), err)
	}
	return newGatewayError(geminiProvider, KindTransport, err)
}
