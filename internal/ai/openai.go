package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

const openaiProvider = "openai"

// OpenAI calls the OpenAI chat completion API in JSON-object response mode.
// Unlike Gemini, the response schema is not enforced server-side; the
// output still goes through the same parser.
type OpenAI struct {
	client *openai.Client
	model  string
	logger zerolog.Logger
}

func NewOpenAI(apiKey, model string, logger zerolog.Logger) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	return &OpenAI{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}, nil
}

func (o *OpenAI) Generate(ctx context.Context, req Request) (Response, error) {
	model := req.Model
	if model == "" {
		model = o.model
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		MaxTokens:   int(req.MaxOutputTokens),
		Temperature: req.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		gwErr := classifyOpenAI(err)
		o.logger.Warn().Str("model", model).Stringer("kind", gwErr.Kind).Err(err).Msg("openai generate failed")
		return Response{}, gwErr
	}
	if len(resp.Choices) == 0 {
		return Response{}, newGatewayError(openaiProvider, KindTransport, fmt.Errorf("no choices returned"))
	}

	return Response{
		Text:  strings.TrimSpace(resp.Choices[0].Message.Content),
		Model: model,
		Usage: &Usage{
			PromptTokens:     int32(resp.Usage.PromptTokens),
			CompletionTokens: int32(resp.Usage.CompletionTokens),
			TotalTokens:      int32(resp.Usage.TotalTokens),
		},
	}, nil
}

func classifyOpenAI(err error) *GatewayError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return newGatewayError(openaiProvider, KindTransport, err)
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return newGatewayError(openaiProvider, kindForStatus(apiErr.HTTPStatusCode), err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return newGatewayError(openaiProvider, kindForStatus(reqErr.HTTPStatusCode), err)
	}
	return newGatewayError(openaiProvider, KindTransport, err)
}
