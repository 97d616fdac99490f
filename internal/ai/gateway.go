package ai

import (
	"context"
	"fmt"
)

// Request is a single structured scoring prompt sent to a model provider.
type Request struct {
	SystemPrompt    string
	UserPrompt      string
	ResponseSchema  map[string]any
	Temperature     float32
	MaxOutputTokens int32
	Model           string
}

type Usage struct {
	PromptTokens     int32 `json:"prompt_tokens"`
	CompletionTokens int32 `json:"completion_tokens"`
	TotalTokens      int32 `json:"total_tokens"`
}

type Response struct {
	Text  string
	Model string
	Usage *Usage
}

// Gateway is the outbound model boundary. One evaluation makes exactly one
// Generate call; the caller bounds it with a context deadline.
type Gateway interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// ErrorKind classifies gateway failures for the caller. The engine never
// retries; batch callers decide whether to skip, retry, or abort.
type ErrorKind int

const (
	KindTransport ErrorKind = iota
	KindRateLimited
	KindAuthFailure
	KindInvalidModel
)

func (k ErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindAuthFailure:
		return "auth_failure"
	case KindInvalidModel:
		return "invalid_model"
	default:
		return "transport"
	}
}

type GatewayError struct {
	Kind     ErrorKind
	Provider string
	Err      error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s gateway %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func newGatewayError(provider string, kind ErrorKind, err error) *GatewayError {
	return &GatewayError{Kind: kind, Provider: provider, Err: err}
}

// kindForStatus maps an HTTP status from a provider API to an error kind.
func kindForStatus(code int) ErrorKind {
	switch code {
	case 429:
		return KindRateLimited
	case 401, 403:
		return KindAuthFailure
	case 404:
		return KindInvalidModel
	default:
		return KindTransport
	}
}
