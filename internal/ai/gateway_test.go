package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)


func TestKindForStatus(t *testing.T) {
	cases := map[int]ErrorKind{
		429: KindRateLimited,
		401: KindAuthFailure,
		403: KindAuthFailure,
		404: KindInvalidModel,
		500: KindTransport,
		503: KindTransport,
		0:   KindTransport,
	}
	for code, want := range cases {
		if got := kindForStatus(code); got != want {
			t.Fatalf("status %d: expected %s, got %s", code, want, got)
		}
	}
}

func TestGatewayError_WrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := newGatewayError("gemini", KindTransport, cause)

	if !errors.Is(err, cause) {
		t.Fatalf("expected gateway error to wrap its cause")
	}

	var gwErr *GatewayError
	wrapped := fmt.Errorf("grading q1: %w", err)
	if !errors.As(wrapped, &gwErr) {
		t.Fatalf("expected errors.As to find the gateway error")
	}
	if gwErr.Kind != KindTransport || gwErr.Provider != "gemini" {
		t.Fatalf("unexpected gateway error: %+v", gwErr)
	}
}

func TestClassifyGemini(t *testing.T) {
	if got := classifyGemini(context.DeadlineExceeded); got.Kind != KindTransport {
		t.Fatalf("expected deadline to map to transport, got %s", got.Kind)
	}
	if got := classifyGemini(genai.APIError{Code: 429, Message: "quota"}); got.Kind != KindRateLimited {
		t.Fatalf("expected 429 to map to rate limited, got %s", got.Kind)
	}
	if got := classifyGemini(genai.APIError{Code: 404, Message: "model not found"}); got.Kind != KindInvalidModel {
		t.Fatalf("expected 404 to map to invalid model, got %s", got.Kind)
	}
	if got := classifyGemini(errors.New("mystery")); got.Kind != KindTransport {
		t.Fatalf("expected unknown error to map to transport, got %s", got.Kind)
	}
}

func TestClassifyOpenAI(t *testing.T) {
	if got := classifyOpenAI(&openai.APIError{HTTPStatusCode: 401}); got.Kind != KindAuthFailure {
		t.Fatalf("expected 401 to map to auth failure, got %s", got.Kind)
	}
	if got := classifyOpenAI(&openai.APIError{HTTPStatusCode: 429}); got.Kind != KindRateLimited {
		t.Fatalf("expected 429 to map to rate limited, got %s", got.Kind)
	}
	if got := classifyOpenAI(context.DeadlineExceeded); got.Kind != KindTransport {
		t.Fatalf("expected deadline to map to transport, got %s", got.Kind)
	}
}

func TestNewClients_RequireAPIKey(t *testing.T) {
	if _, err := NewGemini("", "gemini-2.5-flash", zerolog.Nop()); err == nil {
		t.Fatalf("expected gemini constructor to require a key")
	}
	if _, err := NewOpenAI("", "gpt-4o-mini", zerolog.Nop()); err == nil {
		t.Fatalf("expected openai constructor to require a key")
	}
}
