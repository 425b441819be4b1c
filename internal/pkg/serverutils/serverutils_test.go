package serverutils

import (
	"errors"
	"fmt"
	"testing"

	"ai-docchat-be/internal/apperror"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"empty input", fmt.Errorf("file x: %w", apperror.ErrEmptyInput), 400},
		{"unsupported format", apperror.ErrUnsupportedFormat, 415},
		{"not found", apperror.ErrNotFound, 404},
		{"duplicate key", apperror.ErrDuplicateKey, 409},
		{"not initialized", apperror.ErrNotInitialized, 503},
		{"backend unavailable", fmt.Errorf("ollama: %w", apperror.ErrBackendUnavailable), 502},
		{"unknown", errors.New("boom"), 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusOf(tt.err); got != tt.want {
				t.Errorf("statusOf(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestValidateRequest(t *testing.T) {
	type body struct {
		Question       string `validate:"required"`
		ConversationId string
	}

	if err := ValidateRequest(body{Question: "q"}); err != nil {
		t.Errorf("ValidateRequest(valid) = %v, want nil", err)
	}

	err := ValidateRequest(body{})
	if err == nil {
		t.Fatal("ValidateRequest(missing question) = nil, want error")
	}
	var reqErr *RequestValidationError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error type = %T, want *RequestValidationError", err)
	}
	if _, ok := reqErr.Fields["question"]; !ok {
		t.Errorf("Fields = %v, want question key", reqErr.Fields)
	}
}
