package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCodeMatching(t *testing.T) {
	cause := errors.New("row not found")
	err := NewError(CodeNotFound, "application not found", cause)

	if !Is(err, CodeNotFound) {
		t.Fatal("expected code to match")
	}
	if Is(err, CodeConflict) {
		t.Fatal("expected code mismatch")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to unwrap")
	}

	wrapped := fmt.Errorf("loading: %w", err)
	if !Is(wrapped, CodeNotFound) {
		t.Fatal("expected code to match through wrapping")
	}
	if CodeOf(wrapped) != CodeNotFound {
		t.Fatalf("expected not_found, got %s", CodeOf(wrapped))
	}
}

func TestCodeOfPlainError(t *testing.T) {
	if CodeOf(errors.New("boom")) != CodeInternal {
		t.Fatal("expected plain errors to map to internal")
	}
	if Is(nil, CodeInternal) {
		t.Fatal("expected nil to match nothing")
	}
}

func TestValidationErrorFields(t *testing.T) {
	err := NewValidationError("invalid request", map[string]string{"status": "status is required"})
	if !Is(err, CodeValidation) {
		t.Fatal("expected validation code")
	}
	if err.Fields["status"] == "" {
		t.Fatal("expected field detail")
	}
}
