package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsValidation(t *testing.T) {
	verr := &ValidationError{Field: "minPrice", Message: "minPrice must not be negative"}

	if !IsValidation(verr) {
		t.Error("IsValidation(ValidationError) = false, want true")
	}
	if !IsValidation(fmt.Errorf("rejected: %w", verr)) {
		t.Error("IsValidation(wrapped) = false, want true")
	}
	if IsValidation(errors.New("other")) {
		t.Error("IsValidation(plain error) = true, want false")
	}
}

func TestIsTransport(t *testing.T) {
	cause := errors.New("connection refused")
	terr := &TransportError{Backend: "listing", Err: cause}

	if !IsTransport(terr) {
		t.Error("IsTransport(TransportError) = false, want true")
	}
	if !IsTransport(fmt.Errorf("querying listings: %w", terr)) {
		t.Error("IsTransport(wrapped) = false, want true")
	}
	if IsTransport(cause) {
		t.Error("IsTransport(cause only) = true, want false")
	}
	if !errors.Is(terr, cause) {
		t.Error("TransportError must unwrap to its cause")
	}
}
