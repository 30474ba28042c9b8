package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundErrorMatchesSentinel(t *testing.T) {
	err := NotFoundf("no cart found with id %d", 9)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected NotFoundError to match ErrNotFound")
	}
	wrapped := fmt.Errorf("service: %w", err)
	if !errors.Is(wrapped, ErrNotFound) {
		t.Fatalf("expected wrapped NotFoundError to match ErrNotFound")
	}
}

func TestInsufficientStockMessage(t *testing.T) {
	err := &InsufficientStockError{Available: 2}
	if err.Error() != "insufficient stock: only 2 unit(s) available" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestValidationErrorDoesNotMatchNotFound(t *testing.T) {
	err := Validationf("qty (greater than 0) is required")
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("validation error must not match ErrNotFound")
	}
}
