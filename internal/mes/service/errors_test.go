package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/idrak-dareshani/mes-system/internal/mes/repository"
)

func TestValidationErrorMessageIsStable(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"quantity":     "must be a positive integer",
		"order_number": "must not be empty",
	}}
	want := "validation failed: order_number: must not be empty; quantity: must be a positive integer"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}

func TestWrapStorage(t *testing.T) {
	err := wrapStorage(repository.ErrNotFound, "production order", 7)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Expected NotFoundError, got %T", err)
	}
	if nf.Error() != "production order 7 not found" {
		t.Errorf("Unexpected message: %s", nf.Error())
	}

	cause := fmt.Errorf("connection refused")
	err = wrapStorage(cause, "workstation", 3)
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("Expected StorageError, got %T", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("StorageError must unwrap to its cause")
	}
}

func TestParseDueDate(t *testing.T) {
	if _, err := parseDueDate("2026-09-15"); err != nil {
		t.Errorf("Date-only form rejected: %v", err)
	}
	if _, err := parseDueDate("2026-09-15T10:30:00Z"); err != nil {
		t.Errorf("RFC3339 form rejected: %v", err)
	}
	if _, err := parseDueDate("15/09/2026"); err == nil {
		t.Errorf("Expected rejection of non-ISO date")
	}
}
