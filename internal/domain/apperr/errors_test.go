package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestLockedIsInvalidState(t *testing.T) {
	err := Locked("salary record", "Paid", "deleted")
	if !errors.Is(err, ErrLocked) {
		t.Fatal("expected locked error to match ErrLocked")
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Fatal("expected locked error to match ErrInvalidState")
	}

	plain := InvalidState("booking request", "approved", "approve")
	if errors.Is(plain, ErrLocked) {
		t.Fatal("plain state error must not match ErrLocked")
	}
}

func TestPersistenceKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("list staff: %w", Persistence("staff.list", cause))
	if !errors.Is(err, ErrPersistence) {
		t.Fatal("expected ErrPersistence")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable")
	}
	if Persistence("noop", nil) != nil {
		t.Fatal("expected nil for nil cause")
	}
}

func TestIssuesErr(t *testing.T) {
	var issues Issues
	if issues.Err() != nil {
		t.Fatal("expected nil error with no issues")
	}
	issues.Required("staffId", " ")
	issues.Add("periodEnd", "must be on or after periodStart")

	err := issues.Err()
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || len(ve.Issues) != 2 {
		t.Fatalf("expected two issues, got %v", err)
	}
}
