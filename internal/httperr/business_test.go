package httperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsBusiness(t *testing.T) {
	err := ErrBusiness(CodeSlotConflict)

	if !IsBusiness(err, CodeSlotConflict) {
		t.Fatalf("expected match for %v", err)
	}
	if IsBusiness(err, CodeNotFound) {
		t.Fatalf("expected no match for a different code")
	}
	if IsBusiness(errors.New("boom"), CodeSlotConflict) {
		t.Fatalf("expected no match for a plain error")
	}
	if IsBusiness(nil, CodeSlotConflict) {
		t.Fatalf("expected no match for nil")
	}

	// Wrapped errors still match.
	wrapped := fmt.Errorf("create appointment: %w", err)
	if !IsBusiness(wrapped, CodeSlotConflict) {
		t.Fatalf("expected match through wrapping")
	}
}

func TestBusinessCode(t *testing.T) {
	code, ok := BusinessCode(ErrBusiness(CodeInvalidState))
	if !ok || code != CodeInvalidState {
		t.Fatalf("expected invalid_state, got %q ok=%v", code, ok)
	}
	if _, ok := BusinessCode(errors.New("boom")); ok {
		t.Fatalf("expected no code for a plain error")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	pg := errors.New(`ERROR: duplicate key value violates unique constraint "idx_appointments_barber_slot" (SQLSTATE 23505)`)
	lite := errors.New("UNIQUE constraint failed: index 'idx_appointments_client_active'")

	if !IsUniqueViolation(pg, "idx_appointments_barber_slot") {
		t.Fatalf("expected postgres message to match its index")
	}
	if IsUniqueViolation(pg, "idx_appointments_client_active") {
		t.Fatalf("expected postgres message not to match another index")
	}
	if !IsUniqueViolation(lite, "idx_appointments_client_active") {
		t.Fatalf("expected sqlite message to match its index")
	}
	if !IsUniqueViolation(pg, "") {
		t.Fatalf("expected empty index to match any unique violation")
	}
	if IsUniqueViolation(errors.New("connection refused"), "") {
		t.Fatalf("expected non-unique errors not to match")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatalf("expected nil not to match")
	}
}
