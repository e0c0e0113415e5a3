package sessions

import (
	"strings"
	"testing"
	"time"
)

func TestValidateAddress(t *testing.T) {
	t.Parallel()

	valid := []string{
		"0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D",
		"0x0000000000000000000000000000000000000000",
		"0xabcdefABCDEF0123456789abcdefABCDEF012345",
		"  0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D  ",
	}
	for _, in := range valid {
		if err := ValidateAddress(in); err != nil {
			t.Fatalf("ValidateAddress(%q): %v", in, err)
		}
	}

	invalid := []string{
		"",
		"0x",
		"7a250d5630B4cF539739dF2C5dAcb4c659F2488D",
		"0x7a250d5630B4cF539739dF2C5dAcb4c659F2488",
		"0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D1",
		"0xZZ250d5630B4cF539739dF2C5dAcb4c659F2488D",
	}
	for _, in := range invalid {
		err := ValidateAddress(in)
		if err == nil {
			t.Fatalf("ValidateAddress(%q): expected error", in)
		}
		if !IsValidation(err) {
			t.Fatalf("ValidateAddress(%q): expected validation error, got %v", in, err)
		}
	}
}

func TestNormalizePermissions(t *testing.T) {
	t.Parallel()

	got, err := normalizePermissions("test", []string{" swap ", "approve", "swap", "", "approve"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"swap", "approve"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("got=%v want=%v", got, want)
	}

	if _, err := normalizePermissions("test", nil); !IsValidation(err) {
		t.Fatalf("expected validation error for empty set, got %v", err)
	}
	if _, err := normalizePermissions("test", []string{"", "  "}); !IsValidation(err) {
		t.Fatalf("expected validation error for blank-only set, got %v", err)
	}
}

func TestSessionClone_Independent(t *testing.T) {
	t.Parallel()

	revoked := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := &Session{
		ID:          "s1",
		Permissions: []string{"swap"},
		RevokedAt:   &revoked,
	}

	cp := s.clone()
	cp.Permissions[0] = "tampered"
	*cp.RevokedAt = cp.RevokedAt.Add(time.Hour)

	if s.Permissions[0] != "swap" {
		t.Fatalf("clone shares permissions slice")
	}
	if !s.RevokedAt.Equal(revoked) {
		t.Fatalf("clone shares RevokedAt pointer")
	}
}

func TestStatusTerminal(t *testing.T) {
	t.Parallel()

	if StatusActive.Terminal() {
		t.Fatalf("active must not be terminal")
	}
	if !StatusExpired.Terminal() || !StatusRevoked.Terminal() {
		t.Fatalf("expired and revoked must be terminal")
	}
}
