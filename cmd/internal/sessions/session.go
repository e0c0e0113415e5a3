package sessions

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Status is the store-authoritative lifecycle state of a session.
// Transitions are one-directional: active -> expired (clock-driven) and
// active -> revoked (command-driven) are both terminal.
type Status string

const (
	// StatusActive means the session grant is live.
	StatusActive Status = "active"
	// StatusExpired means the grant's expiry elapsed. Terminal.
	StatusExpired Status = "expired"
	// StatusRevoked means the holder revoked the grant. Terminal.
	StatusRevoked Status = "revoked"
)

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusExpired || s == StatusRevoked
}

// Session is a time-bound, revocable grant of a permission set to a
// target address. Everything except Expiry and Status is immutable
// after creation.
type Session struct {
	ID            string
	TargetAddress string
	TargetName    string
	Permissions   []string
	Expiry        time.Time
	Status        Status
	CreatedAt     time.Time
	ChainID       int64

	// RevokedAt is set on the active -> revoked transition and drives
	// the grace interval before the session leaves List output.
	RevokedAt *time.Time

	// Pending marks a command awaiting collaborator confirmation.
	// Presentation shows it as an in-progress sub-state; it is never
	// persisted.
	Pending bool
}

// Remaining returns the time left until expiry at the given instant.
// Negative once elapsed.
func (s *Session) Remaining(now time.Time) time.Duration {
	return s.Expiry.Sub(now)
}

// clone returns a defensive copy safe to hand to callers.
func (s *Session) clone() Session {
	cp := *s
	cp.Permissions = append([]string(nil), s.Permissions...)
	if s.RevokedAt != nil {
		t := *s.RevokedAt
		cp.RevokedAt = &t
	}
	return cp
}

var addressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidateAddress checks a target address: "0x" followed by exactly
// 40 hex characters, case-insensitive.
func ValidateAddress(addr string) error {
	if !addressRe.MatchString(strings.TrimSpace(addr)) {
		return OpError{
			Op:   "sessions.ValidateAddress",
			Kind: ErrValidation,
			Msg:  fmt.Sprintf("malformed target address %q", addr),
		}
	}
	return nil
}

// normalizePermissions trims, drops empties, and dedupes while keeping
// first-occurrence order. Returns ErrValidation when nothing remains.
func normalizePermissions(op string, perms []string) ([]string, error) {
	out := make([]string, 0, len(perms))
	seen := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, OpError{Op: op, Kind: ErrValidation, Msg: "empty permission set"}
	}
	return out, nil
}
