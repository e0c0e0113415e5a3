package sessions

import "time"

// Category is the presentation-facing refinement of lifecycle status
// into urgency bands. It is computed on demand and never persisted.
type Category string

const (
	CategoryActive       Category = "active"
	CategoryExpiringSoon Category = "expiring-soon"
	CategoryCritical     Category = "critical"
	CategoryExpired      Category = "expired"
	CategoryRevoked      Category = "revoked"
)

// Default urgency thresholds.
const (
	DefaultCriticalThreshold     = 2 * time.Minute
	DefaultExpiringSoonThreshold = 10 * time.Minute
)

// Thresholds are the urgency band boundaries. Critical must be below
// ExpiringSoon; Config validation enforces it.
type Thresholds struct {
	Critical     time.Duration
	ExpiringSoon time.Duration
}

// DefaultThresholds returns the standard urgency bands.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Critical:     DefaultCriticalThreshold,
		ExpiringSoon: DefaultExpiringSoonThreshold,
	}
}

// Classify maps a lifecycle status plus remaining time to a display
// category. Pure; the store's status always wins over the clock, so a
// revoked session never shows as expired.
func Classify(status Status, remaining time.Duration, t Thresholds) Category {
	switch status {
	case StatusRevoked:
		return CategoryRevoked
	case StatusExpired:
		return CategoryExpired
	}
	if remaining <= 0 {
		return CategoryExpired
	}
	if remaining < t.Critical {
		return CategoryCritical
	}
	if remaining < t.ExpiringSoon {
		return CategoryExpiringSoon
	}
	return CategoryActive
}
