package sessions

import (
	"os"
	"time"
)

// Config defines runtime configuration for the session engine.
//
// It controls the scheduler cadence, the revoked-session grace
// interval, the urgency thresholds, and the refresh default.
// Explicit and environment-driven so deployments can tune behavior
// without code changes.
type Config struct {
	// TickInterval is the scheduler cadence for expiry evaluation.
	TickInterval time.Duration

	// RevokeGrace is how long a revoked session stays in List output
	// so observers can show the terminal state before it disappears.
	RevokeGrace time.Duration

	// Thresholds are the display urgency bands.
	Thresholds Thresholds

	// ReferenceWindow normalizes countdown progress for ring visuals.
	ReferenceWindow time.Duration

	// DefaultExtension is the duration spec applied when Refresh is
	// called with an empty spec.
	DefaultExtension string
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() Config {
	return Config{
		TickInterval:     time.Second,
		RevokeGrace:      300 * time.Millisecond,
		Thresholds:       DefaultThresholds(),
		ReferenceWindow:  DefaultReferenceWindow,
		DefaultExtension: "1h",
	}
}

// LoadConfigFromEnv loads engine configuration from environment
// variables, all optional (durations must be valid Go duration strings):
//
//   - WARDEN_TICK_INTERVAL
//   - WARDEN_REVOKE_GRACE
//   - WARDEN_CRITICAL_THRESHOLD
//   - WARDEN_EXPIRING_SOON_THRESHOLD
//   - WARDEN_REFERENCE_WINDOW
//   - WARDEN_DEFAULT_EXTENSION (duration spec, e.g. "1h")
//
// Returns ErrConfig if any value is invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("WARDEN_TICK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.TickInterval = d
	}

	if v := os.Getenv("WARDEN_REVOKE_GRACE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, ErrConfig
		}
		cfg.RevokeGrace = d
	}

	if v := os.Getenv("WARDEN_CRITICAL_THRESHOLD"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.Thresholds.Critical = d
	}

	if v := os.Getenv("WARDEN_EXPIRING_SOON_THRESHOLD"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.Thresholds.ExpiringSoon = d
	}

	if v := os.Getenv("WARDEN_REFERENCE_WINDOW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.ReferenceWindow = d
	}

	if v := os.Getenv("WARDEN_DEFAULT_EXTENSION"); v != "" {
		if _, err := ParseDurationSpec(v); err != nil {
			return Config{}, ErrConfig
		}
		cfg.DefaultExtension = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks internal invariants.
func (c Config) Validate() error {
	if c.TickInterval <= 0 || c.RevokeGrace < 0 || c.ReferenceWindow <= 0 {
		return ErrConfig
	}
	if c.Thresholds.Critical <= 0 || c.Thresholds.ExpiringSoon <= c.Thresholds.Critical {
		return ErrConfig
	}
	if _, err := ParseDurationSpec(c.DefaultExtension); err != nil {
		return ErrConfig
	}
	return nil
}
