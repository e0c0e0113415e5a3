// Package ids provides ID primitives (ULID) used by the session engine.
package ids

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// New returns a new ULID string (26 chars) stamped with wall-clock time.
// ULIDs are lexicographically sortable, which keeps archived rows in
// creation order without a separate sequence.
func New() string {
	return ulid.Make().String()
}

// NewAt returns a new ULID string stamped with the given time.
// Used when the caller owns the clock (engine operations, tests).
func NewAt(now time.Time) (string, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
