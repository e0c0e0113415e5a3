package sessions

import (
	"sync"
	"time"

	"warden/cmd/internal/ids"
)

// Action is a lifecycle event kind in the activity log.
type Action string

const (
	ActionCreated   Action = "created"
	ActionExecuted  Action = "executed"
	ActionRevoked   Action = "revoked"
	ActionExpired   Action = "expired"
	ActionRefreshed Action = "refreshed"
)

// Entry is one activity-log record. Entries reference sessions by ID
// only; a session may leave the store while its entries persist.
type Entry struct {
	ID        string
	SessionID string
	Action    Action
	Timestamp time.Time
	TxHash    string
	Details   string
}

// Filter narrows a Query. Zero values match everything.
type Filter struct {
	SessionID string
	Action    Action
	Limit     int
}

// Recorder is the append-only activity log. Entries are assigned an ID
// and timestamp at insertion and are never edited, reordered, or
// deleted; retention is a collaborator's policy, not the Recorder's.
type Recorder struct {
	clock Clock

	mu      sync.Mutex
	entries []Entry // insertion order, oldest first
}

// NewRecorder constructs a Recorder. A nil clock means SystemClock.
func NewRecorder(clock Clock) *Recorder {
	if clock == nil {
		clock = SystemClock
	}
	return &Recorder{clock: clock}
}

// Record appends an entry and returns it.
func (r *Recorder) Record(sessionID string, action Action, details, txHash string) Entry {
	e := Entry{
		ID:        ids.New(),
		SessionID: sessionID,
		Action:    action,
		Timestamp: r.clock.Now(),
		TxHash:    txHash,
		Details:   details,
	}

	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()

	return e
}

// Query returns matching entries most-recent-first. The result is a
// copy, safe to hold while the log grows.
func (r *Recorder) Query(f Filter) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if f.SessionID != "" && e.SessionID != f.SessionID {
			continue
		}
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

// Len returns the number of recorded entries.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
