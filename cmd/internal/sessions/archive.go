package sessions

import (
	"context"
	"log/slog"
	"time"
)

// Archive is the persistence collaborator. It stores Session and Entry
// shapes verbatim; the engine owns no on-disk format of its own.
//
// Mirroring is best-effort, audit-log style: a write failure is logged
// and never fails the command that triggered it.
type Archive interface {
	// SaveSession inserts a newly created session.
	SaveSession(ctx context.Context, s Session) error

	// UpdateSession records a status or expiry change.
	UpdateSession(ctx context.Context, s Session) error

	// AppendEntry mirrors one activity-log entry.
	AppendEntry(ctx context.Context, e Entry) error

	// LoadActive returns previously active sessions, newest first,
	// for restore on startup.
	LoadActive(ctx context.Context) ([]Session, error)
}

const archiveWriteTimeout = 3 * time.Second

// archiver wraps an Archive with the best-effort call pattern.
// A nil archiver (or nil Archive) turns every call into a no-op.
type archiver struct {
	arch Archive
	log  *slog.Logger
}

func (a *archiver) saveSession(s Session) {
	if a == nil || a.arch == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), archiveWriteTimeout)
	defer cancel()
	if err := a.arch.SaveSession(ctx, s); err != nil {
		a.log.Error("archive.session.save.fail", "err", err, "session_id", s.ID)
	}
}

func (a *archiver) updateSession(s Session) {
	if a == nil || a.arch == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), archiveWriteTimeout)
	defer cancel()
	if err := a.arch.UpdateSession(ctx, s); err != nil {
		a.log.Error("archive.session.update.fail", "err", err, "session_id", s.ID)
	}
}

func (a *archiver) appendEntry(e Entry) {
	if a == nil || a.arch == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), archiveWriteTimeout)
	defer cancel()
	if err := a.arch.AppendEntry(ctx, e); err != nil {
		a.log.Error("archive.entry.append.fail", "err", err, "entry_id", e.ID, "session_id", e.SessionID)
	}
}
