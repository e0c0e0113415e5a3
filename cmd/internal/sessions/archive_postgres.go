package sessions

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresArchive implements Archive using PostgreSQL
// (warden.sessions, warden.activity_log).
type PostgresArchive struct {
	pool *pgxpool.Pool
}

// NewPostgresArchive creates a Postgres-backed archive.
func NewPostgresArchive(pool *pgxpool.Pool) *PostgresArchive {
	return &PostgresArchive{pool: pool}
}

// SaveSession inserts a session row.
func (a *PostgresArchive) SaveSession(ctx context.Context, s Session) error {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO warden.sessions (
			id, target_address, target_name, permissions,
			expiry, status, created_at, chain_id, revoked_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, s.ID, s.TargetAddress, nullIfEmpty(s.TargetName), s.Permissions,
		s.Expiry, string(s.Status), s.CreatedAt, s.ChainID, s.RevokedAt)
	return err
}

// UpdateSession writes the mutable fields (expiry, status, revoked_at).
func (a *PostgresArchive) UpdateSession(ctx context.Context, s Session) error {
	_, err := a.pool.Exec(ctx, `
		UPDATE warden.sessions
		SET expiry = $2, status = $3, revoked_at = $4
		WHERE id = $1
	`, s.ID, s.Expiry, string(s.Status), s.RevokedAt)
	return err
}

// AppendEntry inserts one activity-log row.
func (a *PostgresArchive) AppendEntry(ctx context.Context, e Entry) error {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO warden.activity_log (
			id, session_id, action, created_at, tx_hash, details
		) VALUES ($1, $2, $3, $4, $5, $6)
	`, e.ID, e.SessionID, string(e.Action), e.Timestamp,
		nullIfEmpty(e.TxHash), nullIfEmpty(e.Details))
	return err
}

// LoadActive returns sessions stored as active, newest first.
// The store re-derives their true lifecycle state on restore; a row
// whose expiry elapsed while the process was down expires on the
// first scheduler tick.
func (a *PostgresArchive) LoadActive(ctx context.Context) ([]Session, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT id, target_address, COALESCE(target_name, ''), permissions,
		       expiry, status, created_at, chain_id, revoked_at
		FROM warden.sessions
		WHERE status = 'active'
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var s Session
		var status string
		if err := rows.Scan(
			&s.ID,
			&s.TargetAddress,
			&s.TargetName,
			&s.Permissions,
			&s.Expiry,
			&status,
			&s.CreatedAt,
			&s.ChainID,
			&s.RevokedAt,
		); err != nil {
			return nil, err
		}
		s.Status = Status(status)
		out = append(out, s)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
