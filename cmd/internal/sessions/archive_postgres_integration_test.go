package sessions

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"warden/cmd/internal/ids"
)

// Integration tests are opt-in and require WARDEN_DATABASE_URL.
// In non-CI runs, unreachable Postgres skips these tests to keep local
// runs fast.

func TestPostgresArchive_SaveUpdateLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := mustOpenTestPool(t)
	defer pool.Close()

	mustApplyArchiveSchema(t, pool)
	arch := NewPostgresArchive(pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	sess := Session{
		ID:            ids.New(),
		TargetAddress: "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D",
		TargetName:    "Uniswap V2 Router",
		Permissions:   []string{"swapExactTokensForTokens"},
		Expiry:        now.Add(time.Hour),
		Status:        StatusActive,
		CreatedAt:     now,
		ChainID:       8453,
	}
	t.Cleanup(func() { cleanupArchiveRows(ctx, t, pool, sess.ID) })

	if err := arch.SaveSession(ctx, sess); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	loaded := mustFindActive(ctx, t, arch, sess.ID)
	if loaded.TargetAddress != sess.TargetAddress ||
		loaded.TargetName != sess.TargetName ||
		loaded.ChainID != sess.ChainID {
		t.Fatalf("loaded row differs: %+v", loaded)
	}
	if !loaded.Expiry.Equal(sess.Expiry) {
		t.Fatalf("expiry: got %v want %v", loaded.Expiry, sess.Expiry)
	}
	if len(loaded.Permissions) != 1 || loaded.Permissions[0] != sess.Permissions[0] {
		t.Fatalf("permissions: got %v", loaded.Permissions)
	}

	revokedAt := now.Add(10 * time.Minute)
	sess.Status = StatusRevoked
	sess.RevokedAt = &revokedAt
	if err := arch.UpdateSession(ctx, sess); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}

	// Terminal rows drop out of the active view.
	active, err := arch.LoadActive(ctx)
	if err != nil {
		t.Fatalf("LoadActive: %v", err)
	}
	for _, s := range active {
		if s.ID == sess.ID {
			t.Fatalf("revoked session still returned by LoadActive")
		}
	}
}

func TestPostgresArchive_AppendEntry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := mustOpenTestPool(t)
	defer pool.Close()

	mustApplyArchiveSchema(t, pool)
	arch := NewPostgresArchive(pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	sess := Session{
		ID:            ids.New(),
		TargetAddress: "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D",
		Permissions:   []string{"approve"},
		Expiry:        now.Add(time.Hour),
		Status:        StatusActive,
		CreatedAt:     now,
		ChainID:       10,
	}
	t.Cleanup(func() { cleanupArchiveRows(ctx, t, pool, sess.ID) })

	if err := arch.SaveSession(ctx, sess); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	entry := Entry{
		ID:        ids.New(),
		SessionID: sess.ID,
		Action:    ActionCreated,
		Timestamp: now,
		TxHash:    "0xabc",
		Details:   "1 permissions, expires in 1h",
	}
	if err := arch.AppendEntry(ctx, entry); err != nil {
		t.Fatalf("AppendEntry: %v", err)
	}

	var n int
	err := pool.QueryRow(ctx,
		`SELECT count(*) FROM warden.activity_log WHERE session_id = $1`, sess.ID,
	).Scan(&n)
	if err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if n != 1 {
		t.Fatalf("entries=%d want=1", n)
	}
}

func mustFindActive(ctx context.Context, t *testing.T, arch *PostgresArchive, id string) Session {
	t.Helper()

	active, err := arch.LoadActive(ctx)
	if err != nil {
		t.Fatalf("LoadActive: %v", err)
	}
	for _, s := range active {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("session %s not in LoadActive result", id)
	return Session{}
}

func mustOpenTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	raw := strings.TrimSpace(os.Getenv("WARDEN_DATABASE_URL"))
	if raw == "" {
		t.Skip("integration test skipped: WARDEN_DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()

	cfg, err := pgxpool.ParseConfig(raw)
	if err != nil {
		t.Fatalf("parse WARDEN_DATABASE_URL: %v", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer pingCancel()

	c, err := pool.Acquire(pingCtx)
	if err != nil {
		pool.Close()
		if shouldSkipIntegration(err) {
			t.Skipf("integration test skipped: Postgres unreachable (WARDEN_DATABASE_URL set): %v", err)
		}
		t.Fatalf("acquire: %v", err)
	}
	c.Release()

	return pool
}

func mustApplyArchiveSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	const schemaSQL = `
CREATE SCHEMA IF NOT EXISTS warden;

CREATE TABLE IF NOT EXISTS warden.sessions (
  id TEXT PRIMARY KEY,
  target_address TEXT NOT NULL,
  target_name TEXT NULL,
  permissions TEXT[] NOT NULL,
  expiry TIMESTAMPTZ NOT NULL,
  status TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL,
  chain_id BIGINT NOT NULL,
  revoked_at TIMESTAMPTZ NULL,

  CONSTRAINT chk_sessions_id_ulid_len CHECK (char_length(id) = 26),
  CONSTRAINT chk_sessions_status CHECK (status IN ('active', 'expired', 'revoked'))
);

CREATE TABLE IF NOT EXISTS warden.activity_log (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  action TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL,
  tx_hash TEXT NULL,
  details TEXT NULL,

  CONSTRAINT chk_activity_id_ulid_len CHECK (char_length(id) = 26)
);

CREATE INDEX IF NOT EXISTS idx_sessions_status
  ON warden.sessions (status);

CREATE INDEX IF NOT EXISTS idx_activity_session_id
  ON warden.activity_log (session_id);
`

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
}

func cleanupArchiveRows(ctx context.Context, t *testing.T, pool *pgxpool.Pool, sessionID string) {
	t.Helper()

	_, _ = pool.Exec(ctx, `DELETE FROM warden.activity_log WHERE session_id = $1`, sessionID)
	_, _ = pool.Exec(ctx, `DELETE FROM warden.sessions WHERE id = $1`, sessionID)
}

func shouldSkipIntegration(err error) bool {
	if err == nil {
		return false
	}
	if os.Getenv("CI") != "" {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "context deadline exceeded") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "dial tcp") ||
		strings.Contains(msg, "no such host")
}
