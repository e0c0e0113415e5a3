package sessions

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"warden/cmd/internal/ids"
)

// StoreDeps are the collaborators a Store is wired with. Recorder is
// required in spirit but constructed on demand; Chain, Archive, and
// Metrics are optional.
type StoreDeps struct {
	Log      *slog.Logger
	Clock    Clock
	Recorder *Recorder
	Chain    ChainClient
	Archive  Archive
	Metrics  *Metrics
}

// Store owns the session collection and enforces lifecycle invariants:
// monotonic terminal transitions, at-most-one in-flight command per
// session ID, and atomicity of every operation with respect to both
// the collection and the activity log.
type Store struct {
	log     *slog.Logger
	cfg     Config
	clock   Clock
	chain   ChainClient
	rec     *Recorder
	arch    *archiver
	metrics *Metrics

	closeOnce sync.Once
	done      chan struct{}

	mu       sync.Mutex
	closed   bool
	sessions map[string]*Session
	order    []string // session ids, newest first
	inflight map[string]struct{}
}

// NewStore constructs a Store. Returns ErrConfig when cfg is invalid.
func NewStore(cfg Config, deps StoreDeps) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	if deps.Clock == nil {
		deps.Clock = SystemClock
	}
	if deps.Recorder == nil {
		deps.Recorder = NewRecorder(deps.Clock)
	}

	return &Store{
		log:      deps.Log,
		cfg:      cfg,
		clock:    deps.Clock,
		chain:    deps.Chain,
		rec:      deps.Recorder,
		arch:     &archiver{arch: deps.Archive, log: deps.Log},
		metrics:  deps.Metrics,
		done:     make(chan struct{}),
		sessions: make(map[string]*Session),
		inflight: make(map[string]struct{}),
	}, nil
}

// Recorder exposes the activity log for queries.
func (s *Store) Recorder() *Recorder { return s.rec }

// CreateInput is the command payload for Create.
type CreateInput struct {
	TargetAddress string
	TargetName    string
	Permissions   []string
	Duration      string // duration spec, e.g. "1h", "7d"
	ChainID       int64
}

// Create validates the input, computes the absolute expiry from the
// duration spec, submits the grant to the chain collaborator when one
// is wired, and inserts the session at the head of the collection.
// While the submission is awaited the session is visible as pending;
// a failed or cancelled submission leaves no trace.
func (s *Store) Create(ctx context.Context, in CreateInput) (Session, error) {
	const op = "sessions.Create"

	addr := strings.TrimSpace(in.TargetAddress)
	if err := ValidateAddress(addr); err != nil {
		return Session{}, err
	}
	perms, err := normalizePermissions(op, in.Permissions)
	if err != nil {
		return Session{}, err
	}
	ttl, err := ParseDurationSpec(in.Duration)
	if err != nil {
		return Session{}, err
	}

	now := s.clock.Now()
	sess := &Session{
		ID:            ids.New(),
		TargetAddress: addr,
		TargetName:    strings.TrimSpace(in.TargetName),
		Permissions:   perms,
		Expiry:        now.Add(ttl),
		Status:        StatusActive,
		CreatedAt:     now,
		ChainID:       in.ChainID,
		Pending:       s.chain != nil,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Session{}, OpError{Op: op, Kind: ErrCancelled, Msg: "store closed"}
	}
	s.sessions[sess.ID] = sess
	s.order = append([]string{sess.ID}, s.order...)
	s.inflight[sess.ID] = struct{}{}
	s.mu.Unlock()

	var txHash string
	if s.chain != nil {
		txHash, err = s.await(ctx, op, func(c context.Context) (string, error) {
			return s.chain.SubmitGrant(c, sess.clone())
		})
		if err != nil {
			s.discard(sess.ID)
			return Session{}, err
		}
	}

	s.mu.Lock()
	sess.Pending = false
	snap := sess.clone()
	active := s.countActiveLocked()
	delete(s.inflight, sess.ID)
	s.mu.Unlock()

	entry := s.rec.Record(snap.ID, ActionCreated,
		fmt.Sprintf("%d permissions, expires in %s", len(snap.Permissions), in.Duration), txHash)
	s.arch.saveSession(snap)
	s.arch.appendEntry(entry)
	s.metrics.incTransition(ActionCreated)
	s.metrics.setActive(active)

	s.log.Info("store.create",
		"session_id", snap.ID,
		"target", snap.TargetAddress,
		"chain_id", snap.ChainID,
		"expiry", snap.Expiry,
	)
	return snap, nil
}

// Revoke transitions an active session to revoked. The session stays
// in List output for the configured grace interval so observers can
// show the terminal state before it disappears. Revoking a terminal
// session fails with ErrConflict rather than succeeding silently, so
// callers can detect stale views.
func (s *Store) Revoke(ctx context.Context, id string) error {
	const op = "sessions.Revoke"

	if err := s.begin(op, id, true); err != nil {
		return err
	}

	var txHash string
	var err error
	if s.chain != nil {
		txHash, err = s.await(ctx, op, func(c context.Context) (string, error) {
			return s.chain.SubmitRevoke(c, id)
		})
		if err != nil {
			s.rollback(id)
			return err
		}
	}

	s.mu.Lock()
	sess := s.sessions[id]
	now := s.clock.Now()
	sess.Status = StatusRevoked
	revokedAt := now
	sess.RevokedAt = &revokedAt
	sess.Pending = false
	snap := sess.clone()
	active := s.countActiveLocked()
	delete(s.inflight, id)
	s.mu.Unlock()

	entry := s.rec.Record(id, ActionRevoked, "revoked by owner", txHash)
	s.arch.updateSession(snap)
	s.arch.appendEntry(entry)
	s.metrics.incTransition(ActionRevoked)
	s.metrics.setActive(active)

	s.log.Info("store.revoke", "session_id", id, "tx_hash", txHash)
	return nil
}

// Refresh extends an active session's expiry by the given duration
// spec ("" means the configured default). Extension is anchored at
// max(expiry, now) so an almost-elapsed window is never silently
// stretched from a stale expiry. The status re-check and the write
// happen under one critical section; a refresh can never resurrect a
// session the scheduler already expired.
func (s *Store) Refresh(ctx context.Context, id, extension string) (Session, error) {
	const op = "sessions.Refresh"

	if extension == "" {
		extension = s.cfg.DefaultExtension
	}
	ext, err := ParseDurationSpec(extension)
	if err != nil {
		return Session{}, err
	}
	if err := ctx.Err(); err != nil {
		return Session{}, OpError{Op: op, Kind: ErrCancelled, Msg: err.Error()}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Session{}, OpError{Op: op, Kind: ErrCancelled, Msg: "store closed"}
	}
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return Session{}, OpError{Op: op, Kind: ErrNotFound, Msg: id}
	}
	if sess.Status.Terminal() {
		s.mu.Unlock()
		return Session{}, OpError{Op: op, Kind: ErrConflict, Msg: fmt.Sprintf("session is %s", sess.Status)}
	}
	if _, busy := s.inflight[id]; busy {
		s.mu.Unlock()
		s.metrics.incConflict()
		return Session{}, OpError{Op: op, Kind: ErrConflict, Msg: "another command is in flight"}
	}

	now := s.clock.Now()
	base := sess.Expiry
	if base.Before(now) {
		base = now
	}
	sess.Expiry = base.Add(ext)
	snap := sess.clone()
	s.mu.Unlock()

	entry := s.rec.Record(id, ActionRefreshed, "extended by "+extension, "")
	s.arch.updateSession(snap)
	s.arch.appendEntry(entry)
	s.metrics.incTransition(ActionRefreshed)

	s.log.Info("store.refresh", "session_id", id, "expiry", snap.Expiry)
	return snap, nil
}

// MarkExecuted appends an executed entry for an active session, e.g.
// when the counterparty exercises a granted permission. It mutates no
// session state.
func (s *Store) MarkExecuted(id, txHash, details string) (Entry, error) {
	const op = "sessions.MarkExecuted"

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Entry{}, OpError{Op: op, Kind: ErrCancelled, Msg: "store closed"}
	}
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return Entry{}, OpError{Op: op, Kind: ErrNotFound, Msg: id}
	}
	if sess.Status.Terminal() {
		s.mu.Unlock()
		return Entry{}, OpError{Op: op, Kind: ErrConflict, Msg: fmt.Sprintf("session is %s", sess.Status)}
	}
	s.mu.Unlock()

	entry := s.rec.Record(id, ActionExecuted, details, txHash)
	s.arch.appendEntry(entry)
	s.metrics.incTransition(ActionExecuted)
	return entry, nil
}

// List returns a copy-on-read snapshot of the collection, most
// recently created first. Revoked sessions past their grace interval
// are purged on the way out.
func (s *Store) List() []Session {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeRevokedLocked(now)

	out := make([]Session, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.sessions[id].clone())
	}
	return out
}

// Get returns a snapshot of one session.
func (s *Store) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, OpError{Op: "sessions.Get", Kind: ErrNotFound, Msg: id}
	}
	return sess.clone(), nil
}

// Restore seeds the store with previously persisted sessions, newest
// first, without activity entries or collaborator calls. Non-active
// rows and duplicates are skipped.
func (s *Store) Restore(list []Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return OpError{Op: "sessions.Restore", Kind: ErrCancelled, Msg: "store closed"}
	}

	for _, sess := range list {
		if sess.Status != StatusActive || sess.ID == "" {
			continue
		}
		if _, dup := s.sessions[sess.ID]; dup {
			continue
		}
		cp := sess.clone()
		cp.Pending = false
		s.sessions[cp.ID] = &cp
		s.order = append(s.order, cp.ID)
	}

	s.metrics.setActive(s.countActiveLocked())
	return nil
}

// Close stops the store: outstanding collaborator awaits are cancelled
// and every later command fails with ErrCancelled. Idempotent.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.closeOnce.Do(func() { close(s.done) })
}

// expireDue flips every active session whose expiry elapsed and
// returns their snapshots, each at most once ever. Sessions with an
// in-flight command are skipped and re-evaluated next tick, keeping
// the per-id single-writer rule intact.
func (s *Store) expireDue(now time.Time) []Session {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}

	var flipped []Session
	for _, id := range s.order {
		sess := s.sessions[id]
		if sess.Status != StatusActive {
			continue
		}
		if _, busy := s.inflight[id]; busy {
			continue
		}
		if sess.Remaining(now) > 0 {
			continue
		}
		sess.Status = StatusExpired
		flipped = append(flipped, sess.clone())
	}
	active := s.countActiveLocked()
	s.mu.Unlock()

	for _, snap := range flipped {
		entry := s.rec.Record(snap.ID, ActionExpired, "expiry elapsed", "")
		s.arch.updateSession(snap)
		s.arch.appendEntry(entry)
		s.metrics.incTransition(ActionExpired)
		s.log.Info("store.expire", "session_id", snap.ID, "target", snap.TargetAddress)
	}
	s.metrics.setActive(active)
	return flipped
}

// purgeRevoked removes revoked sessions whose grace interval elapsed.
func (s *Store) purgeRevoked(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeRevokedLocked(now)
}

func (s *Store) purgeRevokedLocked(now time.Time) {
	kept := s.order[:0]
	for _, id := range s.order {
		sess := s.sessions[id]
		if sess.Status == StatusRevoked && sess.RevokedAt != nil &&
			!sess.RevokedAt.Add(s.cfg.RevokeGrace).After(now) {
			delete(s.sessions, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}

// begin acquires the per-id command slot for a mutation.
func (s *Store) begin(op, id string, pending bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return OpError{Op: op, Kind: ErrCancelled, Msg: "store closed"}
	}
	sess, ok := s.sessions[id]
	if !ok {
		return OpError{Op: op, Kind: ErrNotFound, Msg: id}
	}
	if sess.Status.Terminal() {
		return OpError{Op: op, Kind: ErrConflict, Msg: fmt.Sprintf("session is %s", sess.Status)}
	}
	if _, busy := s.inflight[id]; busy {
		s.metrics.incConflict()
		return OpError{Op: op, Kind: ErrConflict, Msg: "another command is in flight"}
	}

	s.inflight[id] = struct{}{}
	if pending {
		sess.Pending = true
	}
	return nil
}

// rollback releases the command slot leaving the session untouched.
func (s *Store) rollback(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.Pending = false
	}
	delete(s.inflight, id)
}

// discard removes a provisionally inserted session after a failed
// create submission.
func (s *Store) discard(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	delete(s.inflight, id)
	kept := s.order[:0]
	for _, oid := range s.order {
		if oid != id {
			kept = append(kept, oid)
		}
	}
	s.order = kept
}

// await runs a collaborator submission, cancelable by both the caller
// context and store close. Cancellation maps to ErrCancelled;
// collaborator errors pass through unchanged.
func (s *Store) await(ctx context.Context, op string, fn func(context.Context) (string, error)) (string, error) {
	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-s.done:
			cancel()
		case <-cctx.Done():
		}
	}()

	txHash, err := fn(cctx)
	if err != nil {
		if cctx.Err() != nil {
			return "", OpError{Op: op, Kind: ErrCancelled, Msg: "submission aborted"}
		}
		return "", err
	}
	return txHash, nil
}

func (s *Store) countActiveLocked() int {
	n := 0
	for _, sess := range s.sessions {
		if sess.Status == StatusActive {
			n++
		}
	}
	return n
}
