package sessions

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// SimChainClient is an in-process ChainClient used when no real chain
// integration is configured, and by tests. Tx hashes are deterministic
// per submission; Delay and FailNext make confirmation latency and
// transient failures reproducible.
type SimChainClient struct {
	// Delay simulates confirmation latency per submission.
	Delay time.Duration

	mu       sync.Mutex
	failNext error
	seq      uint64
}

// NewSimChainClient constructs a SimChainClient with no latency.
func NewSimChainClient() *SimChainClient { return &SimChainClient{} }

// FailNext makes the next submission return err instead of a tx hash.
func (c *SimChainClient) FailNext(err error) {
	c.mu.Lock()
	c.failNext = err
	c.mu.Unlock()
}

// SubmitGrant simulates registering a session grant on-chain.
func (c *SimChainClient) SubmitGrant(ctx context.Context, s Session) (string, error) {
	return c.submit(ctx, "grant", s.ID)
}

// SubmitRevoke simulates revoking a grant on-chain.
func (c *SimChainClient) SubmitRevoke(ctx context.Context, sessionID string) (string, error) {
	return c.submit(ctx, "revoke", sessionID)
}

func (c *SimChainClient) submit(ctx context.Context, kind, id string) (string, error) {
	if c.Delay > 0 {
		t := time.NewTimer(c.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.C:
		}
	} else if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.Lock()
	if err := c.failNext; err != nil {
		c.failNext = nil
		c.mu.Unlock()
		return "", err
	}
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%d", kind, id, seq)))
	return "0x" + hex.EncodeToString(sum[:]), nil
}
