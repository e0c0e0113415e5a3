package sessions

import "context"

// ChainClient is the on-chain authorization collaborator. The engine
// submits grants and revocations through it and awaits confirmation
// before committing the matching state change.
//
// Implementations surface retryable failures via TransientError; the
// engine never retries on its own.
type ChainClient interface {
	// SubmitGrant registers a session grant and returns its tx hash.
	SubmitGrant(ctx context.Context, s Session) (txHash string, err error)

	// SubmitRevoke revokes a grant by session ID and returns its tx hash.
	SubmitRevoke(ctx context.Context, sessionID string) (txHash string, err error)
}
