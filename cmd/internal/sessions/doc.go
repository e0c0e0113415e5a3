// Package sessions implements warden's session lifecycle engine.
//
// A session is a time-bound, revocable grant of a permission set to a
// target address on a given network. The Store owns the session
// collection and serializes mutations per session ID; the Scheduler
// drives clock-based expiry with exactly-once notifications; the
// Recorder keeps the append-only activity log.
//
// On-chain submission and durable persistence are collaborators behind
// the ChainClient and Archive interfaces. Rendering and transport are
// intentionally out of scope here.
package sessions
