// Package watchdog implements the liveness deadline that guards the agent.
//
// A Watchdog is armed at construction and re-armed by Reset. If a full
// timeout elapses with no Reset, the callback fires exactly once for that
// window; the watchdog then stays quiet until the next Reset. Cancel disarms
// without terminating the instance.
//
// The implementation keeps a single owned time.Timer plus a generation
// counter; an expiry only fires when the generation it captured is still
// current, which closes the reset-versus-expiry race without holding the
// lock across the callback.
package watchdog
