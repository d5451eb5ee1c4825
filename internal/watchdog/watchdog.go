package watchdog

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrInvalidTimeout is returned when the timeout is zero or negative.
	ErrInvalidTimeout = errors.New("watchdog timeout must be positive")
	// ErrNilCallback is returned when no callback is provided.
	ErrNilCallback = errors.New("watchdog callback must be provided")
)

// Watchdog enforces a liveness contract: unless Reset is called within the
// timeout of the previous arm, the callback is invoked once for that window.
//
// Reset and Cancel are safe to call from any goroutine and never block on the
// callback. The only race left open is documented on Cancel: an expiry whose
// dispatch has already passed its liveness check may still run to completion.
type Watchdog struct {
	// timeout is the heartbeat deadline applied on every arm.
	timeout time.Duration
	// callback is invoked once per un-reset window. Not owned: its panics
	// are contained and logged, never propagated to the timer goroutine.
	callback func()
	// log receives the expiry warning and callback failure reports.
	log *zap.SugaredLogger

	// mu guards timer and generation. Expiry handlers hold it only for the
	// liveness check, so a slow callback cannot stall Reset callers.
	mu sync.Mutex
	// timer is the single outstanding deadline timer, nil when disarmed.
	timer *time.Timer
	// generation invalidates stale expiries: each Reset/Cancel bumps it, and
	// an expiry only fires if the generation it captured is still current.
	generation uint64
}

// New constructs a watchdog and immediately arms the first deadline.
func New(timeout time.Duration, callback func(), log *zap.SugaredLogger) (*Watchdog, error) {
	if timeout <= 0 {
		return nil, ErrInvalidTimeout
	}

	if callback == nil {
		return nil, ErrNilCallback
	}

	if log == nil {
		log = zap.NewNop().Sugar()
	}

	w := &Watchdog{
		timeout:  timeout,
		callback: callback,
		log:      log,
	}

	w.Reset()

	return w, nil
}

// Reset atomically replaces the pending deadline with a fresh one, a full
// timeout from now. A Reset that returns before an expiry's liveness check
// prevents that expiry from invoking the callback; a Reset that lands after
// the callback was dispatched only affects future windows.
func (w *Watchdog) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.arm()
}

// Cancel disarms the watchdog. Once Cancel returns, no callback invocation
// will occur, except for an expiry whose dispatch had already passed its
// liveness check concurrently with the call; that one runs to completion.
// Cancel is idempotent and not terminal: a later Reset re-arms.
func (w *Watchdog) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.generation++

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// Timeout returns the configured heartbeat deadline.
func (w *Watchdog) Timeout() time.Duration {
	return w.timeout
}

// arm replaces the pending timer under w.mu.
func (w *Watchdog) arm() {
	w.generation++

	if w.timer != nil {
		w.timer.Stop()
	}

	gen := w.generation
	w.timer = time.AfterFunc(w.timeout, func() {
		w.expire(gen)
	})
}

// expire runs on the timer goroutine. It holds the lock only long enough to
// decide whether this expiry is still the current one, then invokes the
// callback outside the lock.
func (w *Watchdog) expire(gen uint64) {
	w.mu.Lock()

	if gen != w.generation {
		// A Reset or Cancel replaced this deadline before it fired.
		w.mu.Unlock()
		return
	}

	// Expired: no auto re-arm, the next Reset starts a new window.
	w.timer = nil
	w.mu.Unlock()

	w.log.Warnf("Watchdog expired after %s without a heartbeat", w.timeout)

	defer func() {
		if r := recover(); r != nil {
			w.log.Errorf("Watchdog callback panicked: %v", r)
		}
	}()

	w.callback()
}
