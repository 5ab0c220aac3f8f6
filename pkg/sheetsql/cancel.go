package sheetsql

import "sync/atomic"

// CancelToken is a cooperative cancellation flag.
// Stages poll it at their checkpoints; setting it never interrupts a call
// that is already running. A nil token is never cancelled.
type CancelToken struct {
	flag atomic.Bool
}

// Cancel requests cancellation.
func (t *CancelToken) Cancel() {
	t.flag.Store(true)
}

// Reset clears a previous request.
func (t *CancelToken) Reset() {
	t.flag.Store(false)
}

// Cancelled reports whether cancellation was requested.
func (t *CancelToken) Cancelled() bool {
	return t != nil && t.flag.Load()
}

// Check returns ErrCancelled if cancellation was requested.
func (t *CancelToken) Check() error {
	if t.Cancelled() {
		return ErrCancelled
	}
	return nil
}
