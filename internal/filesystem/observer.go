package filesystem

import "sync/atomic"

// Observer records retry metrics. The metrics package provides the
// implementation so that filesystem does not import it.
type Observer interface {
	ObserveRetryAttempt(op string)
	ObserveRetrySuccess(op string)
	ObserveRetryFailure(op string)
	ObserveRetryDuration(op string, durationSeconds float64)
	ObserveStaleError(op string)
}

type observerHolder struct{ o Observer }

var defaultObserver atomic.Pointer[observerHolder]

// SetObserver sets the package-level metrics observer. A nil observer
// disables recording.
func SetObserver(o Observer) {
	defaultObserver.Store(&observerHolder{o: o})
}

// observe returns the current observer, or nil if none is set.
func observe() Observer {
	if h := defaultObserver.Load(); h != nil {
		return h.o
	}
	return nil
}
