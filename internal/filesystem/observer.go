package filesystem

import "sync/atomic"

// Observer records filesystem operation metrics. Implementations are provided
// by the metrics package to break the import cycle between filesystem and metrics.
type Observer interface {
	// ObserveOperation records duration and error status for a filesystem operation.
	// operation is one of OpStat, OpReadDir, OpReadFile.
	ObserveOperation(operation string, durationSeconds float64, err error)

	ObserveRetryAttempt(operation string)
	ObserveRetrySuccess(operation string)
	ObserveRetryFailure(operation string)
	ObserveStaleError(operation string)
}

// observerHolder wraps the interface so atomic.Value always stores one concrete type.
type observerHolder struct {
	o Observer
}

var defaultObserver atomic.Value

// SetObserver sets the package-level metrics observer.
// Call this once at startup after creating the observer implementation.
func SetObserver(o Observer) {
	defaultObserver.Store(observerHolder{o: o})
}

// observe returns the package-level observer, or nil when none is set
// (metric recording is then skipped, which keeps tests free of globals).
func observe() Observer {
	h, ok := defaultObserver.Load().(observerHolder)
	if !ok {
		return nil
	}
	return h.o
}
