package metrics

import "image-indexer/internal/filesystem"

// filesystemObserver implements filesystem.Observer using the Prometheus
// metrics declared in this package.
type filesystemObserver struct{}

// NewFilesystemObserver creates an observer that records filesystem retry metrics.
func NewFilesystemObserver() filesystem.Observer {
	return &filesystemObserver{}
}

func (o *filesystemObserver) ObserveRetryAttempt(op string) {
	FilesystemRetryAttempts.WithLabelValues(op).Inc()
}

func (o *filesystemObserver) ObserveRetrySuccess(op string) {
	FilesystemRetrySuccess.WithLabelValues(op).Inc()
}

func (o *filesystemObserver) ObserveRetryFailure(op string) {
	FilesystemRetryFailures.WithLabelValues(op).Inc()
}

func (o *filesystemObserver) ObserveRetryDuration(op string, durationSeconds float64) {
	FilesystemRetryDuration.WithLabelValues(op).Observe(durationSeconds)
}

func (o *filesystemObserver) ObserveStaleError(op string) {
	FilesystemStaleErrors.WithLabelValues(op).Inc()
}
