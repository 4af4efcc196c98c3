package metrics

// SkipReasons are the label values of ScanEntriesSkipped.
var SkipReasons = []string{"not_regular", "excluded", "resource_fork", "extension", "unreadable"}

// InitializeMetrics pre-populates all expected label combinations so that
// every series appears in the exported textfile even when it stayed at zero.
func InitializeMetrics() {
	for _, reason := range SkipReasons {
		ScanEntriesSkipped.WithLabelValues(reason)
	}

	for _, op := range []string{"average", "dimensions", "validate", "thumbnail"} {
		ImageOperationsTotal.WithLabelValues(op, "success")
		ImageOperationsTotal.WithLabelValues(op, "error")
		ImageDecodeDuration.WithLabelValues(op)
	}

	for _, status := range []string{"success", "aborted"} {
		ThumbnailBatchesTotal.WithLabelValues(status)
	}

	for _, op := range []string{"averages", "thumbnails", "statistics"} {
		BatchSize.WithLabelValues(op)
	}

	for _, op := range []string{"read", "write", "append"} {
		TableRowsTotal.WithLabelValues(op)
	}

	for _, op := range []string{"stat", "open"} {
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetrySuccess.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
		FilesystemRetryDuration.WithLabelValues(op)
	}
}
