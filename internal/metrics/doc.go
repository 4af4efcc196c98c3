// Package metrics provides Prometheus instrumentation for the image indexer.
//
// All metrics are prefixed with "image_indexer_" and registered on the default
// registry through promauto.
//
// # Metric Categories
//
// Scanner:
//   - ScanRunsTotal, ScanDuration, ScanFilesMatched
//   - ScanEntriesSkipped by reason (not_regular, excluded, resource_fork, extension, unreadable)
//   - ScanRootsUnavailable
//
// Image processing:
//   - ImageOperationsTotal by operation (average, dimensions, validate, thumbnail) and status
//   - ImageDecodeDuration by operation
//   - ThumbnailBatchesTotal by status (success, aborted)
//   - BatchSize by batch operation
//
// Corpus summary (set by RecordCorpus after batch statistics):
//   - CorpusFiles, CorpusSizeBytes, CorpusAverageDimension
//
// Table persistence:
//   - TableRowsTotal by operation, TableRowsSkipped
//
// Runtime:
//   - GoMemLimitBytes, set when package memory applies a limit
//
// Filesystem retries (via NewFilesystemObserver):
//   - FilesystemRetryAttempts, FilesystemRetrySuccess, FilesystemRetryFailures,
//     FilesystemStaleErrors, FilesystemRetryDuration
//
// # Export
//
// The indexer is a batch command rather than a server, so metrics are written
// once at the end of a run with WriteTextfile, in the format read by the
// node_exporter textfile collector:
//
//	metrics.InitializeMetrics()
//	filesystem.SetObserver(metrics.NewFilesystemObserver())
//	// ... run ...
//	if err := metrics.WriteTextfile("/var/lib/node_exporter/image_indexer.prom"); err != nil {
//	    logging.Warn("metrics export failed: %v", err)
//	}
package metrics
