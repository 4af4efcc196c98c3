package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scanner metrics
var (
	ScanRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_indexer_scan_runs_total",
			Help: "Total number of directory scans",
		},
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "image_indexer_scan_duration_seconds",
			Help:    "Wall-clock duration of a full multi-root scan",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300, 900},
		},
	)

	ScanFilesMatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_indexer_scan_files_matched_total",
			Help: "Total number of files accepted by the path filter",
		},
	)

	ScanEntriesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_indexer_scan_entries_skipped_total",
			Help: "Entries rejected during traversal, by reason",
		},
		[]string{"reason"}, // "not_regular", "excluded", "resource_fork", "extension", "unreadable"
	)

	ScanRootsUnavailable = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_indexer_scan_roots_unavailable_total",
			Help: "Scan roots that were missing or not directories",
		},
	)
)

// Image processing metrics
var (
	ImageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_indexer_image_operations_total",
			Help: "Per-image operations by operation and outcome",
		},
		[]string{"operation", "status"}, // operation: "average", "dimensions", "validate", "thumbnail"
	)

	ImageDecodeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_indexer_image_decode_duration_seconds",
			Help:    "Time spent decoding a single image",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"},
	)

	ThumbnailBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_indexer_thumbnail_batches_total",
			Help: "Thumbnail batches by outcome",
		},
		[]string{"status"}, // "success", "aborted"
	)

	BatchSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_indexer_batch_size_items",
			Help:    "Number of items submitted per batch call",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
		[]string{"operation"}, // "averages", "thumbnails", "statistics"
	)
)

// Corpus summary metrics, set from the last batch statistics run
var (
	CorpusFiles = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "image_indexer_corpus_files",
			Help: "Files in the last statistics run",
		},
		[]string{"state"}, // "total", "valid"
	)

	CorpusSizeBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_indexer_corpus_size_bytes",
			Help: "Total size of valid images in the last statistics run",
		},
	)

	CorpusAverageDimension = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "image_indexer_corpus_average_dimension_pixels",
			Help: "Average width and height of valid images in the last statistics run",
		},
		[]string{"axis"}, // "width", "height"
	)
)

// Table persistence metrics
var (
	TableRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_indexer_table_rows_total",
			Help: "Rows read or written by the path/average table",
		},
		[]string{"operation"}, // "read", "write", "append"
	)

	TableRowsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_indexer_table_rows_skipped_total",
			Help: "Table rows skipped on read because they had fewer than two fields",
		},
	)
)

// Filesystem retry metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_indexer_filesystem_retry_attempts_total",
			Help: "Retry attempts after ESTALE errors",
		},
		[]string{"operation"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_indexer_filesystem_retry_success_total",
			Help: "Operations that succeeded after at least one retry",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_indexer_filesystem_retry_failures_total",
			Help: "Operations that failed after exhausting retries",
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_indexer_filesystem_stale_errors_total",
			Help: "ESTALE errors observed",
		},
		[]string{"operation"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_indexer_filesystem_retry_duration_seconds",
			Help:    "Total time spent in a filesystem operation including retries",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
		[]string{"operation"},
	)
)

// Runtime metrics
var (
	GoMemLimitBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_indexer_go_memory_limit_bytes",
			Help: "Go runtime memory limit applied at startup, 0 when unset",
		},
	)
)

// RecordCorpus publishes the result of a batch statistics run.
func RecordCorpus(total, valid int, sizeBytes int64, avgWidth, avgHeight int) {
	CorpusFiles.WithLabelValues("total").Set(float64(total))
	CorpusFiles.WithLabelValues("valid").Set(float64(valid))
	CorpusSizeBytes.Set(float64(sizeBytes))
	CorpusAverageDimension.WithLabelValues("width").Set(float64(avgWidth))
	CorpusAverageDimension.WithLabelValues("height").Set(float64(avgHeight))
}

// WriteTextfile writes every registered metric to path in the text exposition
// format, for the node_exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
