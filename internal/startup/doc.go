// Package startup loads the indexer configuration and prints the run
// banner, system information and configuration summary.
//
// # Configuration
//
// [LoadConfig] layers settings in this order, later sources winning:
//
//  1. Defaults: extensions jpg, jpeg, png, gif, bmp; table Index/paths.csv.
//  2. An optional YAML file with the keys include_directories,
//     exclude_directories, extensions, deep_scan, table_path, append,
//     thumbnail_dir, metrics_file and workers.
//  3. Environment variables:
//     - INDEXER_ROOTS: comma separated include directories
//     - INDEXER_EXCLUDE: comma separated excluded prefixes
//     - INDEXER_EXTENSIONS: comma separated extension allow-list
//     - INDEXER_DEEP_SCAN: compute grayscale averages (true/false)
//     - INDEXER_TABLE: output table path
//     - INDEXER_METRICS_FILE: Prometheus textfile written at exit
//     - INDEXER_WORKERS: worker count override (read by package workers)
//     - LOG_LEVEL / DEBUG: logging level (read by package logging)
//
// Command-line flags are applied on top by the command itself.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//   - Version: Application version
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//   - GoVersion: Go compiler version
//
// # Example Usage
//
//	cfg, err := startup.LoadConfig(*configPath)
//	if err != nil {
//	    logging.Error("Configuration error: %v", err)
//	    return 1
//	}
//	startup.LogStartup("index")
//	startup.LogConfig(cfg)
package startup
