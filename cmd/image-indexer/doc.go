// Command image-indexer discovers images under one or more directories and
// produces the path/average table and thumbnail buffers consumed by
// downstream machine-learning pipelines.
//
// Usage:
//
//	image-indexer <command> [flags]
//
// Commands:
//
//	scan      Print every matching image path, one per line. Order is not
//	          stable between runs.
//
//	index     Scan, normalize paths and write the table. With -deep the
//	          grayscale average of each image is computed; images that
//	          cannot be decoded are stored as 0. With -append rows are added
//	          to an existing table.
//
//	averages  Read a table (positional argument or -table), recompute every
//	          average and rewrite it.
//
//	thumbs    Scan and export each image as a raw RGB buffer fitted into
//	          224x224, named <index>_<w>x<h>.rgb under -out. One unreadable
//	          image aborts the export.
//
//	stats     Validate the scanned (or tabled) images and print counts,
//	          total size and average dimensions.
//
// Settings come from defaults, then -config (YAML), then INDEXER_*
// environment variables, then flags. See package startup for the keys.
// When -metrics-file is set, Prometheus metrics for the run are written
// there in text format on exit.
package main
