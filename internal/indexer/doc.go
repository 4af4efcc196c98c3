// Package indexer wires the scanner, the statistics engine, the thumbnailer
// and the table into the runs exposed by the command line.
//
// Index scans every root, normalizes the found paths (backslashes become
// slashes, duplicates are dropped, output is sorted) and writes them to the
// table. With DeepScan the grayscale average of each image is computed in
// parallel; failures are stored as 0. Without it every average is 0.
//
// ExportThumbnails is fail-fast: one undecodable image stops the export.
package indexer
