// Package imagestats computes per-image statistics and corpus summaries.
//
// Engine exposes single-item calls that return typed errors and a tolerant
// batch call, CalculateAverages, that replaces any per-item failure with 0
// and always returns one value per input in input order. A stored 0 is
// therefore ambiguous: it means either a black image or a decode failure.
// Failures are logged at debug level so they can be told apart after the
// fact.
//
// BatchStatistics reduces ValidateImage results sequentially through an
// Aggregator. Invalid images count toward TotalFiles only.
package imagestats
