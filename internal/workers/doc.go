/*
Package workers sizes and runs the worker pools used by the indexer.

# Sizing

Count derives a pool size from runtime.GOMAXPROCS, which follows container
CPU limits, scaled by a per-workload multiplier:

	numWorkers := workers.ForCPU(0) // decode-heavy work, 1 per CPU
	numWorkers := workers.ForIO(16) // traversal, 2 per CPU, at most 16

Operators can pin the size with INDEXER_WORKERS:

	INDEXER_WORKERS=4 image-indexer index -root /data/images

# Ordered fan-out

Map distributes items over a fixed pool and writes each result into the slot
of its input, so the returned slice always lines up with the input slice no
matter which worker finishes first:

	averages := workers.Map(paths, workers.ForCPU(0), func(_ int, p string) int {
		return averageOrZero(p)
	})

Map never fails: fn decides how per-item errors are represented. Batches that
must abort on the first error use errgroup instead.
*/
package workers
