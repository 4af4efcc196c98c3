package workers

import (
	"os"
	"runtime"
	"strconv"
	"sync"
)

// OverrideEnv is the environment variable that pins the worker count.
const OverrideEnv = "INDEXER_WORKERS"

// Count returns the number of workers for a given task type.
// It respects container CPU limits via GOMAXPROCS.
//
// The multiplier adjusts for task characteristics:
//   - 1.0 for CPU-bound tasks (decode, grayscale, resize)
//   - 2.0 for I/O-bound tasks (directory traversal)
//
// The limit parameter caps the worker count. Use 0 for no limit.
// INDEXER_WORKERS overrides the calculation when set to a positive integer.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv(OverrideEnv); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	available := runtime.GOMAXPROCS(0)

	workers := int(float64(available) * multiplier)

	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}

	return workers
}

// ForCPU returns worker count for CPU-bound tasks (1 per CPU).
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// ForIO returns worker count for I/O-bound tasks (2 per CPU).
func ForIO(limit int) int {
	return Count(2.0, limit)
}

// Map runs fn over items on n goroutines and returns the results in input
// order. fn receives the item index so callers can log or label per item.
// Map blocks until every item has been processed.
func Map[T, R any](items []T, n int, fn func(i int, item T) R) []R {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results
	}
	if n < 1 {
		n = 1
	}
	if n > len(items) {
		n = len(items)
	}

	jobs := make(chan int, n)
	var wg sync.WaitGroup
	for w := 0; w < n; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				// each index is written by exactly one worker
				results[i] = fn(i, items[i])
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
