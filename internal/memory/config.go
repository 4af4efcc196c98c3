package memory

import (
	"math"
	"os"
	"runtime/debug"
	"strconv"

	"image-indexer/internal/logging"
	"image-indexer/internal/metrics"

	"github.com/dustin/go-humanize"
)

const (
	// DefaultMemoryRatio is the share of the container limit given to the Go
	// heap. The remainder covers goroutine stacks and decode buffers in flight.
	DefaultMemoryRatio = 0.85

	sourceGOMEMLIMIT  = "GOMEMLIMIT"
	sourceMemoryLimit = "MEMORY_LIMIT"
	sourceNone        = "none"
)

// ConfigResult holds the result of memory configuration
type ConfigResult struct {
	// Configured indicates whether a memory limit is in effect
	Configured bool

	// Source is "GOMEMLIMIT", "MEMORY_LIMIT", or "none"
	Source string

	// ContainerLimit is the container memory limit in bytes (0 if not set)
	ContainerLimit int64

	// GoMemLimit is the effective Go memory limit in bytes (0 if not set)
	GoMemLimit int64

	// Ratio is the memory ratio used (0 if not applicable)
	Ratio float64
}

// ConfigureFromEnv sets the Go memory limit from the container limit.
// Call it before the first batch starts decoding.
//
// Environment variables:
//   - GOMEMLIMIT: if set, the runtime already applied it and nothing changes
//   - MEMORY_LIMIT: container memory limit in bytes
//   - MEMORY_RATIO: share of MEMORY_LIMIT for the Go heap (default 0.85)
func ConfigureFromEnv() ConfigResult {
	result := ConfigResult{Source: sourceNone}

	if goMemLimitEnv := os.Getenv("GOMEMLIMIT"); goMemLimitEnv != "" {
		if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
			result.Configured = true
			result.Source = sourceGOMEMLIMIT
			result.GoMemLimit = limit
			metrics.GoMemLimitBytes.Set(float64(limit))
		}
		logging.Info("GOMEMLIMIT set via environment: %s", goMemLimitEnv)
		return result
	}

	memLimitStr := os.Getenv("MEMORY_LIMIT")
	if memLimitStr == "" {
		logging.Debug("MEMORY_LIMIT not set, GOMEMLIMIT will not be configured automatically")
		return result
	}

	memLimit, err := strconv.ParseInt(memLimitStr, 10, 64)
	if err != nil || memLimit <= 0 {
		logging.Warn("Invalid MEMORY_LIMIT %q, GOMEMLIMIT not configured", memLimitStr)
		return result
	}

	result.ContainerLimit = memLimit
	result.Ratio = parseRatio(os.Getenv("MEMORY_RATIO"))

	goMemLimit := int64(float64(memLimit) * result.Ratio)
	debug.SetMemoryLimit(goMemLimit)

	result.Configured = true
	result.Source = sourceMemoryLimit
	result.GoMemLimit = goMemLimit
	metrics.GoMemLimitBytes.Set(float64(goMemLimit))

	logging.Info("Configured GOMEMLIMIT: %s (%.1f%% of %s container limit)",
		humanize.IBytes(uint64(goMemLimit)),
		result.Ratio*100,
		humanize.IBytes(uint64(memLimit)),
	)

	return result
}

// parseRatio returns MEMORY_RATIO when it lies in (0, 1], else the default.
func parseRatio(s string) float64 {
	if s == "" {
		return DefaultMemoryRatio
	}

	ratio, err := strconv.ParseFloat(s, 64)
	if err != nil {
		logging.Warn("Failed to parse MEMORY_RATIO %q: %v, using default %.2f", s, err, DefaultMemoryRatio)
		return DefaultMemoryRatio
	}
	if ratio <= 0 || ratio > 1.0 {
		logging.Warn("MEMORY_RATIO %q out of range (0.0-1.0), using default %.2f", s, DefaultMemoryRatio)
		return DefaultMemoryRatio
	}
	return ratio
}
