package indexer

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"image-indexer/internal/imagestats"
	"image-indexer/internal/logging"
	"image-indexer/internal/media"
	"image-indexer/internal/scanner"
	"image-indexer/internal/table"
)

// ErrIndexInProgress is returned when Index is called while another run on
// the same Indexer has not finished.
var ErrIndexInProgress = errors.New("index already in progress")

// Options configures an Indexer.
type Options struct {
	Roots      []string
	Excludes   []string
	Extensions []string

	// DeepScan computes grayscale averages. When false every row is 0.
	DeepScan bool

	TablePath string

	// Append adds rows to an existing table instead of replacing it.
	Append bool
}

// Indexer runs the scan -> normalize -> average -> table pipeline and the
// thumbnail and statistics passes over scanned paths.
type Indexer struct {
	opts        Options
	scanner     *scanner.Scanner
	engine      *imagestats.Engine
	thumbnailer *media.Thumbnailer
	table       *table.Table

	indexMu    sync.Mutex
	isIndexing bool
}

// Summary describes one Index run.
type Summary struct {
	Scanned  int
	Written  int
	Zeroes   int
	Appended bool
	DeepScan bool
	ScanTime time.Duration
	Duration time.Duration
}

// New creates an Indexer. It fails only on an unusable extension list.
func New(opts Options) (*Indexer, error) {
	sc, err := scanner.New(opts.Roots, opts.Excludes, opts.Extensions)
	if err != nil {
		return nil, err
	}

	return &Indexer{
		opts:        opts,
		scanner:     sc,
		engine:      imagestats.New(),
		thumbnailer: media.NewThumbnailer(),
		table:       table.New(opts.TablePath),
	}, nil
}

// Scan walks the configured roots. Paths are returned as found, in no
// particular order.
func (idx *Indexer) Scan() scanner.Result {
	return idx.scanner.Scan()
}

// Index scans the roots, normalizes the paths and writes them with their
// averages to the table.
func (idx *Indexer) Index() (Summary, error) {
	if !idx.tryStartIndexing() {
		logging.Info("Index already in progress, skipping...")
		return Summary{}, ErrIndexInProgress
	}
	defer idx.finishIndexing()

	startTime := time.Now()
	logging.Info("Starting image indexing...")

	result := idx.Scan()
	paths := NormalizePaths(result.Paths)
	if dupes := len(result.Paths) - len(paths); dupes > 0 {
		logging.Debug("Dropped %d duplicate paths after normalization", dupes)
	}

	averages := idx.averagesFor(paths)

	var err error
	if idx.opts.Append {
		err = idx.table.Append(paths, averages)
	} else {
		err = idx.table.Write(paths, averages)
	}
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Scanned:  result.TotalFiles,
		Written:  len(paths),
		Zeroes:   countZeroes(averages),
		Appended: idx.opts.Append,
		DeepScan: idx.opts.DeepScan,
		ScanTime: result.Elapsed,
		Duration: time.Since(startTime),
	}

	logging.Info("Index complete: %d paths written to %s in %v", summary.Written, idx.table.Path(), summary.Duration)
	if summary.DeepScan && summary.Zeroes > 0 {
		logging.Warn("%d rows have average 0 (black or undecodable images)", summary.Zeroes)
	}

	return summary, nil
}

func (idx *Indexer) averagesFor(paths []string) []int {
	if !idx.opts.DeepScan {
		return make([]int, len(paths))
	}

	logging.Info("Computing grayscale averages for %d images", len(paths))
	start := time.Now()
	averages := idx.engine.CalculateAverages(paths)
	logging.Info("Averages computed in %v", time.Since(start))
	return averages
}

// RecomputeAverages reads the table at path, recomputes every average and
// writes the table back. It returns the number of rows.
func (idx *Indexer) RecomputeAverages(path string) (int, error) {
	tbl := table.New(path)

	paths, _, err := tbl.Read()
	if err != nil {
		return 0, err
	}

	averages := idx.ComputeAverages(paths)
	if err := tbl.Write(paths, averages); err != nil {
		return 0, err
	}

	logging.Info("Recomputed %d averages in %s", len(paths), path)
	return len(paths), nil
}

// ComputeAverages returns one grayscale average per path. Failures yield 0.
func (idx *Indexer) ComputeAverages(paths []string) []int {
	return idx.engine.CalculateAverages(paths)
}

// Statistics validates paths and returns the corpus summary.
func (idx *Indexer) Statistics(paths []string) imagestats.BatchStatistics {
	stats := idx.engine.BatchStatistics(paths)
	logging.Info("Corpus statistics: %s", stats)
	return stats
}

// tryStartIndexing attempts to start indexing, returns false if already in progress.
func (idx *Indexer) tryStartIndexing() bool {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()

	if idx.isIndexing {
		return false
	}
	idx.isIndexing = true
	return true
}

// finishIndexing marks indexing as complete.
func (idx *Indexer) finishIndexing() {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()

	idx.isIndexing = false
}

// NormalizePaths rewrites backslashes to forward slashes, drops duplicates
// and returns the paths sorted.
func NormalizePaths(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.ReplaceAll(p, `\`, "/")
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func countZeroes(values []int) int {
	n := 0
	for _, v := range values {
		if v == 0 {
			n++
		}
	}
	return n
}
