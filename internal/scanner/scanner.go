package scanner

import (
	"io/fs"
	"os"
	"sync"
	"time"

	"image-indexer/internal/logging"
	"image-indexer/internal/mediatypes"
	"image-indexer/internal/metrics"
	"image-indexer/internal/workers"

	"github.com/charlievieth/fastwalk"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one Scan call. Paths are in no particular order.
type Result struct {
	Paths      []string
	TotalFiles int
	Elapsed    time.Duration
}

// ElapsedMillis returns the scan duration in whole milliseconds.
func (r Result) ElapsedMillis() int64 {
	return r.Elapsed.Milliseconds()
}

// Scanner walks one or more roots and collects the image files that pass
// its PathFilter. Its configuration is fixed at construction.
type Scanner struct {
	roots      []string
	filter     PathFilter
	extensions mediatypes.ExtensionSet

	rootWorkers int
	walkWorkers int
}

// New creates a Scanner. extensions may be empty, in which case
// mediatypes.DefaultExtensions is used. The only error is an extension
// that can never match (KindInvalidExtension).
func New(roots, excludePrefixes, extensions []string) (*Scanner, error) {
	exts, err := mediatypes.NewExtensionSet(extensions)
	if err != nil {
		return nil, err
	}

	return &Scanner{
		roots:       append([]string(nil), roots...),
		filter:      NewPathFilter(excludePrefixes, exts),
		extensions:  exts,
		rootWorkers: workers.ForIO(len(roots)),
		walkWorkers: workers.ForIO(0),
	}, nil
}

// Extensions returns the normalized allow-list.
func (s *Scanner) Extensions() mediatypes.ExtensionSet {
	return s.extensions
}

// Scan walks every root concurrently and returns the union of matching
// paths. It never fails: unreadable entries and unusable roots are logged
// at debug/warn level and contribute nothing.
func (s *Scanner) Scan() Result {
	start := time.Now()
	metrics.ScanRunsTotal.Inc()

	perRoot := make([][]string, len(s.roots))

	var g errgroup.Group
	g.SetLimit(max(s.rootWorkers, 1))
	for i, root := range s.roots {
		g.Go(func() error {
			perRoot[i] = s.scanRoot(root)
			return nil
		})
	}
	_ = g.Wait() // scanRoot never returns an error

	var paths []string
	for _, p := range perRoot {
		paths = append(paths, p...)
	}

	elapsed := time.Since(start)
	metrics.ScanDuration.Observe(elapsed.Seconds())
	metrics.ScanFilesMatched.Add(float64(len(paths)))

	logging.Info("Scanned %d root(s): %d files matched in %v", len(s.roots), len(paths), elapsed)

	return Result{
		Paths:      paths,
		TotalFiles: len(paths),
		Elapsed:    elapsed,
	}
}

// scanRoot walks a single root. fastwalk invokes the callback from several
// goroutines, so matches are collected under a mutex.
func (s *Scanner) scanRoot(root string) []string {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		metrics.ScanRootsUnavailable.Inc()
		if err != nil {
			logging.Warn("Skipping scan root %s: %v", root, err)
		} else {
			logging.Warn("Skipping scan root %s: not a directory", root)
		}
		return nil
	}

	var (
		mu      sync.Mutex
		matches []string
	)

	conf := fastwalk.Config{Follow: false, NumWorkers: s.walkWorkers}
	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			metrics.ScanEntriesSkipped.WithLabelValues("unreadable").Inc()
			logging.Debug("Skipping unreadable entry %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			// nothing below an excluded directory can match
			if s.filter.IsExcluded(path) {
				metrics.ScanEntriesSkipped.WithLabelValues(string(SkipExcluded)).Inc()
				return fastwalk.SkipDir
			}
			return nil
		}

		mode := d.Type()
		if mode&fs.ModeSymlink != 0 {
			target, err := fastwalk.StatDirEntry(path, d)
			if err != nil {
				metrics.ScanEntriesSkipped.WithLabelValues("unreadable").Inc()
				logging.Debug("Skipping dangling link %s: %v", path, err)
				return nil
			}
			mode = target.Mode()
		}

		if reason := s.filter.Check(path, mode); reason != Accepted {
			metrics.ScanEntriesSkipped.WithLabelValues(string(reason)).Inc()
			return nil
		}

		mu.Lock()
		matches = append(matches, path)
		mu.Unlock()
		return nil
	}

	if err := fastwalk.Walk(&conf, root, walkFn); err != nil {
		logging.Warn("Walk of %s ended early: %v", root, err)
	}

	logging.Debug("Root %s: %d matches", root, len(matches))
	return matches
}
