package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"image-indexer/internal/filesystem"
	"image-indexer/internal/indexer"
	"image-indexer/internal/logging"
	"image-indexer/internal/memory"
	"image-indexer/internal/metrics"
	"image-indexer/internal/startup"
	"image-indexer/internal/table"

	"github.com/dustin/go-humanize"
)

var errUsage = errors.New("usage error")

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// options holds the parsed command-line flags of one invocation.
type options struct {
	configPath  string
	roots       stringList
	excludes    stringList
	extensions  string
	tablePath   string
	deepScan    bool
	appendRows  bool
	outDir      string
	metricsFile string
	logLevel    string

	set  map[string]bool
	args []string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 2
	}

	command := args[0]
	switch command {
	case "help", "-h", "-help", "--help":
		printUsage(stdout)
		return 0
	case "scan", "index", "averages", "thumbs", "stats":
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", sanitizeCommand(command))
		printUsage(stderr)
		return 2
	}

	opts, err := parseFlags(command, args[1:], stderr)
	if err != nil {
		return 2
	}

	if opts.logLevel != "" {
		level, ok := logging.ParseLevel(opts.logLevel)
		if !ok {
			fmt.Fprintf(stderr, "Error: unknown log level %q\n", opts.logLevel)
			return 2
		}
		logging.SetLevel(level)
	}

	cfg, err := startup.LoadConfig(opts.configPath)
	if err != nil {
		logging.Error("Configuration error: %v", err)
		return 1
	}
	opts.applyTo(cfg)
	cfg.ApplyWorkers()

	metrics.InitializeMetrics()
	filesystem.SetObserver(metrics.NewFilesystemObserver())

	startTime := time.Now()
	startup.LogStartup(command)
	startup.LogConfig(cfg)
	memory.ConfigureFromEnv()

	err = dispatch(command, cfg, opts, stdout)

	if cfg.MetricsFile != "" {
		if werr := metrics.WriteTextfile(cfg.MetricsFile); werr != nil {
			logging.Warn("Failed to write metrics file %s: %v", cfg.MetricsFile, werr)
		} else {
			logging.Debug("Metrics written to %s", cfg.MetricsFile)
		}
	}

	if err != nil {
		if errors.Is(err, errUsage) {
			printUsage(stderr)
			return 2
		}
		logging.Error("%s failed: %v", command, err)
		return 1
	}

	startup.LogRunComplete(strings.ToUpper(command), time.Since(startTime))
	return 0
}

func dispatch(command string, cfg *startup.Config, opts *options, stdout io.Writer) error {
	requireRoots := command != "averages" && command != "stats"
	if err := cfg.Validate(requireRoots); err != nil {
		return err
	}

	idx, err := indexer.New(indexer.Options{
		Roots:      cfg.Roots,
		Excludes:   cfg.Excludes,
		Extensions: cfg.Extensions,
		DeepScan:   cfg.DeepScan,
		TablePath:  cfg.TablePath,
		Append:     cfg.Append,
	})
	if err != nil {
		return err
	}

	switch command {
	case "scan":
		return runScan(idx, stdout)
	case "index":
		return runIndex(idx, cfg, stdout)
	case "averages":
		return runAverages(idx, cfg, opts, stdout)
	case "thumbs":
		return runThumbs(idx, cfg, stdout)
	case "stats":
		return runStats(idx, cfg, stdout)
	}
	return errUsage
}

func runScan(idx *indexer.Indexer, stdout io.Writer) error {
	result := idx.Scan()
	for _, p := range result.Paths {
		fmt.Fprintln(stdout, p)
	}
	logging.Info("Scanned %s images in %dms", humanize.Comma(int64(result.TotalFiles)), result.ElapsedMillis())
	return nil
}

func runIndex(idx *indexer.Indexer, cfg *startup.Config, stdout io.Writer) error {
	if err := startup.PrepareOutputDir(filepath.Dir(cfg.TablePath), "table"); err != nil {
		return err
	}

	summary, err := idx.Index()
	if err != nil {
		return err
	}

	verb := "written to"
	if summary.Appended {
		verb = "appended to"
	}
	noun := "Image paths"
	if summary.DeepScan {
		noun = "Image paths and averages"
	}
	fmt.Fprintf(stdout, "%s %s %s (%s rows)\n", noun, verb, cfg.TablePath, humanize.Comma(int64(summary.Written)))
	return nil
}

func runAverages(idx *indexer.Indexer, cfg *startup.Config, opts *options, stdout io.Writer) error {
	path := cfg.TablePath
	switch len(opts.args) {
	case 0:
	case 1:
		path = opts.args[0]
	default:
		return errUsage
	}

	n, err := idx.RecomputeAverages(path)
	if err != nil {
		return err
	}

	size, err := table.New(path).Size()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Recomputed %s averages in %s (%s)\n",
		humanize.Comma(int64(n)), path, humanize.IBytes(uint64(size)))
	return nil
}

func runThumbs(idx *indexer.Indexer, cfg *startup.Config, stdout io.Writer) error {
	if cfg.ThumbnailDir == "" {
		return fmt.Errorf("no thumbnail output directory: set -out or thumbnail_dir")
	}
	if err := startup.PrepareOutputDir(cfg.ThumbnailDir, "thumbnail"); err != nil {
		return err
	}

	paths := indexer.NormalizePaths(idx.Scan().Paths)
	n, err := idx.ExportThumbnails(paths, cfg.ThumbnailDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Exported %s thumbnails to %s\n", humanize.Comma(int64(n)), cfg.ThumbnailDir)
	return nil
}

func runStats(idx *indexer.Indexer, cfg *startup.Config, stdout io.Writer) error {
	var paths []string
	if len(cfg.Roots) > 0 {
		paths = indexer.NormalizePaths(idx.Scan().Paths)
	} else {
		var err error
		paths, _, err = table.New(cfg.TablePath).Read()
		if err != nil {
			return err
		}
	}

	stats := idx.Statistics(paths)
	fmt.Fprintf(stdout, "Files:          %s\n", humanize.Comma(int64(stats.TotalFiles)))
	fmt.Fprintf(stdout, "Valid:          %s\n", humanize.Comma(int64(stats.ValidFiles)))
	fmt.Fprintf(stdout, "Total size:     %s\n", humanize.IBytes(uint64(stats.TotalSize)))
	fmt.Fprintf(stdout, "Average size:   %dx%d\n", stats.AvgWidth, stats.AvgHeight)
	return nil
}

func parseFlags(command string, args []string, stderr io.Writer) (*options, error) {
	opts := &options{set: make(map[string]bool)}

	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to YAML config file")
	fs.Var(&opts.roots, "root", "directory to scan (repeatable)")
	fs.Var(&opts.excludes, "exclude", "path prefix to exclude (repeatable)")
	fs.StringVar(&opts.extensions, "ext", "", "comma separated extension allow-list")
	fs.StringVar(&opts.tablePath, "table", "", "path of the path/average table")
	fs.BoolVar(&opts.deepScan, "deep", false, "compute grayscale averages")
	fs.BoolVar(&opts.appendRows, "append", false, "append to the table instead of replacing it")
	fs.StringVar(&opts.outDir, "out", "", "thumbnail output directory")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file at exit")
	fs.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	opts.args = fs.Args()
	return opts, nil
}

// applyTo overrides cfg with every flag given on the command line.
func (o *options) applyTo(cfg *startup.Config) {
	if o.set["root"] {
		cfg.Roots = []string(o.roots)
	}
	if o.set["exclude"] {
		cfg.Excludes = []string(o.excludes)
	}
	if o.set["ext"] {
		cfg.Extensions = startup.SplitList(o.extensions)
	}
	if o.set["table"] {
		cfg.TablePath = o.tablePath
	}
	if o.set["deep"] {
		cfg.DeepScan = o.deepScan
	}
	if o.set["append"] {
		cfg.Append = o.appendRows
	}
	if o.set["out"] {
		cfg.ThumbnailDir = o.outDir
	}
	if o.set["metrics-file"] {
		cfg.MetricsFile = o.metricsFile
	}
}

// sanitizeCommand returns a safe representation of a command string for display.
// It uses an allowlist approach, replacing any character that is not alphanumeric,
// a hyphen, or an underscore with '_'.
func sanitizeCommand(cmd string) string {
	var b strings.Builder
	b.Grow(len(cmd))
	for _, r := range cmd {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Image Indexer")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage: image-indexer <command> [flags]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  scan              - Print matching image paths, one per line")
	fmt.Fprintln(w, "  index             - Scan and write the path/average table")
	fmt.Fprintln(w, "  averages [table]  - Recompute the averages of an existing table")
	fmt.Fprintln(w, "  thumbs            - Export 224x224-bounded RGB thumbnails (-out)")
	fmt.Fprintln(w, "  stats             - Print corpus statistics for a scan or table")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -config PATH       YAML config file")
	fmt.Fprintln(w, "  -root DIR          directory to scan (repeatable)")
	fmt.Fprintln(w, "  -exclude PREFIX    path prefix to skip (repeatable)")
	fmt.Fprintln(w, "  -ext LIST          comma separated extensions (default jpg,jpeg,png,gif,bmp)")
	fmt.Fprintf(w, "  -table PATH        table file (default %s)\n", startup.DefaultTablePath)
	fmt.Fprintln(w, "  -deep              compute grayscale averages")
	fmt.Fprintln(w, "  -append            append rows instead of rewriting the table")
	fmt.Fprintln(w, "  -out DIR           thumbnail output directory")
	fmt.Fprintln(w, "  -metrics-file PATH Prometheus textfile written at exit")
	fmt.Fprintln(w, "  -log-level LEVEL   debug, info, warn or error")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  INDEXER_ROOTS, INDEXER_EXCLUDE, INDEXER_EXTENSIONS, INDEXER_DEEP_SCAN,")
	fmt.Fprintln(w, "  INDEXER_TABLE, INDEXER_METRICS_FILE, INDEXER_WORKERS, LOG_LEVEL")
}
