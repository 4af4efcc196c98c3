package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"image-indexer/internal/logging"
	"image-indexer/internal/mediatypes"
	"image-indexer/internal/workers"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// LogStartup prints the banner and system information for a command run.
func LogStartup(command string) {
	printBanner()
	logging.Info("  Command:    %s", command)
	logging.Info("")
	logSystemInfo()
}

// LogConfig logs the effective configuration after all overrides.
func LogConfig(cfg *Config) {
	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")
	if cfg.Source != "" {
		logging.Info("  Config file:         %s", cfg.Source)
	} else {
		logging.Info("  Config file:         (none, defaults and environment)")
	}
	logging.Info("  Roots:               %v", cfg.Roots)
	logging.Info("  Excludes:            %v", cfg.Excludes)
	logging.Info("  Extensions:          %v", cfg.Extensions)
	logging.Info("  Deep scan:           %s", enabledString(cfg.DeepScan))
	logging.Info("  Table:               %s", cfg.TablePath)
	logging.Info("  Append:              %v", cfg.Append)
	logging.Info("  Thumbnail dir:       %s", orNone(cfg.ThumbnailDir))
	logging.Info("  Metrics file:        %s", orNone(cfg.MetricsFile))
	logging.Info("  CPU workers:         %d", workers.ForCPU(0))
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	for _, ext := range cfg.Extensions {
		if !mediatypes.DecodableExtensions[ext] {
			logging.Warn("  Extension %q has no registered decoder; matching files will average 0", ext)
		}
	}
	logging.Info("")
}

// PrepareOutputDir makes sure dir exists and is writable.
func PrepareOutputDir(dir, name string) error {
	if dir == "" {
		return nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s directory path: %w", name, err)
	}

	if err := ensureDirectory(abs, name); err != nil {
		return fmt.Errorf("%s directory error: %w", name, err)
	}

	logging.Debug("  Testing %s directory write access...", name)
	if err := testWriteAccess(abs); err != nil {
		return fmt.Errorf("%s directory is not writable: %w", name, err)
	}
	logging.Debug("  [OK] %s directory is writable: %s", name, abs)
	return nil
}

// LogRunComplete logs the end of a command with its wall-clock duration.
func LogRunComplete(command string, duration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("%s COMPLETE", command)
	logging.Info("------------------------------------------------------------")
	logging.Info("  Duration:        %v", duration.Round(time.Millisecond))
	logging.Info("")
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
   ___                              ___           _
  |_ _|_ __ ___   __ _  __ _  ___  |_ _|_ __   __| | _____  _____ _ __
   | || '_ ' _ \ / _' |/ _' |/ _ \  | || '_ \ / _' |/ _ \ \/ / _ \ '__|
   | || | | | | | (_| | (_| |  __/  | || | | | (_| |  __/>  <  __/ |
  |___|_| |_| |_|\__,_|\__, |\___| |___|_| |_|\__,_|\___/_/\_\___|_|
                       |___/
------------------------------------------------------------`
	fmt.Fprintln(os.Stderr, banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
	}
	return nil
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
