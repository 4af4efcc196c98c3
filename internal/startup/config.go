package startup

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"image-indexer/internal/logging"
	"image-indexer/internal/mediatypes"
	"image-indexer/internal/workers"

	"gopkg.in/yaml.v3"
)

// DefaultTablePath is where the index table is written when none is configured.
const DefaultTablePath = "Index/paths.csv"

// ErrNoRoots is returned by Validate when a command needs at least one root.
var ErrNoRoots = errors.New("no include directories configured")

// Config holds the settings of one indexer run. Values are layered: defaults,
// then the YAML file, then environment variables, then command-line flags.
type Config struct {
	Roots        []string `yaml:"include_directories"`
	Excludes     []string `yaml:"exclude_directories"`
	Extensions   []string `yaml:"extensions"`
	DeepScan     bool     `yaml:"deep_scan"`
	TablePath    string   `yaml:"table_path"`
	Append       bool     `yaml:"append"`
	ThumbnailDir string   `yaml:"thumbnail_dir"`
	MetricsFile  string   `yaml:"metrics_file"`
	Workers      int      `yaml:"workers"`

	// Source is the file the config was read from, empty when none.
	Source string `yaml:"-"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Extensions: append([]string(nil), mediatypes.DefaultExtensions...),
		TablePath:  DefaultTablePath,
	}
}

// LoadConfig builds the configuration from defaults, the optional YAML file
// at path, and environment overrides. A missing file is an error only when
// path is non-empty.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		cfg.Source = path
	}

	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if roots := getEnvList("INDEXER_ROOTS"); roots != nil {
		c.Roots = roots
	}
	if excludes := getEnvList("INDEXER_EXCLUDE"); excludes != nil {
		c.Excludes = excludes
	}
	if exts := getEnvList("INDEXER_EXTENSIONS"); exts != nil {
		c.Extensions = exts
	}
	c.DeepScan = getEnvBool("INDEXER_DEEP_SCAN", c.DeepScan)
	c.TablePath = getEnv("INDEXER_TABLE", c.TablePath)
	c.MetricsFile = getEnv("INDEXER_METRICS_FILE", c.MetricsFile)
}

// normalize fills blanks left by the file or flags.
func (c *Config) normalize() {
	if len(c.Extensions) == 0 {
		c.Extensions = append([]string(nil), mediatypes.DefaultExtensions...)
	}
	if c.TablePath == "" {
		c.TablePath = DefaultTablePath
	}
}

// Validate checks the settings a command depends on.
func (c *Config) Validate(requireRoots bool) error {
	c.normalize()

	if requireRoots && len(c.Roots) == 0 {
		return ErrNoRoots
	}
	if _, err := mediatypes.NewExtensionSet(c.Extensions); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// ApplyWorkers pins the worker count from the config file unless the
// environment already does.
func (c *Config) ApplyWorkers() {
	if c.Workers <= 0 || os.Getenv(workers.OverrideEnv) != "" {
		return
	}
	if err := os.Setenv(workers.OverrideEnv, strconv.Itoa(c.Workers)); err != nil {
		logging.Warn("failed to apply worker count %d: %v", c.Workers, err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

// getEnvList splits a comma separated variable, dropping blank entries.
// It returns nil when the variable is unset or has no entries.
func getEnvList(key string) []string {
	return SplitList(os.Getenv(key))
}

// SplitList splits a comma separated list, trimming entries and dropping
// blank ones. It returns nil when nothing remains.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
