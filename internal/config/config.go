package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/qscan/internal/constants"
	"github.com/spf13/viper"
)

// Default classifier thresholds
const (
	// DefaultCriticalityThreshold is the score at or above which a file
	// is analyzed in deep mode
	DefaultCriticalityThreshold = 0.5

	// DefaultDiffThreshold is the changed-line count above which a diff
	// is considered large
	DefaultDiffThreshold = 100
)

// Default cache settings
const (
	// DefaultCacheTTLSeconds is how long a cached result stays valid
	DefaultCacheTTLSeconds = 300

	// DefaultCacheMaxEntries is the LRU capacity of the result cache
	DefaultCacheMaxEntries = 1000
)

// Default scheduler settings
const (
	// DefaultPoolWorkers is the number of analysis workers
	DefaultPoolWorkers = 3

	// DefaultQueueSize is the bound of the shared priority queue
	DefaultQueueSize = 256
)

// Default analyzer settings
const (
	// DefaultFastTimeoutSec is the hard timeout for the fast lint pass
	DefaultFastTimeoutSec = 2.0

	// DefaultPassThreshold is the minimum score to pass the gate
	DefaultPassThreshold = 7.0

	// DefaultMaxMethodsPerClass is the method count above which a class
	// is flagged as a single-responsibility smell
	DefaultMaxMethodsPerClass = 10

	// DefaultMaxLineLength is the line length the fast pass enforces
	DefaultMaxLineLength = 120
)

// Config represents the main configuration structure
type Config struct {
	// Classifier holds file-criticality classification configuration
	Classifier ClassifierConfig `json:"classifier" mapstructure:"classifier" yaml:"classifier"`

	// Cache holds result cache configuration
	Cache CacheConfig `json:"cache" mapstructure:"cache" yaml:"cache"`

	// Pool holds worker pool configuration
	Pool PoolConfig `json:"pool" mapstructure:"pool" yaml:"pool"`

	// Analysis holds analyzer configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Files holds file collection configuration
	Files FilesConfig `json:"files" mapstructure:"files" yaml:"files"`
}

// ClassifierConfig holds configuration for criticality classification
type ClassifierConfig struct {
	// CriticalPatterns are filename globs that mark a file critical
	CriticalPatterns []string `json:"critical_patterns" mapstructure:"critical_patterns" yaml:"critical_patterns"`

	// CriticalSymbols are names whose static reference marks a file critical
	CriticalSymbols []string `json:"critical_symbols" mapstructure:"critical_symbols" yaml:"critical_symbols"`

	// CoreDirs are directory prefixes considered core code
	CoreDirs []string `json:"core_dirs" mapstructure:"core_dirs" yaml:"core_dirs"`

	// CriticalityThreshold is the deep-mode score cutoff
	CriticalityThreshold float64 `json:"criticality_threshold" mapstructure:"criticality_threshold" yaml:"criticality_threshold"`

	// DiffThreshold is the changed-line count treated as a large diff
	DiffThreshold int `json:"diff_threshold" mapstructure:"diff_threshold" yaml:"diff_threshold"`

	// TestPatterns are path globs always classified as fast
	TestPatterns []string `json:"test_patterns" mapstructure:"test_patterns" yaml:"test_patterns"`

	// SourceExtensions are the extensions treated as analyzable source;
	// everything else is skipped
	SourceExtensions []string `json:"source_extensions" mapstructure:"source_extensions" yaml:"source_extensions"`
}

// CacheConfig holds configuration for the result cache
type CacheConfig struct {
	// TTLSeconds is how long a cached result stays valid
	TTLSeconds int `json:"ttl_seconds" mapstructure:"ttl_seconds" yaml:"ttl_seconds"`

	// MaxEntries is the LRU capacity; 0 uses the default
	MaxEntries int `json:"max_entries" mapstructure:"max_entries" yaml:"max_entries"`

	// Path is the persisted cache file location
	Path string `json:"path" mapstructure:"path" yaml:"path"`

	// Persist controls whether the cache is written to disk
	Persist bool `json:"persist" mapstructure:"persist" yaml:"persist"`
}

// PoolConfig holds configuration for the worker pool
type PoolConfig struct {
	// Workers is the number of worker goroutines
	Workers int `json:"workers" mapstructure:"workers" yaml:"workers"`

	// QueueSize is the bound of the shared priority queue
	QueueSize int `json:"queue_size" mapstructure:"queue_size" yaml:"queue_size"`

	// Blocking selects the backpressure policy: true blocks Submit when
	// the queue is full, false rejects with a queue-full error
	Blocking bool `json:"blocking" mapstructure:"blocking" yaml:"blocking"`
}

// AnalysisConfig holds configuration for the analyzer
type AnalysisConfig struct {
	// FastTimeoutSec is the hard timeout for the fast lint pass
	FastTimeoutSec float64 `json:"fast_timeout_sec" mapstructure:"fast_timeout_sec" yaml:"fast_timeout_sec"`

	// PassThreshold is the minimum score for a passing result
	PassThreshold float64 `json:"pass_threshold" mapstructure:"pass_threshold" yaml:"pass_threshold"`

	// MaxMethodsPerClass flags classes with more methods as SRP smells
	MaxMethodsPerClass int `json:"max_methods_per_class" mapstructure:"max_methods_per_class" yaml:"max_methods_per_class"`

	// MaxLineLength is the line length limit for the fast pass
	MaxLineLength int `json:"max_line_length" mapstructure:"max_line_length" yaml:"max_line_length"`

	// DenyList are call names treated as security violations
	DenyList []string `json:"deny_list" mapstructure:"deny_list" yaml:"deny_list"`

	// SecretPatterns are identifier substrings that mark a string
	// assignment as a hardcoded secret
	SecretPatterns []string `json:"secret_patterns" mapstructure:"secret_patterns" yaml:"secret_patterns"`

	// Weights are per-kind violation weights for scoring
	Weights map[string]float64 `json:"weights" mapstructure:"weights" yaml:"weights"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// ShowDetails controls whether to show per-violation detail
	ShowDetails bool `json:"show_details" mapstructure:"show_details" yaml:"show_details"`
}

// FilesConfig holds configuration for file collection
type FilesConfig struct {
	// IncludePatterns are globs of files to verify
	IncludePatterns []string `json:"include_patterns" mapstructure:"include_patterns" yaml:"include_patterns"`

	// ExcludePatterns are globs/directories to skip
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// Recursive controls directory traversal
	Recursive bool `json:"recursive" mapstructure:"recursive" yaml:"recursive"`

	// RespectGitignore skips files matched by .gitignore
	RespectGitignore bool `json:"respect_gitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore"`
}

// DefaultConfig returns a configuration with sensible defaults.
// Every default is safe: an absent config file never breaks the pipeline.
func DefaultConfig() *Config {
	return &Config{
		Classifier: ClassifierConfig{
			CriticalPatterns: []string{
				"*executor*", "*auth*", "*security*", "*payment*",
				"*crypto*", "*password*", "*token*", "*secret*",
			},
			CriticalSymbols: []string{
				"eval", "exec", "subprocess", "child_process", "Function",
			},
			CoreDirs:             []string{"src/core", "internal", "lib/core"},
			CriticalityThreshold: DefaultCriticalityThreshold,
			DiffThreshold:        DefaultDiffThreshold,
			TestPatterns: []string{
				"*_test.*", "*.test.*", "*.spec.*", "test_*", "tests/*", "__tests__/*",
			},
			SourceExtensions: []string{
				".js", ".ts", ".jsx", ".tsx", ".mjs", ".cjs", ".mts", ".cts",
				".go", ".py", ".rb", ".java", ".c", ".cc", ".cpp", ".rs",
			},
		},
		Cache: CacheConfig{
			TTLSeconds: DefaultCacheTTLSeconds,
			MaxEntries: DefaultCacheMaxEntries,
			Path:       filepath.Join(".qscan", "cache.json"),
			Persist:    true,
		},
		Pool: PoolConfig{
			Workers:   DefaultPoolWorkers,
			QueueSize: DefaultQueueSize,
			Blocking:  true,
		},
		Analysis: AnalysisConfig{
			FastTimeoutSec:     DefaultFastTimeoutSec,
			PassThreshold:      DefaultPassThreshold,
			MaxMethodsPerClass: DefaultMaxMethodsPerClass,
			MaxLineLength:      DefaultMaxLineLength,
			DenyList: []string{
				"eval", "Function", "execSync", "exec", "spawnSync",
				"child_process.exec", "document.write",
			},
			SecretPatterns: []string{
				"password", "passwd", "secret", "token", "apikey", "api_key",
				"private_key", "credential",
			},
			Weights: map[string]float64{
				"solid":         1.0,
				"security":      3.0,
				"hallucination": 1.5,
				"lint":          0.5,
			},
		},
		Output: OutputConfig{
			Format:      "text",
			ShowDetails: false,
		},
		Files: FilesConfig{
			IncludePatterns: []string{
				"**/*.js", "**/*.ts", "**/*.jsx", "**/*.tsx",
				"**/*.mjs", "**/*.cjs", "**/*.mts", "**/*.cts",
			},
			ExcludePatterns: []string{
				"node_modules",
				"vendor",
				"dist",
				"build",
				"coverage",
				".git",
				"*.min.js",
				"*.bundle.js",
				"*.map",
			},
			Recursive:        true,
			RespectGitignore: true,
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration with target path context.
// If no config path is specified, the QSCAN_CONFIG environment variable
// is consulted, then one is discovered by walking up from the target
// directory.
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = os.Getenv(constants.EnvVarPrefix + "_CONFIG")
	}
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// loadConfigFromFile reads and parses a configuration file
func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// Create a new viper instance to avoid race conditions
	v := viper.New()
	config := DefaultConfig()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for default configuration files in common locations.
// targetPath is the path being verified (a file or directory).
func findDefaultConfig(targetPath string) string {
	candidates := []string{
		constants.ToolName + ".yaml",
		constants.ToolName + ".yml",
		constants.ConfigFileName,
		"." + constants.ToolName + ".yml",
		constants.ToolName + ".json",
		"." + constants.ToolName + ".json",
	}

	// If targetPath is provided, search from there upward
	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	// Fallback to current directory
	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	// Check XDG config directory
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, "qscan"), candidates); config != "" {
			return config
		}
	}

	// Check ~/.config/qscan/ and the home directory
	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", "qscan")
		if config := searchConfigInDirectory(configDir, candidates); config != "" {
			return config
		}
		if config := searchConfigInDirectory(home, candidates); config != "" {
			return config
		}
	}

	// Check QSCAN_CONFIG environment variable as fallback
	if envConfig := os.Getenv("QSCAN_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Classifier.CriticalityThreshold < 0 || c.Classifier.CriticalityThreshold > 1 {
		return fmt.Errorf("classifier.criticality_threshold must be in [0, 1], got %f",
			c.Classifier.CriticalityThreshold)
	}

	if c.Classifier.DiffThreshold < 0 {
		return fmt.Errorf("classifier.diff_threshold must be >= 0, got %d", c.Classifier.DiffThreshold)
	}

	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache.ttl_seconds must be > 0, got %d", c.Cache.TTLSeconds)
	}

	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must be >= 0, got %d", c.Cache.MaxEntries)
	}

	if c.Pool.Workers <= 0 {
		return fmt.Errorf("pool.workers must be > 0, got %d", c.Pool.Workers)
	}

	if c.Pool.QueueSize <= 0 {
		return fmt.Errorf("pool.queue_size must be > 0, got %d", c.Pool.QueueSize)
	}

	if c.Analysis.FastTimeoutSec <= 0 {
		return fmt.Errorf("analysis.fast_timeout_sec must be > 0, got %f", c.Analysis.FastTimeoutSec)
	}

	if c.Analysis.PassThreshold < 0 || c.Analysis.PassThreshold > 10 {
		return fmt.Errorf("analysis.pass_threshold must be in [0, 10], got %f", c.Analysis.PassThreshold)
	}

	if c.Analysis.MaxMethodsPerClass <= 0 {
		return fmt.Errorf("analysis.max_methods_per_class must be > 0, got %d", c.Analysis.MaxMethodsPerClass)
	}

	for kind, weight := range c.Analysis.Weights {
		if weight < 0 {
			return fmt.Errorf("analysis.weights.%s must be >= 0, got %f", kind, weight)
		}
	}

	validFormats := map[string]bool{
		constants.OutputFormatText: true,
		constants.OutputFormatJSON: true,
		constants.OutputFormatYAML: true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml", c.Output.Format)
	}

	if len(c.Files.IncludePatterns) == 0 {
		return fmt.Errorf("files.include_patterns cannot be empty")
	}

	return nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("classifier", config.Classifier)
	v.Set("cache", config.Cache)
	v.Set("pool", config.Pool)
	v.Set("analysis", config.Analysis)
	v.Set("output", config.Output)
	v.Set("files", config.Files)

	return v.WriteConfig()
}
