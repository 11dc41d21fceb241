package service

import (
	"os"
	"path/filepath"

	"github.com/ludo-technologies/qscan/domain"
	"github.com/ludo-technologies/qscan/internal/config"
)

// ConfigurationLoaderImpl implements the ConfigurationLoader interface
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*domain.CheckRequest, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}

	return c.convertToCheckRequest(cfg), nil
}

// LoadDefaultConfig loads the default configuration, discovering a
// config file from the usual locations
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *domain.CheckRequest {
	cfg, err := config.LoadConfigWithTarget("", "")
	if err == nil {
		return c.convertToCheckRequest(cfg)
	}

	// Fall back to hardcoded default configuration
	cfg = config.DefaultConfig()
	return c.convertToCheckRequest(cfg)
}

// FindDefaultConfigFile searches for a default configuration file
func (c *ConfigurationLoaderImpl) FindDefaultConfigFile() string {
	configFiles := []string{
		"qscan.yaml",
		"qscan.yml",
		".qscan.toml",
		".qscan.yml",
		"qscan.json",
		".qscan.json",
	}

	// Check current directory
	for _, file := range configFiles {
		if _, err := os.Stat(file); err == nil {
			return file
		}
	}

	// Check parent directories up to root
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, file := range configFiles {
			configPath := filepath.Join(currentDir, file)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// MergeConfig merges CLI flags with configuration file
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.CheckRequest, override *domain.CheckRequest) *domain.CheckRequest {
	merged := *base

	// Paths always come from command arguments
	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}

	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}

	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}

	if override.ShowDetails {
		merged.ShowDetails = override.ShowDetails
	}

	if len(override.IncludePatterns) > 0 {
		merged.IncludePatterns = override.IncludePatterns
	}

	if len(override.ExcludePatterns) > 0 {
		merged.ExcludePatterns = override.ExcludePatterns
	}

	if override.Workers > 0 {
		merged.Workers = override.Workers
	}

	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	return &merged
}

// convertToCheckRequest converts a Config to CheckRequest
func (c *ConfigurationLoaderImpl) convertToCheckRequest(cfg *config.Config) *domain.CheckRequest {
	return &domain.CheckRequest{
		// Paths are set by the caller, not from config
		Paths: []string{},

		OutputFormat: domain.OutputFormat(cfg.Output.Format),
		ShowDetails:  cfg.Output.ShowDetails,

		Recursive:       cfg.Files.Recursive,
		IncludePatterns: cfg.Files.IncludePatterns,
		ExcludePatterns: cfg.Files.ExcludePatterns,

		Workers: cfg.Pool.Workers,
	}
}

// ValidateConfig validates the request
func (c *ConfigurationLoaderImpl) ValidateConfig(req *domain.CheckRequest) error {
	if req.Workers < 0 {
		return domain.NewInvalidInputError("workers cannot be negative", nil)
	}

	validFormats := map[domain.OutputFormat]bool{
		domain.OutputFormatText: true,
		domain.OutputFormatJSON: true,
		domain.OutputFormatYAML: true,
	}
	if !validFormats[req.OutputFormat] {
		return domain.NewUnsupportedFormatError(string(req.OutputFormat))
	}

	return nil
}
