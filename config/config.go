package config

import (
	"os"

	"github.com/sqldom/sqldom/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the tool configuration
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Parser ParserConfig `yaml:"parser"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`    // "json" or "console"
	FilePath string `yaml:"file_path"` // Path to log file, empty disables file output
	Console  bool   `yaml:"console"`   // Whether to log to console
}

// ParserConfig holds input limits applied before parsing
type ParserConfig struct {
	MaxStatementSize   int `yaml:"max_statement_size"`   // Max input size in bytes, 0 disables the check
	MaxExpressionDepth int `yaml:"max_expression_depth"` // Reserved for nesting limits, 0 disables
}

// LoadDefaultConfig returns a default configuration
func LoadDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:   "info",
			Format:  "console",
			Console: true,
		},
		Parser: ParserConfig{
			MaxStatementSize: 1 << 20, // 1MB
		},
	}
}

// LoadConfig loads configuration from a file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.New(ErrConfigFileReadFailed, "failed to read config file", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.New(ErrConfigFileParseFailed, "failed to parse config file", err)
	}

	if err := config.Validate(); err != nil {
		return nil, errors.New(ErrConfigValidationFailed, "configuration validation failed", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config *Config, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.New(ErrConfigFileMarshalFailed, "failed to marshal config", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return errors.New(ErrConfigFileWriteFailed, "failed to write config file", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return errors.Newf(ErrInvalidLogFormat, "log format must be 'json' or 'console', got %q", c.Log.Format)
	}

	if c.Parser.MaxStatementSize < 0 {
		return errors.New(ErrInvalidLimit, "max_statement_size must not be negative", nil)
	}
	if c.Parser.MaxExpressionDepth < 0 {
		return errors.New(ErrInvalidLimit, "max_expression_depth must not be negative", nil)
	}

	return nil
}
