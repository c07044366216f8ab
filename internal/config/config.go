// File: internal/config/config.go
package config

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Viewport() ViewportConfig
	Style() StyleConfig
	Output() OutputConfig
	Batch() BatchConfig
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	ViewportCfg ViewportConfig `mapstructure:"viewport" yaml:"viewport"`
	StyleCfg    StyleConfig    `mapstructure:"style" yaml:"style"`
	OutputCfg   OutputConfig   `mapstructure:"output" yaml:"output"`
	BatchCfg    BatchConfig    `mapstructure:"batch" yaml:"batch"`
}

func (c *Config) Logger() LoggerConfig     { return c.LoggerCfg }
func (c *Config) Viewport() ViewportConfig { return c.ViewportCfg }
func (c *Config) Style() StyleConfig       { return c.StyleCfg }
func (c *Config) Output() OutputConfig     { return c.OutputCfg }
func (c *Config) Batch() BatchConfig       { return c.BatchCfg }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color names used for each log level in console output.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// ViewportConfig is the initial containing block, in pixels.
type ViewportConfig struct {
	Width  float64 `mapstructure:"width" yaml:"width"`
	Height float64 `mapstructure:"height" yaml:"height"`
}

// StyleConfig controls how stylesheets are assembled before the cascade.
type StyleConfig struct {
	// UserAgent prepends the built-in user agent stylesheet to the author sheet.
	UserAgent bool `mapstructure:"user_agent" yaml:"user_agent"`
}

// OutputConfig selects how the laid out box tree is reported.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	Indent bool   `mapstructure:"indent" yaml:"indent"`
}

// BatchConfig controls rendering of several documents in one run.
type BatchConfig struct {
	// Concurrency is the maximum number of documents rendered at once.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatXML  = "xml"
)

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for all configuration keys.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "boxlayout")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Viewport --
	v.SetDefault("viewport.width", 800.0)
	v.SetDefault("viewport.height", 600.0)

	// -- Style --
	v.SetDefault("style.user_agent", true)

	// -- Output --
	v.SetDefault("output.format", FormatText)
	v.SetDefault("output.indent", true)

	// -- Batch --
	v.SetDefault("batch.concurrency", 4)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.ViewportCfg.Width <= 0 {
		return fmt.Errorf("viewport.width must be positive")
	}
	if c.ViewportCfg.Height < 0 {
		return fmt.Errorf("viewport.height must not be negative")
	}
	switch c.OutputCfg.Format {
	case FormatText, FormatJSON, FormatXML:
	default:
		return fmt.Errorf("output.format must be one of %q, %q or %q, got %q", FormatText, FormatJSON, FormatXML, c.OutputCfg.Format)
	}
	if c.BatchCfg.Concurrency < 1 {
		return fmt.Errorf("batch.concurrency must be at least 1")
	}
	if c.LoggerCfg.Level != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(c.LoggerCfg.Level)); err != nil {
			return fmt.Errorf("logger.level: %w", err)
		}
	}
	return nil
}
