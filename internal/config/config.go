// Package config provides configuration loading and validation for the
// CLI and HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-parser/internal/chunking"
	"github.com/jonathan/resume-parser/internal/parsing"
)

// Config represents the configuration that can be loaded from a JSON file
// or the environment. All fields are optional; missing values use defaults
// or must be provided via CLI flags.
type Config struct {
	// Credentials and endpoints
	APIKey      string `json:"api_key,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"`

	// Model behavior
	Model string `json:"model,omitempty"`

	// Chunking policy. ChunkOverlap is a pointer so an explicit 0 ("no
	// overlap") is distinguishable from unset and survives the defaults merge.
	ChunkThreshold int  `json:"chunk_threshold,omitempty" validate:"gte=0"`
	ChunkSize      int  `json:"chunk_size,omitempty" validate:"gte=0"`
	ChunkOverlap   *int `json:"chunk_overlap,omitempty" validate:"omitempty,gte=0"`

	// Retry policy. MaxRetries is a pointer for the same reason: an explicit
	// 0 means "no retries", not "use the default".
	MaxRetries            *int `json:"max_retries,omitempty" validate:"omitempty,gte=0,lte=10"`
	RetryBaseDelaySeconds int  `json:"retry_base_delay_seconds,omitempty" validate:"gte=0"`
	CallTimeoutSeconds    int  `json:"call_timeout_seconds,omitempty" validate:"gte=0"`

	// Server
	Port           int    `json:"port,omitempty" validate:"gte=0,lte=65535"`
	UploadDir      string `json:"upload_dir,omitempty"`
	MaxUploadBytes int64  `json:"max_upload_bytes,omitempty" validate:"gte=0"`

	// Behavior
	Verbose bool `json:"verbose,omitempty"`
}

var validate = validator.New()

// Load loads configuration from a JSON file
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables. Unset variables leave
// their fields zero so they can be filled from a file or defaults.
func FromEnv() *Config {
	cfg := &Config{
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Model:       os.Getenv("RESUME_PARSER_MODEL"),
		UploadDir:   os.Getenv("UPLOAD_DIR"),
	}
	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
		cfg.Port = port
	}
	return cfg
}

// Validate checks that the configuration has valid values
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			e := errs[0]
			return fmt.Errorf("config error: field %q failed %q validation", e.Field(), e.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.ChunkSize > 0 && c.ChunkOverlap != nil && *c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("config error: 'chunk_overlap' must be smaller than 'chunk_size'")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.UploadDir == "" {
		result.UploadDir = defaults.UploadDir
	}

	if result.ChunkThreshold == 0 {
		result.ChunkThreshold = defaults.ChunkThreshold
	}
	if result.ChunkSize == 0 {
		result.ChunkSize = defaults.ChunkSize
	}
	if result.ChunkOverlap == nil {
		result.ChunkOverlap = defaults.ChunkOverlap
	}
	if result.MaxRetries == nil {
		result.MaxRetries = defaults.MaxRetries
	}
	if result.RetryBaseDelaySeconds == 0 {
		result.RetryBaseDelaySeconds = defaults.RetryBaseDelaySeconds
	}
	if result.CallTimeoutSeconds == 0 {
		result.CallTimeoutSeconds = defaults.CallTimeoutSeconds
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Overlap returns the chunk overlap, falling back to the built-in default
// when the field was never set.
func (c *Config) Overlap() int {
	if c.ChunkOverlap != nil {
		return *c.ChunkOverlap
	}
	return chunking.DefaultOverlap
}

// RetryCount returns the retry bound, falling back to the built-in default
// when the field was never set.
func (c *Config) RetryCount() int {
	if c.MaxRetries != nil {
		return *c.MaxRetries
	}
	return parsing.DefaultMaxRetries
}

func intPtr(v int) *int { return &v }

// Defaults returns the built-in configuration values
func Defaults() Config {
	return Config{
		ChunkThreshold:        chunking.DefaultThreshold,
		ChunkSize:             chunking.DefaultSize,
		ChunkOverlap:          intPtr(chunking.DefaultOverlap),
		MaxRetries:            intPtr(parsing.DefaultMaxRetries),
		RetryBaseDelaySeconds: int(parsing.DefaultRetryBaseDelay.Seconds()),
		CallTimeoutSeconds:    int(parsing.DefaultCallTimeout.Seconds()),
		Port:                  8080,
		UploadDir:             "uploads",
		MaxUploadBytes:        10 << 20,
	}
}
