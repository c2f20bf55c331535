package model

import "time"

// Config holds the complete finlens configuration
type Config struct {
	Cache  CacheConfig  `yaml:"cache" json:"cache"`
	Labels LabelConfig  `yaml:"labels" json:"labels"`
	LLM    LLMConfig    `yaml:"llm" json:"llm"`
	Server ServerConfig `yaml:"server" json:"server"`
	Output OutputConfig `yaml:"output" json:"output"`
}

// CacheConfig controls memoization of derived statements
type CacheConfig struct {
	// Enabled toggles the derivation cache (keyed by content fingerprint)
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Dir is the disk cache directory (empty = memory only)
	Dir string `yaml:"dir" json:"dir"`

	// MemoryTTL / DiskTTL control entry lifetimes
	MemoryTTL time.Duration `yaml:"memory_ttl" json:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" json:"disk_ttl"`
}

// LabelConfig holds the label substrings used for row lookups.
// Matching is case-insensitive, first row wins. Override these to analyze
// statements in another language or with non-standard captions.
type LabelConfig struct {
	TotalAssets          []string `yaml:"total_assets" json:"total_assets"`
	ShortTermAssets      []string `yaml:"short_term_assets" json:"short_term_assets"`
	ShortTermLiabilities []string `yaml:"short_term_liabilities" json:"short_term_liabilities"`
}

// LLMConfig holds language-model provider configuration
type LLMConfig struct {
	// Provider name: "gemini", "openai", "ollama", "" (disabled)
	Provider string `yaml:"provider" json:"provider"`

	// Model name (provider-specific)
	Model string `yaml:"model" json:"model"`

	// APIKey for Gemini/OpenAI (usually from env, not the config file)
	APIKey string `yaml:"-" json:"-"`

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string `yaml:"base_url" json:"base_url"`

	// Timeout for API requests in seconds
	Timeout int `yaml:"timeout" json:"timeout"`

	// MaxTokens for response generation
	MaxTokens int `yaml:"max_tokens" json:"max_tokens"`

	// RequestsPerMinute throttles calls to the provider (0 = no throttle)
	RequestsPerMinute float64 `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// ServerConfig holds the HTTP API settings
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`

	// MaxUploadBytes caps the size of an uploaded statement file
	MaxUploadBytes int64 `yaml:"max_upload_bytes" json:"max_upload_bytes"`
}

// OutputConfig controls rendering behavior
type OutputConfig struct {
	Verbose bool `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Labels: DefaultLabels(),
		LLM: LLMConfig{
			Provider:          "", // Disabled by default
			Timeout:           30,
			MaxTokens:         1000,
			RequestsPerMinute: 20,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxUploadBytes: 2_000_000,
		},
		Output: OutputConfig{},
	}
}

// DefaultLabels returns the standard English statement captions.
// Each list is tried in order; within a list the first matching row wins.
func DefaultLabels() LabelConfig {
	return LabelConfig{
		TotalAssets:          []string{"TOTAL ASSETS"},
		ShortTermAssets:      []string{"SHORT-TERM ASSETS", "CURRENT ASSETS"},
		ShortTermLiabilities: []string{"SHORT-TERM LIABILITIES", "CURRENT LIABILITIES"},
	}
}
