package config

import (
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
// API Key Precedence Order:
// 1. Vault (if configured) - Highest priority
// 2. Config File values
// 3. Environment Variables (RESUMELIFT_AI_GEMINI_APIKEY, etc.)
// 4. Default values - Lowest priority
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AIConfig holds the cascade configuration plus global defaults every
// provider falls back to.
type AIConfig struct {
	Timeout            time.Duration `mapstructure:"timeout"`
	MaxRetries         int           `mapstructure:"maxRetries"`
	RetryInitialDelay  time.Duration `mapstructure:"retryInitialDelay"`
	Temperature        float32       `mapstructure:"temperature"`
	UseSystemPrompts   bool          `mapstructure:"useSystemPrompts"`
	MinOptimizedLength int           `mapstructure:"minOptimizedLength"`
	FallbackLanguage   string        `mapstructure:"fallbackLanguage"`

	// CascadeOrder lists provider names in attempt order. The deterministic
	// fallback generator is always appended and never needs listing.
	CascadeOrder []string `mapstructure:"cascadeOrder"`

	CustomPrompts PromptConfig        `mapstructure:"customPrompts"`
	PromptWatcher PromptWatcherConfig `mapstructure:"promptWatcher"`

	Gemini ProviderConfig `mapstructure:"gemini"`
	OpenAI ProviderConfig `mapstructure:"openai"`
	Claude ProviderConfig `mapstructure:"claude"`
}

// ProviderConfig holds per-provider configuration. Pointer fields fall back
// to the global AIConfig values when unset.
type ProviderConfig struct {
	Enabled          bool                 `mapstructure:"enabled"`
	Model            string               `mapstructure:"model"`
	APIKey           string               `mapstructure:"apiKey"`
	BaseURL          string               `mapstructure:"baseURL"`
	Timeout          *time.Duration       `mapstructure:"timeout"`
	MaxRetries       *int                 `mapstructure:"maxRetries"`
	RetryInitialDelay *time.Duration      `mapstructure:"retryInitialDelay"`
	Temperature      *float32             `mapstructure:"temperature"`
	UseSystemPrompts *bool                `mapstructure:"useSystemPrompts"`
	CustomPrompts    PromptConfig         `mapstructure:"customPrompts"`
	CircuitBreaker   CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// PromptWatcherConfig controls hot reloading of prompt files in serve mode
type PromptWatcherConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	DebounceDelay time.Duration `mapstructure:"debounceDelay"`
}

// PromptConfig holds customizable prompts, either inline or loaded from files
type PromptConfig struct {
	SystemPrompt     string `mapstructure:"systemPrompt"`
	SystemPromptFile string `mapstructure:"systemPromptFile"`
	UserPrompt       string `mapstructure:"userPrompt"`
	UserPromptFile   string `mapstructure:"userPromptFile"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`

	TLS TLSConfig `mapstructure:"tls"`

	// API Authentication
	APIKeys []string `mapstructure:"apiKeys"` // Valid API keys for authentication

	// Maximum accepted request body size in bytes
	MaxRequestSize int64 `mapstructure:"maxRequestSize"`

	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// TLSConfig holds TLS configuration
type TLSConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	CertFile   string `mapstructure:"certFile"` // Server certificate file (PEM)
	KeyFile    string `mapstructure:"keyFile"`  // Server private key file (PEM)
	MinVersion string `mapstructure:"minVersion"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`        // Enable/disable rate limiting
	RequestsPerMin int           `mapstructure:"requestsPerMin"` // Requests allowed per minute
	BurstCapacity  int           `mapstructure:"burstCapacity"`  // Burst capacity for token bucket
	ByIP           bool          `mapstructure:"byIP"`           // Enable per-IP rate limiting
	ByAPIKey       bool          `mapstructure:"byAPIKey"`       // Enable per-API-key rate limiting
	Window         time.Duration `mapstructure:"window"`         // Rate limiting window duration
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool              `mapstructure:"enabled"`
	ServiceName     string            `mapstructure:"serviceName"`
	ServiceVersion  string            `mapstructure:"serviceVersion"`
	ServiceInstance string            `mapstructure:"serviceInstance"`
	ConsoleOutput   bool              `mapstructure:"consoleOutput"`
	SampleRate      float64           `mapstructure:"sampleRate"`
	Tracing         TracingConfig     `mapstructure:"tracing"`
	Metrics         MetricsConfig     `mapstructure:"metrics"`
	Console         ConsoleConfig     `mapstructure:"console"`
	Prometheus      PrometheusConfig  `mapstructure:"prometheus"`
	OTLP            OTLPConfig        `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig `mapstructure:"healthCheck"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console output configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig holds health check configuration
type HealthCheckConfig struct {
	Timeout              time.Duration `mapstructure:"timeout"`
	ProviderCheckTimeout time.Duration `mapstructure:"providerCheckTimeout"`
}

// Provider names accepted in cascadeOrder
const (
	ProviderGemini   = "gemini"
	ProviderOpenAI   = "openai"
	ProviderClaude   = "claude"
	ProviderFallback = "fallback"
)

// LoadConfig loads configuration from environment variables and a config file
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("RESUMELIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/resumelift/")
	v.AddConfigPath("$HOME/.resumelift")
	v.AddConfigPath(".")

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileUsed = v.ConfigFileUsed()
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyFallbacks()
	config.logConfigurationSources(configFileUsed)

	if err := config.loadPromptsFromFiles(); err != nil {
		return nil, fmt.Errorf("failed to load custom prompts from files: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI timeout must be positive")
	}
	if c.AI.MaxRetries < 0 {
		return fmt.Errorf("AI maxRetries cannot be negative")
	}
	if c.AI.RetryInitialDelay <= 0 {
		return fmt.Errorf("AI retryInitialDelay must be positive")
	}
	if c.AI.MinOptimizedLength <= 0 {
		return fmt.Errorf("AI minOptimizedLength must be positive")
	}

	for _, name := range c.AI.CascadeOrder {
		switch name {
		case ProviderGemini, ProviderOpenAI, ProviderClaude:
		case ProviderFallback:
			// Accepted for explicitness; the fallback stage is always last
			// whether or not it is listed.
		default:
			return fmt.Errorf("unknown provider %q in cascadeOrder", name)
		}
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if !slices.Contains(c.App.SupportedFormats, c.App.DefaultFormat) {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if c.Server.TLS.Enabled {
		if c.Server.TLS.CertFile == "" || c.Server.TLS.KeyFile == "" {
			return fmt.Errorf("TLS certificate and key files are required when TLS is enabled")
		}
		switch c.Server.TLS.MinVersion {
		case "", "1.2", "1.3":
		default:
			return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", c.Server.TLS.MinVersion)
		}
	}

	return nil
}

// applyProviderDefaults fills a provider's pointer fields from the global AI
// configuration.
func (c *Config) applyProviderDefaults(p *ProviderConfig) {
	if p.Timeout == nil {
		p.Timeout = &c.AI.Timeout
	}
	if p.MaxRetries == nil {
		p.MaxRetries = &c.AI.MaxRetries
	}
	if p.RetryInitialDelay == nil {
		p.RetryInitialDelay = &c.AI.RetryInitialDelay
	}
	if p.Temperature == nil {
		p.Temperature = &c.AI.Temperature
	}
	if p.UseSystemPrompts == nil {
		p.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
	if p.CustomPrompts.SystemPrompt == "" {
		p.CustomPrompts.SystemPrompt = c.AI.CustomPrompts.SystemPrompt
	}
	if p.CustomPrompts.UserPrompt == "" {
		p.CustomPrompts.UserPrompt = c.AI.CustomPrompts.UserPrompt
	}
	if p.CustomPrompts.SystemPromptFile == "" {
		p.CustomPrompts.SystemPromptFile = c.AI.CustomPrompts.SystemPromptFile
	}
	if p.CustomPrompts.UserPromptFile == "" {
		p.CustomPrompts.UserPromptFile = c.AI.CustomPrompts.UserPromptFile
	}
}

// GetProviderConfig returns the resolved configuration for a named provider.
func (c *Config) GetProviderConfig(name string) (ProviderConfig, error) {
	var cfg ProviderConfig
	switch name {
	case ProviderGemini:
		cfg = c.AI.Gemini
	case ProviderOpenAI:
		cfg = c.AI.OpenAI
	case ProviderClaude:
		cfg = c.AI.Claude
	default:
		return ProviderConfig{}, fmt.Errorf("unknown provider: %s", name)
	}
	c.applyProviderDefaults(&cfg)
	return cfg, nil
}

// applyFallbacks applies environment variable fallbacks
func (c *Config) applyFallbacks() {
	// Parse API keys from environment variable if not set in config
	if len(c.Server.APIKeys) == 0 {
		if apiKeysEnv := os.Getenv("RESUMELIFT_SERVER_APIKEYS"); apiKeysEnv != "" {
			c.Server.APIKeys = strings.Split(apiKeysEnv, ",")
			for i, key := range c.Server.APIKeys {
				c.Server.APIKeys[i] = strings.TrimSpace(key)
			}
		}
	}

	// Conventional provider key variables take effect when nothing more
	// specific was configured
	if c.AI.Gemini.APIKey == "" {
		c.AI.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.AI.OpenAI.APIKey == "" {
		c.AI.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.AI.Claude.APIKey == "" {
		c.AI.Claude.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	if c.Server.TLS.Enabled && c.Server.TLS.MinVersion == "" {
		c.Server.TLS.MinVersion = "1.2"
	}

	// Set dynamic service instance ID if not specified
	if c.Observability.ServiceInstance == "" {
		if hostname, err := os.Hostname(); err == nil {
			c.Observability.ServiceInstance = fmt.Sprintf("%s-%s", c.Observability.ServiceName, hostname)
		} else {
			c.Observability.ServiceInstance = fmt.Sprintf("%s-1", c.Observability.ServiceName)
		}
	}

	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	maskedKey := func(key string) string {
		if key == "" {
			return "not set"
		}
		return "configured"
	}
	log.Printf("[CONFIG] Cascade order: %v", c.AI.CascadeOrder)
	log.Printf("[CONFIG] Gemini: enabled=%t model=%s apiKey=%s", c.AI.Gemini.Enabled, c.AI.Gemini.Model, maskedKey(c.AI.Gemini.APIKey))
	log.Printf("[CONFIG] OpenAI: enabled=%t model=%s apiKey=%s", c.AI.OpenAI.Enabled, c.AI.OpenAI.Model, maskedKey(c.AI.OpenAI.APIKey))
	log.Printf("[CONFIG] Claude: enabled=%t model=%s apiKey=%s", c.AI.Claude.Enabled, c.AI.Claude.Model, maskedKey(c.AI.Claude.APIKey))
	log.Printf("[CONFIG] Server: %s:%s (TLS: %t)", c.Server.Host, c.Server.Port, c.Server.TLS.Enabled)
	log.Printf("[CONFIG] Vault enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability enabled: %t", c.Observability.Enabled)
}
