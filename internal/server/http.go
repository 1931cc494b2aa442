package server

import (
	"time"

	"resumelift/internal/ai"
	"resumelift/internal/config"
	resumeliftErrors "resumelift/internal/errors"
	"resumelift/internal/types"
)

// OptimizeRequest represents the request body for the optimize endpoint
type OptimizeRequest struct {
	ResumeContent      string   `json:"resumeContent"`
	JobDescription     string   `json:"jobDescription,omitempty"`
	Language           string   `json:"language,omitempty"`
	CustomInstructions []string `json:"customInstructions,omitempty"`
}

// ReoptimizeRequest represents the request body for the reoptimize endpoint.
// Provider names the provider that produced the result being retried.
type ReoptimizeRequest struct {
	OptimizeRequest
	Provider string `json:"provider,omitempty"`
}

// ScoreRequest represents the request body for the score endpoints
type ScoreRequest struct {
	BaseScore     float64            `json:"baseScore"`
	ResumeContent string             `json:"resumeContent"`
	Suggestions   []types.Suggestion `json:"suggestions,omitempty"`
	Keywords      []types.Keyword    `json:"keywordSuggestions,omitempty"`
}

// SimulateRequest represents the request body for the score simulation endpoint
type SimulateRequest struct {
	ScoreRequest
	ItemType string `json:"itemType"` // "suggestion" or "keyword"
	Index    int    `json:"index"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Provider cascade, built during Start once observability is up
	registry     *ai.Registry
	orchestrator *ai.Orchestrator

	// Logger
	Logger *resumeliftErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *resumeliftErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
	}
}
