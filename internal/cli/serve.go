package cli

import (
	"resumelift/internal/config"
	"resumelift/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for resume optimization and scoring",
	Long: `Start an HTTP server that provides REST API endpoints for resume
optimization and ATS scoring.

Available endpoints:
- POST /optimize: Optimize a resume through the provider cascade
- POST /reoptimize: Retry an optimization, preferring its original provider
- POST /score: Compute a detailed ATS score breakdown
- POST /score/simulate: Preview the score impact of one suggestion or keyword
- GET /health: Health check endpoint (provider availability)
- GET /stats: Server statistics and rate limiting info

TLS Configuration:
- Use --tls to enable HTTPS
- Use --cert-file and --key-file for the server certificate`,
	RunE: runServe,
}

var (
	serveHost     string
	servePort     string
	serveTLS      bool
	serveCertFile string
	serveKeyFile  string
)

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().BoolVar(&serveTLS, "tls", false, "Enable HTTPS (overrides config)")
	serveCmd.Flags().StringVar(&serveCertFile, "cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().StringVar(&serveKeyFile, "key-file", "", "Server private key file (PEM, overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Apply flag overrides
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != "" {
		cfg.Server.Port = servePort
	}
	if cmd.Flags().Changed("tls") {
		cfg.Server.TLS.Enabled = serveTLS
	}
	if serveCertFile != "" {
		cfg.Server.TLS.CertFile = serveCertFile
	}
	if serveKeyFile != "" {
		cfg.Server.TLS.KeyFile = serveKeyFile
	}

	// Reload prompt files on change while the server runs
	if watcher := config.NewPromptWatcher(cfg, logger); watcher != nil {
		if err := watcher.Start(); err != nil {
			logger.Warn("Prompt watcher not started", "error", err)
		} else {
			defer func() {
				if err := watcher.Stop(); err != nil {
					logger.Warn("Failed to stop prompt watcher", "error", err)
				}
			}()
		}
	}

	serverCfg := server.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        Version,
		TLSConfig:      cfg.Server.TLS,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.Server.MaxRequestSize,
		RateLimit:      &cfg.Server.RateLimit,
	}
	return server.NewServer(cfg, serverCfg, logger).Start()
}
