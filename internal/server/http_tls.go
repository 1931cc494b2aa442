package server

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
)

// configureTLS sets up TLS on the HTTP server when enabled
func (s *Server) configureTLS(httpServer *http.Server) error {
	if !s.TLSConfig.Enabled {
		fmt.Printf("Starting server on http://%s\n", httpServer.Addr)
		fmt.Println("TLS: Disabled (HTTP only)")
		return nil
	}

	if s.TLSConfig.CertFile == "" || s.TLSConfig.KeyFile == "" {
		return fmt.Errorf("TLS certificate and key files are required when TLS is enabled")
	}
	if err := checkReadable(s.TLSConfig.CertFile); err != nil {
		return fmt.Errorf("TLS certificate file: %w", err)
	}
	if err := checkReadable(s.TLSConfig.KeyFile); err != nil {
		return fmt.Errorf("TLS key file: %w", err)
	}

	// Validate the pair up front so misconfiguration fails at startup, not
	// on the first connection.
	if _, err := tls.LoadX509KeyPair(s.TLSConfig.CertFile, s.TLSConfig.KeyFile); err != nil {
		return fmt.Errorf("failed to load server cert/key: %w", err)
	}

	httpServer.TLSConfig = &tls.Config{
		MinVersion: s.minTLSVersion(),
	}

	fmt.Printf("Starting server with HTTPS on https://%s\n", httpServer.Addr)
	return nil
}

// minTLSVersion resolves the configured minimum TLS version
func (s *Server) minTLSVersion() uint16 {
	switch s.TLSConfig.MinVersion {
	case "1.3":
		return tls.VersionTLS13
	default:
		return tls.VersionTLS12
	}
}

func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}
