package ai

import (
	"testing"

	resumeliftErrors "resumelift/internal/errors"
)

func testLogger(t *testing.T) *resumeliftErrors.Logger {
	t.Helper()
	logger, err := resumeliftErrors.New("error")
	if err != nil {
		t.Fatalf("Failed to create test logger: %v", err)
	}
	return logger
}
