package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()

	resume := filepath.Join(dir, "resume.txt")
	if err := os.WriteFile(resume, []byte("EXPERIENCE\nBuilt things."), 0600); err != nil {
		t.Fatal(err)
	}
	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, nil, 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		filename    string
		expectError bool
	}{
		{"readable resume", resume, false},
		{"empty filename", "", true},
		{"missing file", filepath.Join(dir, "nope.txt"), true},
		{"directory", dir, true},
		{"empty file", empty, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputFile(tt.filename)
			if tt.expectError && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestIsTextFile(t *testing.T) {
	tests := []struct {
		filename string
		expected bool
	}{
		{"resume.txt", true},
		{"resume.md", true},
		{"resume.markdown", true},
		{"RESUME.TXT", true},
		{"optimized.html", true},
		{"optimized.htm", true},
		{"resume.pdf", false},
		{"resume.docx", false},
		{"resume", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := IsTextFile(tt.filename); got != tt.expected {
				t.Errorf("IsTextFile(%q) = %v, expected %v", tt.filename, got, tt.expected)
			}
		})
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size     int64
		expected string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
	}

	for _, tt := range tests {
		if got := FormatFileSize(tt.size); got != tt.expected {
			t.Errorf("FormatFileSize(%d) = %q, expected %q", tt.size, got, tt.expected)
		}
	}
}
