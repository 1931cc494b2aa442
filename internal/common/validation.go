package common

import (
	"fmt"
	"slices"
)

// ValidateOutputFormat checks a requested rendering format for optimization
// results and score breakdowns against the configured format list.
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format %q: resume output can be rendered as %v",
		format, supportedFormats)
}

// GetSupportedFormats returns the configured rendering formats, used for
// shell completion of the --format flag.
func GetSupportedFormats(supportedFormats []string) []string {
	return supportedFormats
}
