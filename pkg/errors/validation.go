package errors

import (
	"strings"

	"github.com/google/uuid"
)

// Output formats an artifact can be rendered to.
var validFormats = map[string]bool{"svg": true, "png": true, "dot": true}

// ValidateViewerID checks that id is a UUID as issued by the service.
func ValidateViewerID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "viewer id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidID, err, "invalid viewer id %q", id)
	}
	return nil
}

// ValidateFormat checks a single output format.
func ValidateFormat(format string) error {
	if !validFormats[format] {
		return New(ErrCodeInvalidFormat, "invalid format: %s (must be 'svg', 'png' or 'dot')", format)
	}
	return nil
}

// ValidateFormats checks every format in the list.
func ValidateFormats(formats []string) error {
	if len(formats) == 0 {
		return New(ErrCodeInvalidFormat, "no output format given")
	}
	for _, f := range formats {
		if err := ValidateFormat(strings.TrimSpace(f)); err != nil {
			return err
		}
	}
	return nil
}
