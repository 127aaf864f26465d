package audio

import (
	"strings"
)

// ValidateText checks that text contains something to pronounce
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	return nil
}
