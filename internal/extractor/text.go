package extractor

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/cloo-solutions/lexora/internal/domain"
)

var errInvalidUTF8 = errors.New("payload is not valid UTF-8 text")

// extractText handles plain text payloads. Input must be valid UTF-8.
func extractText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", domain.ErrExtraction.WithCause(errInvalidUTF8)
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyDocument
	}
	return text, nil
}
