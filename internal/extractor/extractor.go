// Package extractor converts raw document bytes into plain text.
package extractor

import (
	"path/filepath"
	"strings"

	"github.com/cloo-solutions/lexora/internal/domain"
)

// Format identifies a supported document format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatDOC  Format = "doc"
	FormatTXT  Format = "txt"
)

// SupportedFormats lists the formats Extract accepts.
var SupportedFormats = map[Format]bool{
	FormatPDF:  true,
	FormatDOCX: true,
	FormatDOC:  true,
	FormatTXT:  true,
}

// FormatForFilename derives a Format from a filename extension.
func FormatForFilename(filename string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	f := Format(ext)
	if !SupportedFormats[f] {
		return "", domain.ErrUnsupportedFormat
	}
	return f, nil
}

// Extract converts document bytes of the declared format into plain text,
// with table-of-contents noise stripped. It is a pure function: no shared
// state, same input gives same output. Returns UnsupportedFormat for unknown
// formats and ExtractionError when the bytes cannot be parsed as the
// declared format.
func Extract(data []byte, format Format) (string, error) {
	if len(data) == 0 {
		return "", domain.ErrEmptyDocument
	}

	var text string
	var err error
	switch format {
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatDOCX, FormatDOC:
		// Modern .doc files are almost always OOXML with a legacy
		// extension; genuine binary .doc payloads fail the zip parse and
		// surface as ExtractionError.
		text, err = extractDOCX(data)
	case FormatTXT:
		text, err = extractText(data)
	default:
		return "", domain.ErrUnsupportedFormat
	}
	if err != nil {
		return "", err
	}

	cleaned := cleanText(text)
	if strings.TrimSpace(cleaned) == "" {
		return "", domain.ErrEmptyDocument
	}
	return cleaned, nil
}
