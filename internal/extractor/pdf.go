package extractor

import (
	"bytes"
	"strings"

	"github.com/cloo-solutions/lexora/internal/domain"
	pdflib "github.com/ledongthuc/pdf"
)

// extractPDF pulls plain text out of a PDF, pages separated by form feeds.
func extractPDF(data []byte) (string, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.ErrExtraction.WithCause(err)
	}

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\f")
		}
		buf.WriteString(text)
	}

	out := strings.TrimSpace(buf.String())
	if out == "" {
		return "", domain.ErrEmptyDocument
	}
	return out, nil
}
