package extractor

import (
	"bytes"
	"strings"

	"github.com/cloo-solutions/lexora/internal/domain"
	docxlib "github.com/fumiama/go-docx"
)

// extractDOCX pulls paragraph text out of a DOCX document, preserving
// paragraph structure as blank-line separated blocks.
func extractDOCX(data []byte) (string, error) {
	doc, err := docxlib.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.ErrExtraction.WithCause(err)
	}

	var buf strings.Builder
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docxlib.Paragraph)
		if !ok {
			continue
		}
		text := paragraphText(para)
		if text == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(text)
	}

	out := strings.TrimSpace(buf.String())
	if out == "" {
		return "", domain.ErrEmptyDocument
	}
	return out, nil
}

func paragraphText(para *docxlib.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docxlib.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docxlib.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
