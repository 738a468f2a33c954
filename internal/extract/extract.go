// Package extract turns uploaded binary documents into plain text for the
// segmenter. Extraction is an opaque upstream step; only the extracted text
// flows into the core pipeline.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	apperrors "github.com/docduel/docduel/internal/errors"
)

// Text extracts plain text from the uploaded file content. PDF files are
// parsed; .txt and .md pass through as-is. Other formats are rejected with a
// validation error (only extracted plain text is supported downstream).
func Text(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return fromPDF(data)
	case ".txt", ".md":
		return string(data), nil
	default:
		return "", apperrors.NewValidationError("file",
			fmt.Sprintf("unsupported file type %q: only .pdf, .txt and .md are accepted", filepath.Ext(filename)))
	}
}

func fromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", apperrors.NewValidationError("file", "could not extract any text from the PDF")
	}

	return text, nil
}
