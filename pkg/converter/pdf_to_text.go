package converter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/dskvich/claim-analyzer/pkg/domain"
)

type PDFToText struct{}

// Extract returns the text of every page in page order, each page terminated by a
// newline, with surrounding whitespace trimmed.
func (p *PDFToText) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	if doc.Empty() {
		return "", &domain.ExtractionError{Document: kindOf(doc), Err: fmt.Errorf("document is empty")}
	}

	text, err := readPlainText(ctx, bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return "", &domain.ExtractionError{Document: doc.Kind, Err: err}
	}

	slog.DebugContext(ctx, "Extracted PDF text", "document", doc.Kind, "name", doc.Name, "bytes", len(doc.Data), "chars", len(text))

	return text, nil
}

// readPlainText recovers from parser panics, which the reader raises on some malformed inputs.
func readPlainText(ctx context.Context, r io.ReaderAt, size int64) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("malformed PDF: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("reading page %d: %w", i, err)
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	return strings.TrimSpace(sb.String()), nil
}

func kindOf(doc *domain.Document) domain.DocumentKind {
	if doc == nil {
		return ""
	}
	return doc.Kind
}
