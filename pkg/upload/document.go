// Package upload turns multipart file uploads into domain documents.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gabriel-vasile/mimetype"

	"github.com/dskvich/claim-analyzer/pkg/domain"
)

const pdfMIME = "application/pdf"

// FormFile is the subset of echo.Context used to fetch uploads.
type FormFile interface {
	FormFile(name string) (*multipart.FileHeader, error)
}

// Document reads the upload in field kind. A missing field, or a request that is not
// multipart at all, returns (nil, nil).
func Document(form FormFile, kind domain.DocumentKind) (*domain.Document, error) {
	fh, err := form.FormFile(string(kind))
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s upload: %w", kind, err)
	}

	return ReadDocument(fh, kind)
}

func ReadDocument(fh *multipart.FileHeader, kind domain.DocumentKind) (*domain.Document, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s upload: %w", kind, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s upload: %w", kind, err)
	}

	return NewDocument(kind, fh.Filename, data)
}

// NewDocument accepts only non-empty data that sniffs as a PDF.
func NewDocument(kind domain.DocumentKind, name string, data []byte) (*domain.Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%s %q is empty: %w", kind.Title(), name, domain.ErrInvalidDocument)
	}

	if mime := mimetype.Detect(data); !mime.Is(pdfMIME) {
		return nil, fmt.Errorf("%s %q is %s: %w", kind.Title(), name, mime.String(), domain.ErrInvalidDocument)
	}

	return &domain.Document{Kind: kind, Name: name, Data: data}, nil
}
