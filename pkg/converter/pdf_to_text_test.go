package converter

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/claim-analyzer/pkg/domain"
	"github.com/dskvich/claim-analyzer/pkg/testutil"
)

func TestPDFToText_Extract(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
	}{
		{name: "single page", pages: []string{"Room rent covered up to 1 percent"}},
		{name: "pages in order", pages: []string{"Policy page one", "Policy page two", "Policy page three"}},
		{name: "surrounding whitespace", pages: []string{"   Total 5000   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &domain.Document{Kind: domain.DocumentPolicy, Name: "policy.pdf", Data: testutil.BuildPDF(tt.pages...)}

			text, err := (&PDFToText{}).Extract(context.Background(), doc)
			require.NoError(t, err)

			assert.Equal(t, strings.TrimSpace(text), text)
			assert.Equal(t, strings.Fields(strings.Join(tt.pages, "\n")), strings.Fields(text))
		})
	}
}

func TestPDFToText_ExtractErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  *domain.Document
	}{
		{name: "nil document", doc: nil},
		{name: "empty data", doc: &domain.Document{Kind: domain.DocumentBill, Name: "bill.pdf"}},
		{name: "not a pdf", doc: &domain.Document{Kind: domain.DocumentBill, Name: "bill.pdf", Data: []byte("hello, I am a text file")}},
		{name: "truncated pdf", doc: &domain.Document{Kind: domain.DocumentBill, Name: "bill.pdf", Data: testutil.BuildPDF("x")[:40]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&PDFToText{}).Extract(context.Background(), tt.doc)
			require.Error(t, err)

			var extractionErr *domain.ExtractionError
			assert.ErrorAs(t, err, &extractionErr)
		})
	}
}

func TestPDFToText_ExtractCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := &domain.Document{Kind: domain.DocumentPolicy, Name: "policy.pdf", Data: testutil.BuildPDF("a", "b")}

	_, err := (&PDFToText{}).Extract(ctx, doc)
	assert.ErrorIs(t, err, context.Canceled)
}
