package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/claim-analyzer/pkg/domain"
	"github.com/dskvich/claim-analyzer/pkg/testutil"
)

func TestNewDocument(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{name: "pdf", data: testutil.BuildPDF("hello")},
		{name: "empty", data: nil, wantErr: true},
		{name: "plain text", data: []byte("just some text"), wantErr: true},
		{name: "png", data: []byte("\x89PNG\r\n\x1a\n0000"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := NewDocument(domain.DocumentPolicy, "policy.pdf", tt.data)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidDocument)
				assert.Nil(t, doc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.DocumentPolicy, doc.Kind)
			assert.Equal(t, "policy.pdf", doc.Name)
			assert.Equal(t, tt.data, doc.Data)
		})
	}
}

func TestDocument_FromMultipartRequest(t *testing.T) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("bill", "bill.pdf")
	require.NoError(t, err)
	_, err = part.Write(testutil.BuildPDF("Room rent 7000"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	c := echo.New().NewContext(req, httptest.NewRecorder())

	doc, err := Document(c, domain.DocumentBill)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "bill.pdf", doc.Name)

	missing, err := Document(c, domain.DocumentPolicy)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
