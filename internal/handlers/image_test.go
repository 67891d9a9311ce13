package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideahub/internal/services"
)

type fakeUploader struct {
	configured bool
	err        error
}

func (f *fakeUploader) Configured() bool { return f.configured }

func (f *fakeUploader) Upload(ctx context.Context, file io.Reader, filename string) (*services.ImageUploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.ImageUploadResult{URL: "https://res.example.com/" + filename, ID: "img1"}, nil
}

func uploadRequest(t *testing.T, contentType string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="bench.png"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	part.Write([]byte("PNGDATA"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImageHandler_Upload(t *testing.T) {
	tests := []struct {
		name        string
		uploader    *fakeUploader
		contentType string
		wantStatus  int
	}{
		{"uploaded", &fakeUploader{configured: true}, "image/png", http.StatusOK},
		{"not an image", &fakeUploader{configured: true}, "text/plain", http.StatusBadRequest},
		{"not configured", &fakeUploader{}, "image/png", http.StatusInternalServerError},
		{"host rejected", &fakeUploader{configured: true, err: errors.New("upload rejected")}, "image/png", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestEngine(member("u1"))
			r.POST("/api/upload", NewImageHandler(tt.uploader).Upload)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, uploadRequest(t, tt.contentType))
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"url":"https://res.example.com/bench.png"`)
			}
		})
	}
}
