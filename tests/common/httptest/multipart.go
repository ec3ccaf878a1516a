//go:build unit || e2e

package httptest

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type File struct {
	Field       string
	Filename    string
	ContentType string
	Content     []byte
}

// PerformMultipartRequest sends fields and files as multipart/form-data.
func PerformMultipartRequest(t *testing.T, router *gin.Engine, method, path string, fields map[string]string, files []File, authToken string, opts ...RequestOption) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.Field+`"; filename="`+f.Filename+`"`)
		h.Set("Content-Type", f.ContentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.Content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return serve(router, req, append([]RequestOption{WithBearer(authToken)}, opts...)...)
}
