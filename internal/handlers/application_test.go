// internal/handlers/application_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gisportal/evisa-backend/internal/config"
	"github.com/gisportal/evisa-backend/internal/services"
	"github.com/gisportal/evisa-backend/internal/utils"
)

func newUploadRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Server.Port = "8080"

	storage, err := services.NewStorageService(cfg)
	require.NoError(t, err)

	handler := NewApplicationHandler(nil, storage)

	router := gin.New()
	router.POST("/v1/applications/documents", handler.UploadDocuments)
	router.GET("/v1/visa-types", handler.GetVisaTypes)
	return router
}

type multipartFile struct {
	filename    string
	contentType string
	data        []byte
}

func buildUploadRequest(t *testing.T, reference string, files []multipartFile) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if reference != "" {
		require.NoError(t, writer.WriteField("reference", reference))
	}

	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="documents"; filename="`+f.filename+`"`)
		header.Set("Content-Type", f.contentType)

		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/applications/documents", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()

	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestUploadDocumentsSuccess(t *testing.T) {
	router := newUploadRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, buildUploadRequest(t, "PSK_UP_1", []multipartFile{
		{"passport.pdf", "application/pdf", []byte("%PDF-1.7 test")},
		{"photo.jpg", "image/jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}},
	}))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	documents := data["documents"].([]interface{})
	require.Len(t, documents, 2)

	for _, doc := range documents {
		entry := doc.(map[string]interface{})
		path := entry["path"].(string)
		assert.True(t, strings.HasPrefix(path, "applications/PSK_UP_1/"))
		assert.Empty(t, entry["error"])
	}
}

func TestUploadDocumentsMissingReference(t *testing.T) {
	router := newUploadRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, buildUploadRequest(t, "", []multipartFile{
		{"passport.pdf", "application/pdf", []byte("%PDF-1.7 test")},
	}))

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
}

func TestUploadDocumentsNoFiles(t *testing.T) {
	router := newUploadRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, buildUploadRequest(t, "PSK_UP_2", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadDocumentsRejectsBadFileInBatch(t *testing.T) {
	router := newUploadRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, buildUploadRequest(t, "PSK_UP_3", []multipartFile{
		{"passport.pdf", "application/pdf", []byte("%PDF-1.7 test")},
		{"payload.exe", "application/x-msdownload", []byte("MZ")},
	}))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "DOCUMENT_REJECTED", resp.Error.Code)

	// The good file was stored before the batch failed and its path is
	// reported so the client can reuse it.
	results := resp.Error.Details.([]interface{})
	require.Len(t, results, 2)
	first := results[0].(map[string]interface{})
	assert.True(t, strings.HasPrefix(first["path"].(string), "applications/PSK_UP_3/"))
	second := results[1].(map[string]interface{})
	assert.NotEmpty(t, second["error"])
}

func TestUploadDocumentsRejectsSpoofedContent(t *testing.T) {
	router := newUploadRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, buildUploadRequest(t, "PSK_UP_4", []multipartFile{
		{"fake.pdf", "application/pdf", []byte("MZ executable payload")},
	}))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetVisaTypes(t *testing.T) {
	router := newUploadRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/visa-types", nil))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	visaTypes := data["visa_types"].([]interface{})
	require.NotEmpty(t, visaTypes)

	first := visaTypes[0].(map[string]interface{})
	assert.Equal(t, "Single Entry - 30 Days", first["name"])
	assert.Equal(t, "100.00", first["fee"])
	assert.Equal(t, "GHS", first["currency"])
}
