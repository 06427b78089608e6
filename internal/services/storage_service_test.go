// internal/services/storage_service_test.go
package services

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gisportal/evisa-backend/internal/config"
)

var (
	pdfBytes  = []byte("%PDF-1.7\nminimal test document")
	jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	pngBytes  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
)

func newLocalStorage(t *testing.T) *StorageService {
	cfg := &config.Config{}
	cfg.Server.Port = "8080"

	svc, err := NewStorageService(cfg)
	require.NoError(t, err)
	require.Nil(t, svc.s3Client, "expected local mode when no AWS credentials are set")
	return svc
}

// makeFileHeader builds a real multipart.FileHeader by round-tripping the
// payload through a multipart form, the same shape gin hands to handlers.
func makeFileHeader(t *testing.T, filename, contentType string, data []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="documents"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)

	headers := form.File["documents"]
	require.Len(t, headers, 1)

	file, err := headers[0].Open()
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })

	return file, headers[0]
}

func TestUploadDocumentStoresUnderReference(t *testing.T) {
	svc := newLocalStorage(t)

	file, header := makeFileHeader(t, "passport.pdf", "application/pdf", pdfBytes)
	result, err := svc.UploadDocument(file, header, "PSK_REF_100")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Key, "applications/PSK_REF_100/"))
	assert.True(t, strings.HasSuffix(result.Key, ".pdf"))
	assert.Equal(t, int64(len(pdfBytes)), result.Size)
	assert.Equal(t, "application/pdf", result.MimeType)

	exists, err := svc.ObjectExists(result.Key)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUploadDocumentAcceptsImages(t *testing.T) {
	svc := newLocalStorage(t)

	file, header := makeFileHeader(t, "photo.jpg", "image/jpeg", jpegBytes)
	result, err := svc.UploadDocument(file, header, "PSK_REF_101")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.Key, ".jpg"))

	file, header = makeFileHeader(t, "photo.png", "image/png", pngBytes)
	result, err = svc.UploadDocument(file, header, "PSK_REF_101")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.Key, ".png"))
}

func TestUploadDocumentRejectsOversizedFile(t *testing.T) {
	svc := newLocalStorage(t)

	big := append([]byte("%PDF-"), bytes.Repeat([]byte("a"), MaxDocumentSize)...)
	file, header := makeFileHeader(t, "huge.pdf", "application/pdf", big)

	_, err := svc.UploadDocument(file, header, "PSK_REF_102")
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestUploadDocumentRejectsDisallowedType(t *testing.T) {
	svc := newLocalStorage(t)

	file, header := makeFileHeader(t, "macro.docm", "application/vnd.ms-word.document.macroEnabled.12", []byte("PK"))
	_, err := svc.UploadDocument(file, header, "PSK_REF_103")
	assert.ErrorIs(t, err, ErrBadFileType)
}

func TestUploadDocumentRejectsMismatchedSignature(t *testing.T) {
	svc := newLocalStorage(t)

	// Declared as PDF, but the bytes are an executable-looking payload.
	file, header := makeFileHeader(t, "fake.pdf", "application/pdf", []byte("MZ\x90\x00 not a pdf"))
	_, err := svc.UploadDocument(file, header, "PSK_REF_104")
	assert.ErrorIs(t, err, ErrBadFileType)
}

func TestObjectExistsUnknownKey(t *testing.T) {
	svc := newLocalStorage(t)

	exists, err := svc.ObjectExists("applications/NOPE/20250101_deadbeef.pdf")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestKeyBelongsToReference(t *testing.T) {
	assert.True(t, KeyBelongsToReference("applications/PSK_1/20250101_aaaa.pdf", "PSK_1"))
	assert.False(t, KeyBelongsToReference("applications/PSK_2/20250101_aaaa.pdf", "PSK_1"))
	// A reference that is a prefix of another must not leak across namespaces.
	assert.False(t, KeyBelongsToReference("applications/PSK_10/20250101_aaaa.pdf", "PSK_1"))
	assert.False(t, KeyBelongsToReference("../etc/passwd", "PSK_1"))
	assert.False(t, KeyBelongsToReference("uploads/PSK_1/file.pdf", "PSK_1"))
}

func TestExt(t *testing.T) {
	assert.Equal(t, ".pdf", Ext("applications/PSK_1/20250101_aaaa.pdf"))
	assert.Equal(t, ".jpg", Ext("applications/PSK_1/20250101_aaaa.JPG"))
	assert.Equal(t, "", Ext("applications/PSK_1/noext"))
}
