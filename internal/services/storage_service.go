// internal/services/storage_service.go
package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/gisportal/evisa-backend/internal/config"
)

// MaxDocumentSize caps a single supporting document.
const MaxDocumentSize = 5 * 1024 * 1024 // 5MB

// DocumentKeyPrefix namespaces uploads under the payment reference so that
// documents can be tied to an application record that does not exist yet.
const DocumentKeyPrefix = "applications"

var (
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")
	ErrBadFileType  = errors.New("file type not allowed")
)

var allowedContentTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

type StorageService struct {
	s3Client *s3.S3
	config   *config.Config

	// localObjects stands in for the bucket when S3 is not configured,
	// which keeps development and tests off the network.
	localObjects map[string]int64
}

type UploadResult struct {
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

func NewStorageService(config *config.Config) (*StorageService, error) {
	if config.AWS.AccessKeyID == "" {
		// Return service without S3 for local development
		return &StorageService{config: config, localObjects: make(map[string]int64)}, nil
	}

	// Create AWS session
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   config,
	}, nil
}

// UploadDocument validates and stores one supporting document under the
// caller-supplied payment reference. Validation failures come back as
// ErrFileTooLarge / ErrBadFileType so the handler can report them per file.
func (s *StorageService) UploadDocument(file multipart.File, header *multipart.FileHeader, paymentReference string) (*UploadResult, error) {
	if header.Size > MaxDocumentSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, header.Size)
	}

	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBadFileType, contentType)
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(fileBytes)) > MaxDocumentSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, len(fileBytes))
	}

	// Declared content type alone is client-controlled; check the signature too.
	if !sniffMatches(contentType, fileBytes) {
		return nil, fmt.Errorf("%w: content does not match declared type %s", ErrBadFileType, contentType)
	}

	key := s.documentKey(paymentReference, ext)

	if s.s3Client != nil {
		if err := s.putObject(key, fileBytes, contentType); err != nil {
			return nil, err
		}
	} else {
		s.localObjects[key] = int64(len(fileBytes))
	}

	return &UploadResult{
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) putObject(key string, fileBytes []byte, contentType string) error {
	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
	}

	if _, err := s.s3Client.PutObject(params); err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

// ObjectExists reports whether a key is present in storage. The verification
// service uses it to refuse document paths that no upload ever produced.
func (s *StorageService) ObjectExists(key string) (bool, error) {
	if s.s3Client == nil {
		_, ok := s.localObjects[key]
		return ok, nil
	}

	_, err := s.s3Client.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && (aerr.Code() == "NotFound" || aerr.Code() == s3.ErrCodeNoSuchKey) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object %s: %w", key, err)
	}
	return true, nil
}

// GeneratePresignedURL returns a short-lived read URL. Documents are never
// served through permanent public links.
func (s *StorageService) GeneratePresignedURL(key string, expiration time.Duration) (string, error) {
	if s.s3Client == nil {
		return fmt.Sprintf("http://localhost:%s/uploads/%s", s.config.Server.Port, key), nil
	}

	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})

	url, err := req.Presign(expiration)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url, nil
}

// KeyBelongsToReference reports whether a storage key sits inside the
// namespace of the given payment reference.
func KeyBelongsToReference(key, paymentReference string) bool {
	return strings.HasPrefix(key, fmt.Sprintf("%s/%s/", DocumentKeyPrefix, paymentReference))
}

func (s *StorageService) documentKey(paymentReference, ext string) string {
	id := uuid.New()
	timestamp := time.Now().Format("20060102")
	filename := fmt.Sprintf("%s_%s%s", timestamp, id.String()[:8], ext)
	return fmt.Sprintf("%s/%s/%s", DocumentKeyPrefix, paymentReference, filename)
}

func sniffMatches(contentType string, data []byte) bool {
	switch contentType {
	case "application/pdf":
		return len(data) >= 5 && string(data[:5]) == "%PDF-"
	case "image/jpeg":
		return len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF
	case "image/png":
		return len(data) >= 4 && data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47
	}
	return false
}

// Ext returns the canonical extension for a stored key, used by admin review
// listings.
func Ext(key string) string {
	return strings.ToLower(filepath.Ext(key))
}
