package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

// StorageServiceInterface uploads rendered mockups to object storage
type StorageServiceInterface interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// SupabaseStorageService uploads objects through the Supabase Storage REST API
type SupabaseStorageService struct {
	baseURL    string
	serviceKey string
	bucket     string
	httpClient *http.Client
}

// Ensure SupabaseStorageService implements StorageServiceInterface
var _ StorageServiceInterface = (*SupabaseStorageService)(nil)

// NewSupabaseStorageService creates an uploader for bucket
func NewSupabaseStorageService(baseURL, serviceKey, bucket string) *SupabaseStorageService {
	return &SupabaseStorageService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		bucket:     bucket,
		httpClient: &http.Client{},
	}
}

// Upload stores data at path inside the bucket, replacing any existing
// object, and returns its public URL
func (s *SupabaseStorageService) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	path = strings.TrimLeft(path, "/")
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, path)

	log.Printf("📤 Uploading mockup to storage: %s (%d bytes)", path, len(data))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload mockup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	publicURL := s.PublicURL(path)
	log.Printf("✅ Mockup uploaded successfully: %s", publicURL)
	return publicURL, nil
}

// PublicURL returns the public URL of an object in the bucket
func (s *SupabaseStorageService) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, strings.TrimLeft(path, "/"))
}
