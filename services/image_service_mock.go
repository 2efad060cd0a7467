package services

import (
	"fmt"
	"mime/multipart"
	"sync"

	"github.com/brijaao-ops/brilhoessenza-sub000/utils"
)

// MockImageService is a mock implementation of ImageService for testing
type MockImageService struct {
	uploadedImages map[string]string // key prefix+filename -> URL
	failPrefixes   map[string]bool
	mu             sync.RWMutex
}

// NewMockImageService creates a new mock image service
func NewMockImageService() *MockImageService {
	return &MockImageService{
		uploadedImages: make(map[string]string),
		failPrefixes:   make(map[string]bool),
	}
}

// SetAsMockForTesting sets this mock as the global image service instance for testing
func (m *MockImageService) SetAsMockForTesting() {
	SetImageService(m)
}

// FailUploadsFor makes uploads under the given key prefix fail
func (m *MockImageService) FailUploadsFor(keyPrefix string) {
	m.mu.Lock()
	m.failPrefixes[keyPrefix] = true
	m.mu.Unlock()
}

// UploadImage simulates a validated upload and returns a mock URL
func (m *MockImageService) UploadImage(fileHeader *multipart.FileHeader, keyPrefix string) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failPrefixes[keyPrefix] {
		return "", fmt.Errorf("simulated upload failure for prefix %s", keyPrefix)
	}

	key := fmt.Sprintf("%s/mock_%s", keyPrefix, fileHeader.Filename)
	url := fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s", key)
	m.uploadedImages[key] = url
	return url, nil
}

// UploadedCount returns how many images the mock holds (for assertions)
func (m *MockImageService) UploadedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.uploadedImages)
}

// Clear removes all images from mock storage
func (m *MockImageService) Clear() {
	m.mu.Lock()
	m.uploadedImages = make(map[string]string)
	m.failPrefixes = make(map[string]bool)
	m.mu.Unlock()
}
