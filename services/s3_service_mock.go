package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"sync"
)

// MockS3Service is a mock implementation of S3Service for testing
type MockS3Service struct {
	uploadedFiles map[string][]byte // map of S3 key to file content
	failPrefixes  map[string]bool   // key prefixes whose uploads should fail
	mu            sync.RWMutex
}

// NewMockS3Service creates a new mock S3 service
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{
		uploadedFiles: make(map[string][]byte),
		failPrefixes:  make(map[string]bool),
	}
}

// SetAsMockForTesting sets this mock as the global S3 service instance for testing
func (m *MockS3Service) SetAsMockForTesting() {
	SetS3Service(m)
}

// FailUploadsFor makes uploads under the given key prefix fail, so tests can
// exercise per-step failures in multi-image flows.
func (m *MockS3Service) FailUploadsFor(keyPrefix string) {
	m.mu.Lock()
	m.failPrefixes[keyPrefix] = true
	m.mu.Unlock()
}

// UploadFile simulates uploading a file to S3
func (m *MockS3Service) UploadFile(fileHeader *multipart.FileHeader, keyPrefix string) (string, error) {
	m.mu.RLock()
	shouldFail := m.failPrefixes[keyPrefix]
	m.mu.RUnlock()
	if shouldFail {
		return "", fmt.Errorf("simulated upload failure for prefix %s", keyPrefix)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	s3Key := fmt.Sprintf("%s/mock_%s", keyPrefix, fileHeader.Filename)

	m.mu.Lock()
	m.uploadedFiles[s3Key] = content
	m.mu.Unlock()

	return s3Key, nil
}

// PublicURL simulates the public URL of an uploaded object
func (m *MockS3Service) PublicURL(s3Key string) string {
	if s3Key == "" {
		return ""
	}
	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s", s3Key)
}

// DeleteFile simulates deleting a file from S3
func (m *MockS3Service) DeleteFile(s3Key string) error {
	if s3Key == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.uploadedFiles, s3Key)
	m.mu.Unlock()

	return nil
}

// FileExists checks if a file exists in mock storage
func (m *MockS3Service) FileExists(s3Key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.uploadedFiles[s3Key]
	return exists
}

// UploadedCount returns how many objects the mock holds (for assertions)
func (m *MockS3Service) UploadedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.uploadedFiles)
}

// Clear removes all files from mock storage
func (m *MockS3Service) Clear() {
	m.mu.Lock()
	m.uploadedFiles = make(map[string][]byte)
	m.failPrefixes = make(map[string]bool)
	m.mu.Unlock()
}
