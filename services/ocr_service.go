package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/brijaao-ops/brilhoessenza-sub000/utils"
)

// OCRInterface extracts machine-readable text from an identity-document
// image. It is strictly advisory: mismatches produce warnings, never blocks,
// and the result never gates the driver verified flag.
type OCRInterface interface {
	ExtractText(image io.Reader) (string, error)
}

// HTTPOCRService calls an external OCR REST API.
type HTTPOCRService struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

var ocrServiceInstance OCRInterface

// InitOCRService initializes the OCR client. An empty apiURL leaves OCR
// disabled; registration then skips the advisory name check.
func InitOCRService(apiURL, apiKey string) OCRInterface {
	if apiURL == "" {
		ocrServiceInstance = nil
		return nil
	}
	ocrServiceInstance = &HTTPOCRService{
		apiURL: apiURL,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
	return ocrServiceInstance
}

// GetOCRService returns the configured OCR service, or nil when disabled
func GetOCRService() OCRInterface {
	return ocrServiceInstance
}

// SetOCRService sets the OCR service instance (primarily for testing)
func SetOCRService(service OCRInterface) {
	ocrServiceInstance = service
}

// ExtractText posts the image and returns the recognized text.
func (s *HTTPOCRService) ExtractText(image io.Reader) (string, error) {
	req, err := http.NewRequest("POST", s.apiURL, image)
	if err != nil {
		return "", fmt.Errorf("failed to create OCR request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call OCR endpoint: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("OCR endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode OCR response: %w", err)
	}

	return result.Text, nil
}

// NameMatchesDocument fuzzily checks that a registrant's stated name appears
// in the recognized document text: every name token longer than 2 characters
// must occur as a case- and diacritic-insensitive substring.
func NameMatchesDocument(statedName, documentText string) bool {
	doc := strings.ToLower(utils.StripDiacritics(documentText))
	for _, token := range strings.Fields(statedName) {
		if len([]rune(token)) <= 2 {
			continue
		}
		if !strings.Contains(doc, strings.ToLower(utils.StripDiacritics(token))) {
			return false
		}
	}
	return true
}

// MockOCRService is a mock implementation of OCRInterface for testing
type MockOCRService struct {
	Text string
	Err  error
}

// SetAsMockForTesting sets this mock as the global OCR service instance
func (m *MockOCRService) SetAsMockForTesting() {
	SetOCRService(m)
}

// ExtractText returns the canned text or error
func (m *MockOCRService) ExtractText(image io.Reader) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}
