package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// copywriterPersona is the fixed system instruction sent with every prompt.
const copywriterPersona = "You are a copywriter for a luxury perfume boutique in Angola. " +
	"Write short, elegant product copy in Portuguese. Never invent prices or stock."

// CopywriterInterface returns advisory product copy from an external
// text-generation API. Output is never used to drive business logic.
type CopywriterInterface interface {
	Advise(prompt string) (string, error)
}

// HTTPCopywriterService calls an external text-generation REST API.
type HTTPCopywriterService struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

var copywriterServiceInstance CopywriterInterface

// InitCopywriterService initializes the copy advice client. An empty apiURL
// leaves the feature disabled.
func InitCopywriterService(apiURL, apiKey string) CopywriterInterface {
	if apiURL == "" {
		copywriterServiceInstance = nil
		return nil
	}
	copywriterServiceInstance = &HTTPCopywriterService{
		apiURL: apiURL,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	return copywriterServiceInstance
}

// GetCopywriterService returns the configured service, or nil when disabled
func GetCopywriterService() CopywriterInterface {
	return copywriterServiceInstance
}

// SetCopywriterService sets the service instance (primarily for testing)
func SetCopywriterService(service CopywriterInterface) {
	copywriterServiceInstance = service
}

// Advise sends the persona and prompt and returns the completion text.
func (s *HTTPCopywriterService) Advise(prompt string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"system": copywriterPersona,
		"prompt": prompt,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode prompt: %w", err)
	}

	req, err := http.NewRequest("POST", s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create copywriter request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call copywriter endpoint: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("copywriter endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode copywriter response: %w", err)
	}

	return result.Text, nil
}

// MockCopywriterService is a mock implementation for testing
type MockCopywriterService struct {
	Text string
	Err  error
}

// SetAsMockForTesting sets this mock as the global copywriter instance
func (m *MockCopywriterService) SetAsMockForTesting() {
	SetCopywriterService(m)
}

// Advise returns the canned text or error
func (m *MockCopywriterService) Advise(prompt string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}
