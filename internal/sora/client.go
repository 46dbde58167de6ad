// Package sora talks to the OpenAI video generation API.
package sora

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hug-studio-backend/internal/apperr"
)

const (
	msgVerificationRequired = "🔒 Sora 2 Access Required: Your OpenAI organization needs verification for Sora 2. Even after verification, it can take 15-30 minutes for access to activate. Please try again later or contact OpenAI support."
	msgVerificationSteps    = "\n\nSteps to resolve:\n1. Verify your organization at https://platform.openai.com/settings/organization/general\n2. Wait 15-30 minutes after verification\n3. Generate a new API key\n4. Make sure your API key has Sora 2 access"
	msgAccessDenied         = "🔒 Access Denied: Your API key does not have access to Sora 2. Please check your OpenAI account settings."
	msgInvalidKey           = "🔑 Invalid API Key: Please check your OPENAI_API_KEY configuration."
	msgRateLimited          = "⏱️ Rate Limit: Too many requests. Please wait a moment and try again."
)

type Client struct {
	baseURL    string
	apiKey     string
	orgID      string
	model      string
	httpClient *http.Client
}

// Video is the provider's job object. Raw keeps every field the provider
// sent, since the location of the result differs between API revisions.
type Video struct {
	ID       string
	Status   string
	Progress *float64
	Raw      map[string]any
}

type createVideoRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type errorBody struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

func NewClient(baseURL, apiKey, orgID, model string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		orgID:   orgID,
		model:   model,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateVideo submits a generation job.
func (c *Client) CreateVideo(ctx context.Context, prompt string) (*Video, error) {
	jsonData, err := json.Marshal(createVideoRequest{Model: c.model, Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/videos", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, apperr.Provider(status, createErrorMessage(status, body))
	}

	return decodeVideo(body)
}

// GetVideo fetches the current state of a job.
func (c *Client) GetVideo(ctx context.Context, id string) (*Video, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/videos/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, apperr.Provider(status, providerMessage(body, "Failed to retrieve video status"))
	}

	return decodeVideo(body)
}

// Download fetches a finished asset. Credentials are attached only when the
// URL points at the provider API itself; pre-signed CDN links get none.
func (c *Client) Download(ctx context.Context, assetURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.IsProviderURL(assetURL) {
		c.authorize(req)
	}

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, apperr.Download(status, fmt.Sprintf("Failed to download video from OpenAI: %d %s", status, string(body)))
	}
	return body, nil
}

// IsProviderURL reports whether assetURL is served by the provider API host.
func (c *Client) IsProviderURL(assetURL string) bool {
	asset, err := url.Parse(assetURL)
	if err != nil {
		return false
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(asset.Host, base.Host)
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.orgID != "" {
		req.Header.Set("OpenAI-Organization", c.orgID)
	}
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		return 0, nil, apperr.Provider(0, fmt.Sprintf("failed to reach OpenAI: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, apperr.Provider(0, fmt.Sprintf("failed to read OpenAI response: %v", err))
	}
	return resp.StatusCode, body, nil
}

func decodeVideo(body []byte) (*Video, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, apperr.Provider(0, fmt.Sprintf("malformed OpenAI video response: %v", err))
	}

	video := &Video{Raw: raw}
	video.ID, _ = raw["id"].(string)
	video.Status, _ = raw["status"].(string)
	if p, ok := raw["progress"].(float64); ok {
		video.Progress = &p
	}
	return video, nil
}

func providerMessage(body []byte, fallback string) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		if text := strings.TrimSpace(string(body)); text != "" {
			return text
		}
		return fallback
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return fallback
}

// createErrorMessage turns the common failure statuses into guidance the
// user can act on.
func createErrorMessage(status int, body []byte) string {
	message := providerMessage(body, "Failed to create video")

	switch {
	case status == http.StatusForbidden && strings.Contains(message, "verified"):
		return msgVerificationRequired + msgVerificationSteps
	case status == http.StatusForbidden:
		return msgAccessDenied
	case status == http.StatusUnauthorized:
		return msgInvalidKey
	case status == http.StatusTooManyRequests:
		return msgRateLimited
	}
	return message
}
