// Package gemini generates hug images from reference photos with the Gemini
// image model.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hug-studio-backend/internal/apperr"
)

const aspectRatioSquare = "1:1"

// InputImage is one reference photo sent inline with the prompt.
type InputImage struct {
	MIMEType string
	Data     []byte
}

// Image is the generated picture.
type Image struct {
	MIMEType string
	Data     []byte
}

// Client calls generateContent over REST with the x-goog-api-key header.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

type inlineData struct {
	MIMEType string `json:"mime_type,omitempty"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	ResponseModalities []string    `json:"responseModalities"`
	ImageConfig        imageConfig `json:"imageConfig"`
}

type imageConfig struct {
	AspectRatio string `json:"aspectRatio"`
}

// responseData accepts both the camelCase and the snake_case spelling of the
// inline payload.
type responseData struct {
	MIMEType      string `json:"mimeType"`
	MIMETypeSnake string `json:"mime_type"`
	Data          string `json:"data"`
}

type responsePart struct {
	Text            string        `json:"text,omitempty"`
	InlineData      *responseData `json:"inlineData,omitempty"`
	InlineDataSnake *responseData `json:"inline_data,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []responsePart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// PromptText is the text part sent ahead of the reference images.
func PromptText(prompt string) string {
	return "Here are the input images. " + prompt
}

func (c *Client) GenerateImage(ctx context.Context, prompt string, images []InputImage) (*Image, error) {
	parts := []part{{Text: PromptText(prompt)}}
	for _, img := range images {
		parts = append(parts, part{InlineData: &inlineData{
			MIMEType: img.MIMEType,
			Data:     base64.StdEncoding.EncodeToString(img.Data),
		}})
	}

	jsonData, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: parts}},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"Image"},
			ImageConfig:        imageConfig{AspectRatio: aspectRatioSquare},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/models/" + c.model + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperr.Provider(0, fmt.Sprintf("failed to reach Gemini: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Provider(0, fmt.Sprintf("failed to read Gemini response: %v", err))
	}

	var result generateResponse
	decodeErr := json.Unmarshal(body, &result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := "Failed to generate image with Gemini"
		if decodeErr == nil && result.Error != nil && result.Error.Message != "" {
			message = result.Error.Message
		}
		return nil, apperr.Provider(resp.StatusCode, message)
	}
	if decodeErr != nil {
		return nil, apperr.Provider(0, fmt.Sprintf("malformed Gemini response: %v", decodeErr))
	}

	return firstImage(result)
}

func firstImage(result generateResponse) (*Image, error) {
	if len(result.Candidates) == 0 {
		return nil, apperr.Provider(0, "No image data returned from Gemini")
	}

	for _, p := range result.Candidates[0].Content.Parts {
		inline := p.InlineData
		if inline == nil {
			inline = p.InlineDataSnake
		}
		if inline == nil || inline.Data == "" {
			continue
		}

		data, err := base64.StdEncoding.DecodeString(inline.Data)
		if err != nil {
			return nil, apperr.Provider(0, fmt.Sprintf("malformed Gemini image data: %v", err))
		}

		mimeType := inline.MIMEType
		if mimeType == "" {
			mimeType = inline.MIMETypeSnake
		}
		return &Image{MIMEType: mimeType, Data: data}, nil
	}

	return nil, apperr.Provider(0, "No image data returned from Gemini")
}
