package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
	"hug-studio-backend/internal/apperr"
)

// SDKGenerator produces the same request as Client through the genai SDK.
// Selected with GEMINI_CLIENT=sdk.
type SDKGenerator struct {
	client *genai.Client
	model  string
	logger zerolog.Logger
}

func NewSDKGenerator(ctx context.Context, apiKey, model string, logger zerolog.Logger) (*SDKGenerator, error) {
	return newSDKGenerator(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model, logger)
}

func newSDKGenerator(ctx context.Context, cc *genai.ClientConfig, model string, logger zerolog.Logger) (*SDKGenerator, error) {
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &SDKGenerator{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (g *SDKGenerator) GenerateImage(ctx context.Context, prompt string, images []InputImage) (*Image, error) {
	parts := []*genai.Part{genai.NewPartFromText(PromptText(prompt))}
	for _, img := range images {
		parts = append(parts, genai.NewPartFromBytes(img.Data, img.MIMEType))
	}

	contents := []*genai.Content{{Parts: parts, Role: "user"}}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
		ImageConfig: &genai.ImageConfig{
			AspectRatio: aspectRatioSquare,
		},
	}

	// A 429 is surfaced as is; callers decide whether to try again.
	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		g.logger.Warn().Err(err).Str("model", g.model).Msg("gemini request failed")
		return nil, providerError(err)
	}

	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, p := range candidate.Content.Parts {
			if p.InlineData != nil && len(p.InlineData.Data) > 0 {
				return &Image{MIMEType: p.InlineData.MIMEType, Data: p.InlineData.Data}, nil
			}
		}
	}

	return nil, apperr.Provider(0, "No image data returned from Gemini")
}

func providerError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apperr.Provider(apiErr.Code, apiErr.Message)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apperr.Provider(apiErrPtr.Code, apiErrPtr.Message)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperr.Provider(0, err.Error())
}
