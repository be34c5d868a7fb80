package scanning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// slipScanPrompt is the fixed instruction sent with every slip image.
const slipScanPrompt = `You are an expert OCR system for Thai bank transfer slips. ` +
	`Analyze the provided image. Extract the following information precisely: ` +
	`1. The total transfer amount. 2. The date of the transfer. ` +
	`Format the date as 'YYYY-MM-DD'. Respond ONLY with a JSON object with keys ` +
	`"amount" (number) and "date" (string). If any piece of information cannot ` +
	`be determined, its value should be null.`

const scanTimeout = 30 * time.Second

// Gemini implements the Scanner interface using Google Gemini.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a new Gemini Scanner instance.
func NewGemini(ctx context.Context, apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// ScanSlip sends the slip image with the fixed prompt and parses the
// JSON reply. Any transport or parse failure comes back as ErrExtraction.
func (g *Gemini) ScanSlip(ctx context.Context, image []byte, mimeType string) (*SlipData, error) {
	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	// genai.ImageData expects the format suffix ("jpeg"), not the full
	// MIME type ("image/jpeg").
	format := "jpeg"
	if rest, ok := strings.CutPrefix(mimeType, "image/"); ok && rest != "" {
		format = rest
	}

	parts := []genai.Part{
		genai.ImageData(format, image),
		genai.Text(slipScanPrompt),
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("%w: generating content: %w", ErrExtraction, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty model response", ErrExtraction)
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	data, err := parseSlipJSON(responseText.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	return data, nil
}

// Close closes the Gemini client.
func (g *Gemini) Close() error {
	return g.client.Close()
}
