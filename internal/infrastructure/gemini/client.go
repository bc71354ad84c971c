package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/yourusername/caderneta-bot/internal/domain/constants"
	"github.com/yourusername/caderneta-bot/internal/domain/entity"
	"github.com/yourusername/caderneta-bot/internal/domain/repository"
)

type geminiClient struct {
	client      *genai.Client
	parseModel  *genai.GenerativeModel
	visionModel *genai.GenerativeModel
}

// NewGeminiClient creates the AI parser backed by two models sharing one
// connection: a text model for intent parsing and a vision model for product
// photos.
func NewGeminiClient(apiKey string) (repository.AIParser, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	parseModel := client.GenerativeModel(constants.GeminiModelName)
	parseModel.SetTemperature(constants.AITemperature)
	parseModel.SetTopK(constants.AITopK)
	parseModel.SetTopP(constants.AITopP)
	parseModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(parseInstruction)},
	}

	visionModel := client.GenerativeModel(constants.GeminiModelName)
	visionModel.SetTemperature(constants.AITemperature)
	visionModel.SetTopK(constants.AITopK)
	visionModel.SetTopP(constants.AITopP)
	visionModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(visionInstruction)},
	}

	return &geminiClient{
		client:      client,
		parseModel:  parseModel,
		visionModel: visionModel,
	}, nil
}

// ParseMessage asks the model for a structured read of one utterance.
func (g *geminiClient) ParseMessage(ctx context.Context, text string) (*entity.ParsedIntent, error) {
	raw, err := g.generateWithRetry(ctx, g.parseModel, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}

	var intent entity.ParsedIntent
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &intent); err != nil {
		return nil, fmt.Errorf("decode intent json: %w (resposta: %.200s)", err, raw)
	}
	intent.Intent = strings.ToLower(strings.TrimSpace(intent.Intent))
	return &intent, nil
}

// RecognizeProduct identifies the product in a photo.
func (g *geminiClient) RecognizeProduct(ctx context.Context, imageData []byte, mimeType string) (*entity.ImageRecognition, error) {
	format := strings.TrimPrefix(mimeType, "image/")
	if format == "" || strings.Contains(format, "/") {
		format = "jpeg"
	}

	raw, err := g.generateWithRetry(ctx, g.visionModel,
		genai.ImageData(format, imageData),
		genai.Text("Identifique o produto desta foto."),
	)
	if err != nil {
		return nil, fmt.Errorf("recognize product: %w", err)
	}

	var rec entity.ImageRecognition
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &rec); err != nil {
		return nil, fmt.Errorf("decode recognition json: %w (resposta: %.200s)", err, raw)
	}
	rec.ProductName = strings.TrimSpace(rec.ProductName)
	return &rec, nil
}

func (g *geminiClient) generateWithRetry(ctx context.Context, model *genai.GenerativeModel, parts ...genai.Part) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= constants.MaxRetries; attempt++ {
		resp, err := model.GenerateContent(ctx, parts...)
		if err == nil {
			text := extractText(resp)
			if strings.TrimSpace(text) != "" {
				return text, nil
			}
			err = fmt.Errorf("empty response")
		}
		lastErr = err
		log.Printf("gemini: tentativa %d/%d falhou: %v", attempt, constants.MaxRetries, err)

		if attempt < constants.MaxRetries {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(constants.RetryDelaySeconds * time.Second):
			}
		}
	}
	return "", fmt.Errorf("gemini indisponível após %d tentativas: %w", constants.MaxRetries, lastErr)
}

func extractText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			b.WriteString(fmt.Sprintf("%v", part))
		}
	}
	return b.String()
}

// stripJSONFences tolerates models that wrap the JSON in markdown fences
// despite the instruction.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Close releases the underlying connection.
func (g *geminiClient) Close() error {
	return g.client.Close()
}
