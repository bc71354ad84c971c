package repository

import (
	"context"

	"github.com/yourusername/caderneta-bot/internal/domain/entity"
)

// AIParser is the external AI collaborator. Everything it returns is a
// best-effort hint and the bot must degrade gracefully without it.
type AIParser interface {
	// ParseMessage turns free text into a structured intent guess.
	ParseMessage(ctx context.Context, text string) (*entity.ParsedIntent, error)

	// RecognizeProduct identifies a product in a photo.
	RecognizeProduct(ctx context.Context, imageData []byte, mimeType string) (*entity.ImageRecognition, error)
}
