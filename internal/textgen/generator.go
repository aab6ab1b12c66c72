package textgen

import (
	"context"
	"errors"
)

var (
	ErrEmptyResponse  = errors.New("text generation returned no reviews")
	ErrNotConfigured  = errors.New("text generation is not configured")
	ErrMalformedReply = errors.New("text generation reply is not valid JSON")
)

// GenerationRequest - контекст фиши, из которого пишутся отзывы
type GenerationRequest struct {
	CompanyName string
	Sector      string
	City        string
	Tone        string
	Language    string
	Notes       string
	Quantity    int
}

type GeneratedReview struct {
	AuthorName string `json:"author_name"`
	Rating     int    `json:"rating"`
	Content    string `json:"content"`
}

// Generator - внешний сервис генерации текста. Детерминизм не гарантируется.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) ([]GeneratedReview, error)
}
