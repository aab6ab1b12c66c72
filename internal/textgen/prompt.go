package textgen

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxReviewLength = 1200

var toneHints = map[string]string{
	"friendly":     "warm and friendly, like a regular customer",
	"professional": "factual and professional",
	"enthusiastic": "enthusiastic but believable",
	"neutral":      "calm and neutral",
}

// BuildPrompt собирает промпт. Ответ ожидается JSON-массивом объектов.
func BuildPrompt(req GenerationRequest) string {
	var b strings.Builder

	language := req.Language
	if language == "" {
		language = "fr"
	}
	tone, ok := toneHints[req.Tone]
	if !ok {
		tone = toneHints["friendly"]
	}

	fmt.Fprintf(&b, "Write %d distinct Google Maps reviews for the business %q", req.Quantity, req.CompanyName)
	if req.Sector != "" {
		fmt.Fprintf(&b, " (sector: %s)", req.Sector)
	}
	if req.City != "" {
		fmt.Fprintf(&b, " located in %s", req.City)
	}
	b.WriteString(".\n")
	fmt.Fprintf(&b, "Language: %s. Tone: %s.\n", language, tone)
	b.WriteString("Each review must read like a different real person: vary length, details and structure, ")
	b.WriteString("no links, no phone numbers, no marketing phrases. Ratings are 4 or 5, occasionally 3.\n")
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		fmt.Fprintf(&b, "Details from the owner: %s\n", notes)
	}
	b.WriteString(`Reply with a JSON array only: [{"author_name": string, "rating": integer 1-5, "content": string}]`)

	return b.String()
}

// ParseReviews разбирает ответ модели, отбрасывает пустые отзывы и режет лишние
func ParseReviews(raw string, want int) ([]GeneratedReview, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var reviews []GeneratedReview
	if err := json.Unmarshal([]byte(text), &reviews); err != nil {
		// иногда модель заворачивает массив в объект {"reviews": [...]}
		var wrapped struct {
			Reviews []GeneratedReview `json:"reviews"`
		}
		if err2 := json.Unmarshal([]byte(text), &wrapped); err2 != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
		}
		reviews = wrapped.Reviews
	}

	out := make([]GeneratedReview, 0, len(reviews))
	for _, r := range reviews {
		r.Content = strings.TrimSpace(r.Content)
		r.AuthorName = strings.TrimSpace(r.AuthorName)
		if r.Content == "" {
			continue
		}
		if r.AuthorName == "" {
			r.AuthorName = "Client"
		}
		r.Rating = min(max(r.Rating, 1), 5)
		if utf8.RuneCountInString(r.Content) > maxReviewLength {
			r.Content = string([]rune(r.Content)[:maxReviewLength])
		}
		out = append(out, r)
		if want > 0 && len(out) == want {
			break
		}
	}

	if len(out) == 0 {
		return nil, ErrEmptyResponse
	}
	return out, nil
}
