package algorithms

import (
	"errors"
	"math"
)

var ErrUnknownQuestion = errors.New("unknown certification question")

type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	answer  int
}

type CertificationResult struct {
	Score   int  `json:"score"`
	Correct int  `json:"correct"`
	Total   int  `json:"total"`
	Passed  bool `json:"passed"`
}

// Фиксированный тест по правилам анти-детекции
var certificationQuiz = []Question{
	{ID: "q1", Text: "How many reviews should you publish for the same business from one Gmail account?",
		Options: []string{"As many as the artisan wants", "Only one", "Three per month"}, answer: 1},
	{ID: "q2", Text: "What should you do with a generated proposal before publishing it?",
		Options: []string{"Copy and paste it as is", "Adapt it with personal details from your visit", "Translate it to English"}, answer: 1},
	{ID: "q3", Text: "Which network setup is allowed when publishing?",
		Options: []string{"Your usual home or mobile connection", "A public VPN", "A datacenter proxy"}, answer: 0},
	{ID: "q4", Text: "How should you space reviews posted from the same account?",
		Options: []string{"All at once", "Several days apart at varied times", "Exactly every hour"}, answer: 1},
	{ID: "q5", Text: "Which rating distribution looks natural on your profile?",
		Options: []string{"Only 5 stars", "A mix that matches your real experiences", "Only 1 star"}, answer: 1},
	{ID: "q6", Text: "Can you add links or phone numbers inside a review?",
		Options: []string{"Yes, it helps the business", "No, never", "Only the business website"}, answer: 1},
	{ID: "q7", Text: "What should a brand new Gmail account do before taking missions?",
		Options: []string{"Nothing", "Warm up with genuine personal activity", "Publish ten reviews the first day"}, answer: 1},
	{ID: "q8", Text: "Which photos may you attach to a review?",
		Options: []string{"Photos you took yourself", "Photos from the business website", "Stock images"}, answer: 0},
	{ID: "q9", Text: "When a review is rejected, what happens to its earnings?",
		Options: []string{"They are paid anyway", "They are not paid", "They are doubled next time"}, answer: 1},
	{ID: "q10", Text: "Where should you publish the review URL after posting?",
		Options: []string{"In the mission submission form", "In the review text", "Nowhere"}, answer: 0},
}

// Quiz возвращает вопросы теста (без ключа ответов)
func Quiz() []Question {
	out := make([]Question, len(certificationQuiz))
	copy(out, certificationQuiz)
	return out
}

// GradeCertification - детерминированная проверка по ключу, без частичных баллов.
// Пропущенный вопрос считается неверным, неизвестный id - ошибка.
func GradeCertification(answers map[string]int, passMark int) (*CertificationResult, error) {
	known := make(map[string]int, len(certificationQuiz))
	for _, q := range certificationQuiz {
		known[q.ID] = q.answer
	}
	for id := range answers {
		if _, ok := known[id]; !ok {
			return nil, ErrUnknownQuestion
		}
	}

	correct := 0
	for id, answer := range known {
		if given, ok := answers[id]; ok && given == answer {
			correct++
		}
	}

	total := len(certificationQuiz)
	score := int(math.Round(float64(correct) / float64(total) * 100))
	return &CertificationResult{
		Score:   score,
		Correct: correct,
		Total:   total,
		Passed:  score >= passMark,
	}, nil
}
