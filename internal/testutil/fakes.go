package testutil

import (
	"context"
	"fmt"
	"sync"

	"achatavis_backend/internal/email"
	"achatavis_backend/internal/payment"
	"achatavis_backend/internal/scraper"
	"achatavis_backend/internal/textgen"
)

// FakeScraper возвращает заданный профиль или ошибку
type FakeScraper struct {
	mu      sync.Mutex
	Profile *scraper.Profile
	Err     error
	Calls   int
}

func (f *FakeScraper) ScrapeProfile(ctx context.Context, profileURL string) (*scraper.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Profile == nil {
		return nil, scraper.ErrUnavailable
	}
	p := *f.Profile
	return &p, nil
}

// FakeGenerator пишет count шаблонных отзывов. Limit > 0 обрезает ответ.
type FakeGenerator struct {
	mu       sync.Mutex
	Err      error
	Limit    int
	Requests []textgen.GenerationRequest
}

func (f *FakeGenerator) Generate(ctx context.Context, req textgen.GenerationRequest) ([]textgen.GeneratedReview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Requests = append(f.Requests, req)
	if f.Err != nil {
		return nil, f.Err
	}

	count := req.Quantity
	if f.Limit > 0 && count > f.Limit {
		count = f.Limit
	}
	out := make([]textgen.GeneratedReview, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, textgen.GeneratedReview{
			AuthorName: fmt.Sprintf("Auteur %d", i+1),
			Rating:     5,
			Content:    fmt.Sprintf("%s à %s, expérience numéro %d.", req.CompanyName, req.City, i+1),
		})
	}
	return out, nil
}

// FakeProvider - платежный шлюз в памяти
type FakeProvider struct {
	mu           sync.Mutex
	ValidSign    bool
	Verification *payment.Verification
	VerifyErr    error
	CheckoutErr  error
	Checkouts    []payment.CheckoutRequest
}

func (f *FakeProvider) CreateCheckout(ctx context.Context, req payment.CheckoutRequest) (*payment.Checkout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CheckoutErr != nil {
		return nil, f.CheckoutErr
	}
	f.Checkouts = append(f.Checkouts, req)
	return &payment.Checkout{URL: fmt.Sprintf("https://pay.example.com/checkout?InvId=%d", req.InvID)}, nil
}

func (f *FakeProvider) VerifySession(ctx context.Context, invID int64) (*payment.Verification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.VerifyErr != nil {
		return nil, f.VerifyErr
	}
	if f.Verification == nil {
		return &payment.Verification{Status: payment.SessionStatusPending}, nil
	}
	v := *f.Verification
	return &v, nil
}

func (f *FakeProvider) VerifyResult(n payment.ResultNotification) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ValidSign
}

// RecordingNotifier запоминает адресатов писем по типу
type RecordingNotifier struct {
	mu        sync.Mutex
	Validated []string
	Rejected  []string
	Completed []string
}

func (n *RecordingNotifier) SubmissionValidated(ctx context.Context, to string, data email.TemplateData) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Validated = append(n.Validated, to)
}

func (n *RecordingNotifier) SubmissionRejected(ctx context.Context, to string, data email.TemplateData) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Rejected = append(n.Rejected, to)
}

func (n *RecordingNotifier) OrderCompleted(ctx context.Context, to string, data email.TemplateData) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Completed = append(n.Completed, to)
}
