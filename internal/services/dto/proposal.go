package dto

import "time"

type CreateProposalRequest struct {
	AuthorName string `json:"author_name" validate:"required,max=100"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Content    string `json:"content" validate:"required,max=2000"`
}

type UpdateProposalRequest struct {
	AuthorName *string `json:"author_name,omitempty" validate:"omitempty,min=1,max=100"`
	Rating     *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Content    *string `json:"content,omitempty" validate:"omitempty,min=1,max=2000"`
}

type GenerateProposalsRequest struct {
	// Force - удалить неопубликованные и сгенерировать весь набор заново
	Force bool `json:"force"`
}

type ProposalResponse struct {
	ID           string    `json:"id"`
	OrderID      string    `json:"order_id"`
	AuthorName   string    `json:"author_name"`
	Rating       int       `json:"rating"`
	Content      string    `json:"content"`
	Generated    bool      `json:"generated"`
	Published    bool      `json:"published"`
	SubmissionID *string   `json:"submission_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type GenerateProposalsResponse struct {
	Generated int                 `json:"generated"`
	Deleted   int64               `json:"deleted"`
	Proposals []*ProposalResponse `json:"proposals"`
}
