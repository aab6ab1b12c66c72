package dto

import (
	"time"

	"achatavis_backend/internal/algorithms"
)

type CertificationState struct {
	Passed      bool       `json:"passed"`
	Score       int        `json:"score"`
	CertifiedAt *time.Time `json:"certified_at,omitempty"`
	Attempts    int        `json:"attempts"`
}

// ComplianceSnapshot собирается на лету, не хранится
type ComplianceSnapshot struct {
	GuideID       string                       `json:"guide_id"`
	WindowDays    int                          `json:"window_days"`
	Compliance    *algorithms.ComplianceResult `json:"compliance"`
	Certification CertificationState           `json:"certification"`
	Violations    []ViolationResponse          `json:"violations"`
	GeneratedAt   time.Time                    `json:"generated_at"`
}

type ViolationResponse struct {
	ID           string    `json:"id"`
	RuleKey      string    `json:"rule_key"`
	RuleName     string    `json:"rule_name,omitempty"`
	SubmissionID *string   `json:"submission_id,omitempty"`
	Note         string    `json:"note,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type RecordViolationRequest struct {
	RuleKey      string  `json:"rule_key" validate:"required"`
	SubmissionID *string `json:"submission_id,omitempty"`
	Note         string  `json:"note" validate:"omitempty,max=1000"`
}

type QuizResponse struct {
	Questions []algorithms.Question `json:"questions"`
	PassMark  int                   `json:"pass_mark"`
}

type SubmitCertificationRequest struct {
	Answers map[string]int `json:"answers" validate:"required"`
}

type CertificationResponse struct {
	algorithms.CertificationResult
	AttemptID string `json:"attempt_id"`
}
