package dto

import "achatavis_backend/internal/models"

type RuleResponse struct {
	Key          string              `json:"key"`
	Name         string              `json:"name"`
	Category     string              `json:"category"`
	Severity     models.RuleSeverity `json:"severity"`
	Description  string              `json:"description"`
	DoExamples   []string            `json:"do_examples"`
	DontExamples []string            `json:"dont_examples"`
	Tips         []string            `json:"tips"`
}

type CreateSectorRequest struct {
	Slug                  string            `json:"slug" validate:"required,max=64"`
	Name                  string            `json:"name" validate:"required,max=120"`
	Difficulty            models.Difficulty `json:"difficulty" validate:"required,is-difficulty"`
	AverageValidationRate float64           `json:"average_validation_rate" validate:"min=0,max=100"`
	RequiredGmailLevel    models.TrustLevel `json:"required_gmail_level" validate:"required,is-trust-level"`
	RewardPerReview       float64           `json:"reward_per_review" validate:"min=0"`
}

type UpdateSectorRequest struct {
	Name                  *string            `json:"name,omitempty" validate:"omitempty,max=120"`
	Difficulty            *models.Difficulty `json:"difficulty,omitempty" validate:"omitempty,is-difficulty"`
	AverageValidationRate *float64           `json:"average_validation_rate,omitempty" validate:"omitempty,min=0,max=100"`
	RequiredGmailLevel    *models.TrustLevel `json:"required_gmail_level,omitempty" validate:"omitempty,is-trust-level"`
	RewardPerReview       *float64           `json:"reward_per_review,omitempty" validate:"omitempty,min=0"`
	IsActive              *bool              `json:"is_active,omitempty"`
}

type SectorResponse struct {
	ID                    string            `json:"id"`
	Slug                  string            `json:"slug"`
	Name                  string            `json:"name"`
	Difficulty            models.Difficulty `json:"difficulty"`
	AverageValidationRate float64           `json:"average_validation_rate"`
	RequiredGmailLevel    models.TrustLevel `json:"required_gmail_level"`
	RewardPerReview       float64           `json:"reward_per_review"`
	MinLocalGuideLevel    int               `json:"min_local_guide_level"`
	IsActive              bool              `json:"is_active"`
}
