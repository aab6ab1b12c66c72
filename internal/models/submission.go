package models

import "time"

// ReviewSubmission - публикация предложения гидом
type ReviewSubmission struct {
	BaseModel
	GuideID         string           `gorm:"type:uuid;index;not null"`
	OrderID         string           `gorm:"type:uuid;index;not null"`
	ProposalID      string           `gorm:"type:uuid;index;not null"`
	GmailAccountID  string           `gorm:"type:uuid;index;not null"`
	ReviewURL       string           `gorm:"not null"`
	Status          SubmissionStatus `gorm:"type:varchar(20);index;not null;default:'pending'"`
	RejectionReason string
	Earnings        float64 `gorm:"default:0"`
	ReviewedBy      *string
	ReviewedAt      *time.Time
}
