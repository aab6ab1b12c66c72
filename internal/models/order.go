package models

import "time"

// ReviewOrder - заказ артизана на отзывы ("фиша")
type ReviewOrder struct {
	BaseModel
	ArtisanID        string      `gorm:"type:uuid;index;not null"`
	CompanyName      string      `gorm:"not null"`
	EstablishmentURL string
	City             string
	SectorID         *string     `gorm:"type:uuid;index"`
	Quantity         int         `gorm:"not null;default:0"`
	Tone             OrderTone   `gorm:"type:varchar(20);default:'friendly'"`
	Pace             OrderPace   `gorm:"type:varchar(20);default:'normal'"`
	Language         string      `gorm:"type:varchar(10);default:'fr'"`
	Notes            string
	Status           OrderStatus `gorm:"type:varchar(20);index;not null;default:'draft'"`
	ReviewsReceived  int         `gorm:"not null;default:0"`
	PaymentID        *string     `gorm:"type:uuid"` // пакет, из которого списана квота

	SubmittedAt *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time

	// Relations
	Sector    *Sector          `gorm:"foreignKey:SectorID"`
	Proposals []ReviewProposal `gorm:"foreignKey:OrderID"`
}

// ReviewProposal - черновик отзыва внутри заказа
type ReviewProposal struct {
	BaseModel
	OrderID      string  `gorm:"type:uuid;index;not null"`
	AuthorName   string  `gorm:"not null"`
	Rating       int     `gorm:"not null"`
	Content      string  `gorm:"type:text;not null"`
	Generated    bool    `gorm:"default:false"`
	SubmissionID *string `gorm:"type:uuid;uniqueIndex"`
}

// IsPublished - предложение привязано к публикации и больше не редактируется
func (p *ReviewProposal) IsPublished() bool {
	return p.SubmissionID != nil
}
