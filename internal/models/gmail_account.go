package models

import "time"

// GmailAccount - Google-аккаунт гида, с которого публикуются отзывы
type GmailAccount struct {
	BaseModelWithDeleted
	GuideID            string `gorm:"type:uuid;index;not null"`
	Email              string `gorm:"uniqueIndex;not null"`
	MapsProfileURL     string
	AvatarURL          string
	LocalGuideLevel    int  `gorm:"default:0"`
	TotalReviewsGoogle int  `gorm:"default:0"`
	PhoneVerified      bool `gorm:"default:false"`
	IsVerified         bool `gorm:"default:false"`

	TrustScoreValue int        `gorm:"default:0"`
	TrustLevel      TrustLevel `gorm:"type:varchar(20);not null;default:'BLOCKED'"`
	AccountLevel    string     `gorm:"type:varchar(20)"`
	IsActive        bool       `gorm:"default:true"`

	// Ручная установка уровня админом. Пока флаг стоит, пересчет не трогает уровень и балл.
	TrustOverride bool `gorm:"default:false"`
	OverriddenBy  *string
	OverriddenAt  *time.Time

	LastCheckedAt *time.Time
	ReviewsPosted int `gorm:"default:0"`
	LastUsedAt    *time.Time
}
