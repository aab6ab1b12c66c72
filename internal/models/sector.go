package models

type Sector struct {
	BaseModel
	Slug                  string     `gorm:"uniqueIndex;not null"`
	Name                  string     `gorm:"not null"`
	Difficulty            Difficulty `gorm:"type:varchar(20);not null;default:'easy'"`
	AverageValidationRate float64    `gorm:"default:0"`
	RequiredGmailLevel    TrustLevel `gorm:"type:varchar(20);not null;default:'BRONZE'"`
	RewardPerReview       float64    `gorm:"default:0"` // 0 - берется ставка по умолчанию
	IsActive              bool       `gorm:"default:true"`
}
