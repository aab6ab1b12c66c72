package models

import "time"

// User принадлежит внешней подсистеме авторизации.
// Ядро только читает роль и статус.
type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	Role         UserRole   `gorm:"type:varchar(20);not null"`
	Status       UserStatus `gorm:"type:varchar(20);default:'pending'"`
	IsVerified   bool       `gorm:"default:false"`

	// Relations
	ArtisanProfile *ArtisanProfile `gorm:"foreignKey:UserID"`
	GuideProfile   *GuideProfile   `gorm:"foreignKey:UserID"`
}

type ArtisanProfile struct {
	BaseModel
	UserID      string `gorm:"uniqueIndex;not null"`
	CompanyName string `gorm:"not null"`
	City        string
	Phone       string
}

type GuideProfile struct {
	BaseModel
	UserID              string `gorm:"uniqueIndex;not null"`
	DisplayName         string
	CertificationPassed bool `gorm:"default:false"`
	CertificationScore  int  `gorm:"default:0"`
	CertifiedAt         *time.Time
}
