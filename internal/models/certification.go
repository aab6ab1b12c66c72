package models

import "gorm.io/datatypes"

type CertificationAttempt struct {
	BaseModel
	GuideID string         `gorm:"type:uuid;index;not null"`
	Score   int            `gorm:"not null"`
	Correct int            `gorm:"not null"`
	Total   int            `gorm:"not null"`
	Passed  bool           `gorm:"not null"`
	Answers datatypes.JSON `gorm:"type:jsonb"`
}
