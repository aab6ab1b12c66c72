package models

import "time"

// PaymentSession - одна попытка оплаты через провайдера.
// ActivatedAt - одноразовый маркер начисления пакета.
type PaymentSession struct {
	BaseModel
	InvID       int64         `gorm:"uniqueIndex;not null"` // тот же, что передавали провайдеру
	ArtisanID   string        `gorm:"type:uuid;index;not null"`
	PlanID      string        `gorm:"not null"`
	Reviews     int           `gorm:"not null"`
	Amount      float64       `gorm:"not null"`
	Currency    string        `gorm:"type:varchar(10)"`
	Status      PaymentStatus `gorm:"type:varchar(20);index;not null;default:'pending'"`
	CheckoutURL string
	PaidAt      *time.Time
	ActivatedAt *time.Time
	PackID      *string `gorm:"type:uuid"`
}

// PaymentPack - оплаченная квота отзывов артизана
type PaymentPack struct {
	BaseModel
	ArtisanID        string `gorm:"type:uuid;index;not null"`
	SessionID        string `gorm:"type:uuid;uniqueIndex;not null"`
	PlanID           string `gorm:"not null"`
	ReviewsTotal     int    `gorm:"not null"`
	ReviewsRemaining int    `gorm:"not null"`
}
