package models

type UserStatus string
type UserRole string
type TrustLevel string
type Difficulty string
type RuleSeverity string
type OrderStatus string
type OrderTone string
type OrderPace string
type SubmissionStatus string
type PaymentStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	UserRoleArtisan UserRole = "artisan"
	UserRoleGuide   UserRole = "guide"
	UserRoleAdmin   UserRole = "admin"

	TrustLevelBlocked  TrustLevel = "BLOCKED"
	TrustLevelBronze   TrustLevel = "BRONZE"
	TrustLevelSilver   TrustLevel = "SILVER"
	TrustLevelGold     TrustLevel = "GOLD"
	TrustLevelPlatinum TrustLevel = "PLATINUM"

	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"

	SeverityLow      RuleSeverity = "low"
	SeverityMedium   RuleSeverity = "medium"
	SeverityHigh     RuleSeverity = "high"
	SeverityCritical RuleSeverity = "critical"

	OrderStatusDraft      OrderStatus = "draft"
	OrderStatusPending    OrderStatus = "pending" // отправлен, ждет оплаты пакета
	OrderStatusSubmitted  OrderStatus = "submitted"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"

	OrderToneFriendly     OrderTone = "friendly"
	OrderToneProfessional OrderTone = "professional"
	OrderToneEnthusiastic OrderTone = "enthusiastic"
	OrderToneNeutral      OrderTone = "neutral"

	OrderPaceSlow   OrderPace = "slow"
	OrderPaceNormal OrderPace = "normal"
	OrderPaceFast   OrderPace = "fast"

	SubmissionStatusPending   SubmissionStatus = "pending"
	SubmissionStatusValidated SubmissionStatus = "validated"
	SubmissionStatusRejected  SubmissionStatus = "rejected"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
	PaymentStatusExpired PaymentStatus = "expired"
)

// TrustLevels - все уровни доверия по возрастанию
var TrustLevels = []TrustLevel{
	TrustLevelBlocked,
	TrustLevelBronze,
	TrustLevelSilver,
	TrustLevelGold,
	TrustLevelPlatinum,
}

// Rank возвращает порядковый номер уровня (BLOCKED=0 ... PLATINUM=4).
// Неизвестный уровень получает -1.
func (l TrustLevel) Rank() int {
	for i, level := range TrustLevels {
		if level == l {
			return i
		}
	}
	return -1
}

func (l TrustLevel) IsValid() bool {
	return l.Rank() >= 0
}

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

func (s RuleSeverity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}
