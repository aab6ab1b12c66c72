package validator

import (
	"log"
	"strings"

	"achatavis_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// enumRule - тег, который пропускает только перечисленные значения
type enumRule struct {
	tag    string
	values []string
}

func (r enumRule) message() string {
	return "Must be one of: " + strings.Join(r.values, ", ")
}

// Пустые значения пропускаем, для этого есть 'required'
func (r enumRule) check(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	for _, allowed := range r.values {
		if value == allowed {
			return true
		}
	}
	return false
}

func names[T ~string](values ...T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

var enumRules = []enumRule{
	{"is-trust-level", names(models.TrustLevelBlocked, models.TrustLevelBronze, models.TrustLevelSilver,
		models.TrustLevelGold, models.TrustLevelPlatinum)},
	{"is-order-tone", names(models.OrderToneFriendly, models.OrderToneProfessional, models.OrderToneEnthusiastic,
		models.OrderToneNeutral)},
	{"is-order-pace", names(models.OrderPaceSlow, models.OrderPaceNormal, models.OrderPaceFast)},
	{"is-difficulty", names(models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard)},
	{"is-severity", names(models.SeverityLow, models.SeverityMedium, models.SeverityHigh, models.SeverityCritical)},
	{"is-submission-status", names(models.SubmissionStatusPending, models.SubmissionStatusValidated,
		models.SubmissionStatusRejected)},
}

// registerCustomRules регистрирует доменные теги. Ошибка здесь - ошибка сборки приложения.
func registerCustomRules(v *validator.Validate) map[string]string {
	messages := make(map[string]string, len(enumRules))
	for _, rule := range enumRules {
		if err := v.RegisterValidation(rule.tag, rule.check); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", rule.tag, err)
		}
		messages[rule.tag] = rule.message()
	}
	return messages
}
