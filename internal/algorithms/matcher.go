package algorithms

import "achatavis_backend/internal/models"

// CalculateMissionMatch оценивает, насколько миссия подходит аккаунту гида (0-100).
// Используется только для сортировки списка миссий, доступ решает CheckEligibility.
func CalculateMissionMatch(order *models.ReviewOrder, sector *models.Sector, account *models.GmailAccount, openSlots int) (float64, []string) {
	score := 0.0
	reasons := []string{}

	// Запас по уровню доверия (30 points)
	margin := account.TrustLevel.Rank() - sector.RequiredGmailLevel.Rank()
	switch {
	case margin >= 2:
		score += 30
		reasons = append(reasons, "Trust level well above requirement")
	case margin == 1:
		score += 20
		reasons = append(reasons, "Trust level above requirement")
	case margin == 0:
		score += 10
	}

	// Сложность сектора против опыта Local Guide (25 points)
	switch sector.Difficulty {
	case models.DifficultyEasy:
		score += 25
		reasons = append(reasons, "Easy sector")
	case models.DifficultyMedium:
		if account.LocalGuideLevel >= 4 {
			score += 20
		} else {
			score += 10
		}
	case models.DifficultyHard:
		if account.LocalGuideLevel >= 6 {
			score += 15
			reasons = append(reasons, "Experienced account for a hard sector")
		}
	}

	// Историческая валидация сектора (25 points)
	if sector.AverageValidationRate > 0 {
		score += 25 * min(sector.AverageValidationRate, 100) / 100
		if sector.AverageValidationRate >= 80 {
			reasons = append(reasons, "High validation rate in this sector")
		}
	}

	// Свободные места (10 points)
	if order.Quantity > 0 && openSlots > 0 {
		score += 10 * float64(openSlots) / float64(order.Quantity)
	}

	// Вознаграждение (10 points)
	if sector.RewardPerReview >= 3 {
		score += 10
		reasons = append(reasons, "Well paid sector")
	} else if sector.RewardPerReview >= 2 {
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score, reasons
}
