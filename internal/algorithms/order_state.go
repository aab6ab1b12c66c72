package algorithms

import "achatavis_backend/internal/models"

// orderTransitions - разрешенные переходы статуса заказа
var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusDraft:      {models.OrderStatusSubmitted, models.OrderStatusPending, models.OrderStatusCancelled},
	models.OrderStatusPending:    {models.OrderStatusSubmitted, models.OrderStatusCancelled},
	models.OrderStatusSubmitted:  {models.OrderStatusInProgress, models.OrderStatusCancelled},
	models.OrderStatusInProgress: {models.OrderStatusCompleted, models.OrderStatusCancelled},
}

func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsOpenForClaims - гиды видят и берут предложения только у отправленных заказов
func IsOpenForClaims(status models.OrderStatus) bool {
	return status == models.OrderStatusSubmitted || status == models.OrderStatusInProgress
}

// ProposalsEditable - предложения без публикации можно менять, пока заказ не закрыт
func ProposalsEditable(status models.OrderStatus) bool {
	return status != models.OrderStatusCancelled && status != models.OrderStatusCompleted
}

// ProposalDeficit - сколько предложений не хватает до количества заказа
func ProposalDeficit(quantity, current int) int {
	return max(quantity-current, 0)
}
