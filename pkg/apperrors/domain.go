package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные
для ошибок бизнес-логики AchatAvis.
*/

// =========================================================================
// Фабричные ФУНКЦИИ (оборачивание ошибок из репозиториев)
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// =========================================================================
// Фабричные ФУНКЦИИ (новые ошибки)
// =========================================================================

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - фабрика для невалидных статусов (409)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// =========================================================================
// Предопределенные ПЕРЕМЕННЫЕ
// =========================================================================

// ErrInsufficientPermissions - ресурс принадлежит другому пользователю.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden, // 403
)

// --- Gmail accounts & trust ---

// ErrInvalidEmail - адрес не проходит синтаксическую проверку.
var ErrInvalidEmail = New(
	CodeInvalidEmail,
	"gmail_account",
	"Email address is malformed",
	http.StatusBadRequest, // 400
)

// ErrEmailAlreadyExists - такой Gmail уже зарегистрирован.
var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"gmail_account",
	"This Gmail account is already registered",
	http.StatusConflict, // 409
)

// ErrInvalidTrustScore - ручной балл вне диапазона 0..100.
var ErrInvalidTrustScore = New(
	CodeValidationFailed,
	"trust",
	"Trust score override must be between 0 and 100",
	http.StatusBadRequest, // 400
)

// --- Eligibility & compliance ---

// ErrEligibilityDenied - аккаунт не допущен к миссии. Код причины лежит в Details.
var ErrEligibilityDenied = New(
	CodeEligibilityDenied,
	"eligibility",
	"Gmail account is not eligible for this mission",
	http.StatusForbidden, // 403
)

// ErrComplianceTooLow - гид слишком часто нарушает правила.
var ErrComplianceTooLow = New(
	CodeComplianceTooLow,
	"compliance",
	"Compliance score is too low to take missions",
	http.StatusForbidden, // 403
)

// ErrMonthlyLimitReached - исчерпан месячный лимит отзывов для уровня доверия.
var ErrMonthlyLimitReached = New(
	CodeMonthlyLimitReached,
	"eligibility",
	"Monthly review limit for this Gmail account is reached",
	http.StatusForbidden, // 403
)

// ErrUnknownQuestion - в ответах есть вопрос, которого нет в тесте.
var ErrUnknownQuestion = New(
	CodeValidationFailed,
	"certification",
	"Answers reference an unknown question",
	http.StatusBadRequest, // 400
)

// --- Orders & proposals ---

// ErrInvalidOrderStatus - переход недопустим из текущего статуса заказа.
var ErrInvalidOrderStatus = New(
	CodeInvalidStatus,
	"order",
	"Operation not allowed for the current order status",
	http.StatusConflict, // 409
)

// ErrOrderNotSubmittable - заказ без сектора или с нулевым количеством.
var ErrOrderNotSubmittable = New(
	CodeValidationFailed,
	"order",
	"Order needs a sector and a positive quantity before submission",
	http.StatusBadRequest, // 400
)

// ErrOrderFull - все отзывы заказа уже получены.
var ErrOrderFull = New(
	CodeOrderFull,
	"order",
	"Order already received all requested reviews",
	http.StatusConflict, // 409
)

// ErrProposalLocked - предложение уже привязано к публикации.
var ErrProposalLocked = New(
	CodeConflict,
	"proposal",
	"Proposal is linked to a submission and can no longer change",
	http.StatusConflict, // 409
)

// ErrProposalSetFull - у отправленного заказа уже есть предложение на каждый отзыв.
var ErrProposalSetFull = New(
	CodeLimitExceeded,
	"proposal",
	"Order already has as many proposals as requested reviews",
	http.StatusConflict, // 409
)

// ErrProposalAlreadyClaimed - другой гид успел забрать предложение.
var ErrProposalAlreadyClaimed = New(
	CodeProposalAlreadyClaimed,
	"proposal",
	"Proposal has already been claimed",
	http.StatusConflict, // 409
)

// ErrTextGenerationFailed - сервис генерации текста недоступен. Можно повторить вручную.
var ErrTextGenerationFailed = New(
	CodeExternalServiceError,
	"proposal",
	"Review generation failed, please try again",
	http.StatusBadGateway, // 502
)

// --- Submissions ---

// ErrInvalidSubmissionStatus - публикация уже проверена.
var ErrInvalidSubmissionStatus = New(
	CodeInvalidStatus,
	"submission",
	"Submission has already been reviewed",
	http.StatusConflict, // 409
)

// --- Payments ---

// ErrQuotaExceeded - в пакете не хватает отзывов.
var ErrQuotaExceeded = New(
	CodeQuotaExceeded,
	"payment",
	"Not enough reviews left in the payment pack",
	http.StatusConflict, // 409
)

// ErrUnknownPlan - плана нет в конфигурации.
var ErrUnknownPlan = New(
	CodeNotFound,
	"payment",
	"Payment plan not found",
	http.StatusNotFound, // 404
)

// ErrInvalidSignature - подпись колбэка платежного провайдера не совпала.
var ErrInvalidSignature = New(
	CodeInvalidSignature,
	"payment",
	"Payment callback signature mismatch",
	http.StatusBadRequest, // 400
)

// ErrInvalidPaymentAmount - сумма колбэка не совпадает с сессией.
var ErrInvalidPaymentAmount = New(
	CodeConflict,
	"payment",
	"Invalid payment amount",
	http.StatusConflict, // 409
)

// ErrPaymentSessionExpired - сессия оплаты просрочена.
var ErrPaymentSessionExpired = New(
	CodeInvalidStatus,
	"payment",
	"Payment session has expired",
	http.StatusConflict, // 409
)
