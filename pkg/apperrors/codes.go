package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

// Общие, не-доменные коды ошибок
const (
	// Системные ошибки
	CodeInternalError          ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError          ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError   ErrorCode = "EXTERNAL_SERVICE_ERROR"
	CodeExternalServiceTimeout ErrorCode = "EXTERNAL_SERVICE_TIMEOUT"

	// Общие ошибки бизнес-логики
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeLimitExceeded    ErrorCode = "LIMIT_EXCEEDED"
	CodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"

	// Аутентификация и авторизация
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeInvalidToken ErrorCode = "INVALID_TOKEN"
	CodeTokenExpired ErrorCode = "TOKEN_EXPIRED"
)

// Доменные коды AchatAvis
const (
	CodeInvalidEmail           ErrorCode = "INVALID_EMAIL"
	CodeEligibilityDenied      ErrorCode = "ELIGIBILITY_DENIED"
	CodeComplianceTooLow       ErrorCode = "COMPLIANCE_TOO_LOW"
	CodeProposalAlreadyClaimed ErrorCode = "PROPOSAL_ALREADY_CLAIMED"
	CodeQuotaExceeded          ErrorCode = "QUOTA_EXCEEDED"
	CodeOrderFull              ErrorCode = "ORDER_FULL"
	CodeMonthlyLimitReached    ErrorCode = "MONTHLY_LIMIT_REACHED"
	CodeInvalidSignature       ErrorCode = "INVALID_SIGNATURE"
)
