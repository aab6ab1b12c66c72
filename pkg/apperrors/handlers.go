package apperrors

import (
	"achatavis_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// Debug управляет тем, видит ли клиент текст внутренних ошибок.
// Выставляется в app.Run из server.env.
var Debug = true

// HandleError - основная функция-помощник для Gin
func HandleError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= 500 {
		logger.CtxError(c.Request.Context(), "server error",
			"code", appErr.Code,
			"domain", appErr.Domain,
			"cause", appErr.Unwrap(),
		)
		if !Debug && appErr.Code == CodeInternalError {
			appErr = InternalError(nil)
		}
	}

	c.JSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}

// AbortWithError - то же самое для middleware: прерывает цепочку
func AbortWithError(c *gin.Context, err error) {
	HandleError(c, err)
	c.Abort()
}

// AsAppError - пытается преобразовать error в *AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
