package handlers

import (
	"net/http"

	"achatavis_backend/internal/logger"
	"achatavis_backend/internal/middleware"
	"achatavis_backend/internal/models"
	"achatavis_backend/internal/services"
	"achatavis_backend/internal/services/dto"
	"achatavis_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	*BaseHandler
	paymentService services.PaymentService
}

func NewPaymentHandler(base *BaseHandler, paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    base,
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public routes
	public := r.Group("/payments")
	{
		public.GET("/plans", h.ListPlans)
		public.POST("/robokassa/result", h.RobokassaResult)
	}

	// Artisan routes
	artisan := r.Group("/artisan")
	artisan.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleArtisan))
	{
		artisan.POST("/payments/checkout", h.CreateCheckout)
		artisan.GET("/payments/:sessionId", h.GetSession)
		artisan.GET("/packs", h.ListPacks)
	}
}

func (h *PaymentHandler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": h.paymentService.ListPlans(c.Request.Context())})
}

// RobokassaResult - ResultURL провайдера. Провайдер ждет text/plain "OK{InvId}",
// любое другое тело считается отказом и колбэк повторяется.
func (h *PaymentHandler) RobokassaResult(c *gin.Context) {
	var req dto.RobokassaResultRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.CtxWarn(c.Request.Context(), "Malformed payment result", "error", err.Error())
		c.String(http.StatusBadRequest, "bad request")
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		c.String(http.StatusBadRequest, "bad request")
		return
	}

	body, err := h.paymentService.HandleResult(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		status := http.StatusInternalServerError
		if appErr, ok := apperrors.AsAppError(err); ok {
			status = appErr.HTTPCode
		}
		logger.CtxWarn(c.Request.Context(), "Payment result rejected", "inv_id", req.InvID, "error", err.Error())
		c.String(status, "bad sign")
		return
	}

	c.String(http.StatusOK, body)
}

// --- Artisan handlers ---

func (h *PaymentHandler) CreateCheckout(c *gin.Context) {
	artisanID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CheckoutRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	session, err := h.paymentService.CreateCheckout(c.Request.Context(), h.GetDB(c), artisanID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// GetSession - опрос статуса после редиректа. Может активировать оплату, если колбэк еще не пришел.
func (h *PaymentHandler) GetSession(c *gin.Context) {
	artisanID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	result, err := h.paymentService.GetSession(c.Request.Context(), h.GetDB(c), artisanID, c.Param("sessionId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PaymentHandler) ListPacks(c *gin.Context) {
	artisanID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	packs, err := h.paymentService.ListPacks(c.Request.Context(), h.GetDB(c), artisanID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"packs": packs})
}
