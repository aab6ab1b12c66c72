package handlers

import (
	"net/http"

	"achatavis_backend/internal/middleware"
	"achatavis_backend/internal/models"
	"achatavis_backend/internal/services"
	"achatavis_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type GmailAccountHandler struct {
	*BaseHandler
	accountService services.GmailAccountService
}

func NewGmailAccountHandler(base *BaseHandler, accountService services.GmailAccountService) *GmailAccountHandler {
	return &GmailAccountHandler{
		BaseHandler:    base,
		accountService: accountService,
	}
}

func (h *GmailAccountHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Guide routes
	guide := r.Group("/guide/gmail-accounts")
	guide.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleGuide))
	{
		guide.GET("", h.ListMyAccounts)
		guide.POST("", h.AddAccount)
		guide.POST("/preview", h.PreviewAccount)
		guide.POST("/:accountId/recalculate", h.RecalculateMyAccount)
		guide.DELETE("/:accountId", h.RemoveAccount)
	}

	// Admin routes
	admin := r.Group("/admin/gmail-accounts")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.GET("", h.ListAllAccounts)
		admin.POST("/:accountId/recalculate", h.RecalculateAccount)
		admin.PUT("/:accountId/trust", h.SetTrustLevel)
		admin.DELETE("/:accountId/trust", h.ClearTrustOverride)
		admin.PUT("/:accountId/active", h.SetActive)
	}
}

// --- Guide handlers ---

func (h *GmailAccountHandler) PreviewAccount(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	var req dto.PreviewAccountRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	preview, err := h.accountService.PreviewAccount(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

func (h *GmailAccountHandler) AddAccount(c *gin.Context) {
	guideID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AddAccountRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	account, err := h.accountService.AddAccount(c.Request.Context(), h.GetDB(c), guideID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, account)
}

func (h *GmailAccountHandler) ListMyAccounts(c *gin.Context) {
	guideID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), h.GetDB(c), guideID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

func (h *GmailAccountHandler) RecalculateMyAccount(c *gin.Context) {
	guideID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	account, err := h.accountService.RecalculateTrust(c.Request.Context(), h.GetDB(c), guideID, c.Param("accountId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *GmailAccountHandler) RemoveAccount(c *gin.Context) {
	guideID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	result, err := h.accountService.RemoveAccount(c.Request.Context(), h.GetDB(c), guideID, c.Param("accountId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// --- Admin handlers ---

func (h *GmailAccountHandler) ListAllAccounts(c *gin.Context) {
	var criteria dto.GmailAccountSearchCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	list, err := h.accountService.ListAllAccounts(c.Request.Context(), h.GetDB(c), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *GmailAccountHandler) RecalculateAccount(c *gin.Context) {
	account, err := h.accountService.RecalculateTrust(c.Request.Context(), h.GetDB(c), "", c.Param("accountId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *GmailAccountHandler) SetTrustLevel(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SetTrustLevelRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	account, err := h.accountService.SetTrustLevel(c.Request.Context(), h.GetDB(c), adminID, c.Param("accountId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *GmailAccountHandler) ClearTrustOverride(c *gin.Context) {
	account, err := h.accountService.ClearTrustOverride(c.Request.Context(), h.GetDB(c), c.Param("accountId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *GmailAccountHandler) SetActive(c *gin.Context) {
	var req dto.SetActiveRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	account, err := h.accountService.SetActive(c.Request.Context(), h.GetDB(c), c.Param("accountId"), *req.IsActive)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}
