package handlers

import (
	"net/http"

	"achatavis_backend/internal/middleware"
	"achatavis_backend/internal/models"
	"achatavis_backend/internal/services"
	"achatavis_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ComplianceHandler struct {
	*BaseHandler
	complianceService services.ComplianceService
}

func NewComplianceHandler(base *BaseHandler, complianceService services.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{
		BaseHandler:       base,
		complianceService: complianceService,
	}
}

func (h *ComplianceHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Guide routes
	guide := r.Group("/guide")
	guide.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleGuide))
	{
		guide.GET("/compliance", h.GetMyCompliance)
		guide.GET("/certification/quiz", h.GetQuiz)
		guide.POST("/certification", h.SubmitCertification)
	}

	// Admin routes
	admin := r.Group("/admin/guides")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.GET("/:guideId/compliance", h.GetGuideCompliance)
		admin.GET("/:guideId/violations", h.ListViolations)
		admin.POST("/:guideId/violations", h.RecordViolation)
	}
}

// --- Guide handlers ---

func (h *ComplianceHandler) GetMyCompliance(c *gin.Context) {
	guideID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	snapshot, err := h.complianceService.GetSnapshot(c.Request.Context(), h.GetDB(c), guideID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (h *ComplianceHandler) GetQuiz(c *gin.Context) {
	c.JSON(http.StatusOK, h.complianceService.GetQuiz())
}

func (h *ComplianceHandler) SubmitCertification(c *gin.Context) {
	guideID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitCertificationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.complianceService.SubmitCertification(c.Request.Context(), h.GetDB(c), guideID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// --- Admin handlers ---

func (h *ComplianceHandler) GetGuideCompliance(c *gin.Context) {
	snapshot, err := h.complianceService.GetSnapshot(c.Request.Context(), h.GetDB(c), c.Param("guideId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (h *ComplianceHandler) ListViolations(c *gin.Context) {
	violations, err := h.complianceService.ListViolations(c.Request.Context(), h.GetDB(c), c.Param("guideId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"violations": violations})
}

func (h *ComplianceHandler) RecordViolation(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RecordViolationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	violation, err := h.complianceService.RecordViolation(c.Request.Context(), h.GetDB(c), adminID, c.Param("guideId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, violation)
}
