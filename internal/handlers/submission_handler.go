package handlers

import (
	"net/http"

	"achatavis_backend/internal/middleware"
	"achatavis_backend/internal/models"
	"achatavis_backend/internal/services"
	"achatavis_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// SubmissionHandler - модерация отчетов гидов
type SubmissionHandler struct {
	*BaseHandler
	submissionService services.SubmissionService
}

func NewSubmissionHandler(base *BaseHandler, submissionService services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:       base,
		submissionService: submissionService,
	}
}

func (h *SubmissionHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin/submissions")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.GET("", h.ListSubmissions)
		admin.POST("/:submissionId/validate", h.ValidateSubmission)
		admin.POST("/:submissionId/reject", h.RejectSubmission)
	}
}

func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	var criteria dto.SubmissionSearchCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	list, err := h.submissionService.ListSubmissions(c.Request.Context(), h.GetDB(c), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *SubmissionHandler) ValidateSubmission(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	submission, err := h.submissionService.ValidateSubmission(c.Request.Context(), h.GetDB(c), adminID, c.Param("submissionId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

func (h *SubmissionHandler) RejectSubmission(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RejectSubmissionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	submission, err := h.submissionService.RejectSubmission(c.Request.Context(), h.GetDB(c), adminID, c.Param("submissionId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}
