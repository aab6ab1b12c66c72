package handlers

import (
	"net/http"

	"achatavis_backend/internal/middleware"
	"achatavis_backend/internal/models"
	"achatavis_backend/internal/services"
	"achatavis_backend/internal/services/dto"
	"achatavis_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// MissionHandler - сторона гида: доступные миссии, проверка допуска, взятие предложения
type MissionHandler struct {
	*BaseHandler
	missionService    services.MissionService
	submissionService services.SubmissionService
}

func NewMissionHandler(base *BaseHandler, missionService services.MissionService, submissionService services.SubmissionService) *MissionHandler {
	return &MissionHandler{
		BaseHandler:       base,
		missionService:    missionService,
		submissionService: submissionService,
	}
}

func (h *MissionHandler) RegisterRoutes(r *gin.RouterGroup) {
	guide := r.Group("/guide")
	guide.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleGuide))
	{
		guide.GET("/missions", h.ListMissions)
		guide.GET("/missions/:orderId/eligibility", h.CheckEligibility)
		guide.POST("/proposals/:proposalId/claim", h.ClaimProposal)
		guide.GET("/submissions", h.ListMySubmissions)
	}
}

func (h *MissionHandler) ListMissions(c *gin.Context) {
	guideID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	missions, err := h.missionService.ListMissions(c.Request.Context(), h.GetDB(c), guideID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"missions": missions})
}

// CheckEligibility - отказ не ошибка: 200 с eligible=false и кодом причины
func (h *MissionHandler) CheckEligibility(c *gin.Context) {
	guideID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	accountID := c.Query("gmail_account_id")
	if accountID == "" {
		h.HandleServiceError(c, apperrors.NewBadRequestError("gmail_account_id query parameter is required"))
		return
	}

	result, err := h.missionService.CheckMissionEligibility(c.Request.Context(), h.GetDB(c), guideID, c.Param("orderId"), accountID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *MissionHandler) ClaimProposal(c *gin.Context) {
	guideID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ClaimProposalRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	submission, err := h.submissionService.ClaimProposal(c.Request.Context(), h.GetDB(c), guideID, c.Param("proposalId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, submission)
}

func (h *MissionHandler) ListMySubmissions(c *gin.Context) {
	guideID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var criteria dto.SubmissionSearchCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	list, err := h.submissionService.ListGuideSubmissions(c.Request.Context(), h.GetDB(c), guideID, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}
