package handlers

import (
	"net/http"

	"achatavis_backend/internal/middleware"
	"achatavis_backend/internal/models"
	"achatavis_backend/internal/services"
	"achatavis_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProposalHandler struct {
	*BaseHandler
	proposalService services.ProposalService
}

func NewProposalHandler(base *BaseHandler, proposalService services.ProposalService) *ProposalHandler {
	return &ProposalHandler{
		BaseHandler:     base,
		proposalService: proposalService,
	}
}

func (h *ProposalHandler) RegisterRoutes(r *gin.RouterGroup) {
	artisan := r.Group("/artisan")
	artisan.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleArtisan))
	{
		artisan.GET("/orders/:orderId/proposals", h.ListProposals)
		artisan.POST("/orders/:orderId/proposals", h.CreateProposal)
		artisan.POST("/orders/:orderId/proposals/generate", h.GenerateProposals)
		artisan.PUT("/proposals/:proposalId", h.UpdateProposal)
		artisan.DELETE("/proposals/:proposalId", h.DeleteProposal)
	}
}

func (h *ProposalHandler) ListProposals(c *gin.Context) {
	artisanID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	proposals, err := h.proposalService.ListProposals(c.Request.Context(), h.GetDB(c), artisanID, c.Param("orderId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"proposals": proposals})
}

func (h *ProposalHandler) CreateProposal(c *gin.Context) {
	artisanID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateProposalRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	proposal, err := h.proposalService.CreateProposal(c.Request.Context(), h.GetDB(c), artisanID, c.Param("orderId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, proposal)
}

func (h *ProposalHandler) GenerateProposals(c *gin.Context) {
	artisanID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.GenerateProposalsRequest
	if c.Request.ContentLength > 0 && !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.proposalService.GenerateProposals(c.Request.Context(), h.GetDB(c), artisanID, c.Param("orderId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ProposalHandler) UpdateProposal(c *gin.Context) {
	artisanID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProposalRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	proposal, err := h.proposalService.UpdateProposal(c.Request.Context(), h.GetDB(c), artisanID, c.Param("proposalId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}

func (h *ProposalHandler) DeleteProposal(c *gin.Context) {
	artisanID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.proposalService.DeleteProposal(c.Request.Context(), h.GetDB(c), artisanID, c.Param("proposalId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
