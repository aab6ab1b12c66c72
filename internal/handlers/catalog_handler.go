package handlers

import (
	"net/http"

	"achatavis_backend/internal/middleware"
	"achatavis_backend/internal/models"
	"achatavis_backend/internal/services"
	"achatavis_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// CatalogHandler - справочники: правила анти-детекта и секторы
type CatalogHandler struct {
	*BaseHandler
	catalogService services.CatalogService
}

func NewCatalogHandler(base *BaseHandler, catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler:    base,
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public routes
	r.GET("/rules", h.ListRules)
	r.GET("/sectors", h.ListSectors)

	// Admin routes
	admin := r.Group("/admin/sectors")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.GET("", h.ListAllSectors)
		admin.POST("", h.CreateSector)
		admin.PUT("/:sectorId", h.UpdateSector)
	}
}

func (h *CatalogHandler) ListRules(c *gin.Context) {
	rules, err := h.catalogService.ListRules(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

func (h *CatalogHandler) ListSectors(c *gin.Context) {
	sectors, err := h.catalogService.ListSectors(c.Request.Context(), h.GetDB(c), true)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sectors": sectors})
}

// --- Admin handlers ---

func (h *CatalogHandler) ListAllSectors(c *gin.Context) {
	activeOnly := ParseQueryBool(c, "active_only", false)

	sectors, err := h.catalogService.ListSectors(c.Request.Context(), h.GetDB(c), activeOnly)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sectors": sectors})
}

func (h *CatalogHandler) CreateSector(c *gin.Context) {
	var req dto.CreateSectorRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	sector, err := h.catalogService.CreateSector(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sector)
}

func (h *CatalogHandler) UpdateSector(c *gin.Context) {
	sectorID := c.Param("sectorId")

	var req dto.UpdateSectorRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	sector, err := h.catalogService.UpdateSector(c.Request.Context(), h.GetDB(c), sectorID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sector)
}
