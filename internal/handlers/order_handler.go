package handlers

import (
	"net/http"

	"achatavis_backend/internal/middleware"
	"achatavis_backend/internal/models"
	"achatavis_backend/internal/services"
	"achatavis_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	*BaseHandler
	orderService services.OrderService
}

func NewOrderHandler(base *BaseHandler, orderService services.OrderService) *OrderHandler {
	return &OrderHandler{
		BaseHandler:  base,
		orderService: orderService,
	}
}

func (h *OrderHandler) RegisterRoutes(r *gin.RouterGroup) {
	orders := r.Group("/artisan/orders")
	orders.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleArtisan))
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:orderId", h.GetOrder)
		orders.PUT("/:orderId", h.UpdateOrder)
		orders.POST("/:orderId/submit", h.SubmitOrder)
		orders.POST("/:orderId/cancel", h.CancelOrder)
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	artisanID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateOrderRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), h.GetDB(c), artisanID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	artisanID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var criteria dto.OrderSearchCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	list, err := h.orderService.ListOrders(c.Request.Context(), h.GetDB(c), artisanID, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	artisanID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), h.GetDB(c), artisanID, c.Param("orderId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	artisanID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateOrderRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), h.GetDB(c), artisanID, c.Param("orderId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// SubmitOrder - тело необязательно, {"confirm": true} подтверждает отправку с нехваткой предложений
func (h *OrderHandler) SubmitOrder(c *gin.Context) {
	artisanID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitOrderRequest
	if c.Request.ContentLength > 0 && !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.orderService.SubmitOrder(c.Request.Context(), h.GetDB(c), artisanID, c.Param("orderId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	artisanID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	result, err := h.orderService.CancelOrder(c.Request.Context(), h.GetDB(c), artisanID, c.Param("orderId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
