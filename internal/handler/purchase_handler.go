package handler

import (
	"net/http"

	"partspos/internal/middleware"
	"partspos/internal/model"
	"partspos/internal/service"
	"partspos/pkg/pagination"
	"partspos/pkg/response"

	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	purchaseService service.PurchaseService
}

func NewPurchaseHandler(purchaseService service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

func (h *PurchaseHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyStaff := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	orders := router.Group("/api/purchase-orders")
	{
		orders.GET("", anyStaff, h.ListOrders)
		orders.GET("/:id", anyStaff, h.GetOrder)
		orders.POST("", anyStaff, h.CreateOrder)
		orders.POST("/:id/receive", adminOnly, h.ReceiveOrder)
		orders.POST("/:id/payments", adminOnly, h.AddPayment)
	}
}

// ListOrders returns purchase orders newest first
// @Summary      List purchase orders
// @Tags         purchases
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/purchase-orders [get]
func (h *PurchaseHandler) ListOrders(c *gin.Context) {
	params := pagination.Parse(c)

	orders, total, err := h.purchaseService.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve purchase orders: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	}))
}

// GetOrder returns one purchase order with its items
// @Summary      Get purchase order
// @Tags         purchases
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Purchase Order ID"
// @Success      200  {object}  response.Response{data=model.PurchaseOrder}
// @Failure      404  {object}  response.Response
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseHandler) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.purchaseService.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Purchase order not found"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// CreateOrder creates a pending purchase order
// @Summary      Create purchase order
// @Tags         purchases
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreatePurchaseOrderRequest  true  "Create Purchase Order Payload"
// @Success      201      {object}  response.Response{data=model.PurchaseOrder}
// @Failure      400      {object}  response.Response
// @Router       /api/purchase-orders [post]
func (h *PurchaseHandler) CreateOrder(c *gin.Context) {
	var req service.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	order, err := h.purchaseService.Create(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// ReceiveOrder applies the stock and valuation effects of a pending order
// @Summary      Receive purchase order
// @Description  Recomputes each product's weighted-average cost, raises stock and posts the payable entry. Fails if the order was already received
// @Tags         purchases
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Purchase Order ID"
// @Success      200  {object}  response.Response{data=model.PurchaseOrder}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchaseHandler) ReceiveOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	order, err := h.purchaseService.Receive(c.Request.Context(), id, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// AddPayment records a payment toward the distributor on this order
// @Summary      Add purchase order payment
// @Tags         purchases
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Purchase Order ID"
// @Param        payload  body      service.OrderPaymentRequest  true  "Payment Payload"
// @Success      200      {object}  response.Response{data=model.PurchaseOrder}
// @Failure      400      {object}  response.Response
// @Router       /api/purchase-orders/{id}/payments [post]
func (h *PurchaseHandler) AddPayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.OrderPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	order, err := h.purchaseService.AddPayment(c.Request.Context(), id, req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}
