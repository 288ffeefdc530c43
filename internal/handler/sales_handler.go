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

type SalesHandler struct {
	salesService service.SalesService
}

func NewSalesHandler(salesService service.SalesService) *SalesHandler {
	return &SalesHandler{salesService: salesService}
}

func (h *SalesHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyStaff := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	orders := router.Group("/api/sales-orders")
	{
		orders.GET("", anyStaff, h.ListOrders)
		orders.GET("/:id", anyStaff, h.GetOrder)
		orders.POST("", anyStaff, h.CreateOrder)
		orders.POST("/:id/approve", adminOnly, h.ApproveOrder)
		orders.POST("/:id/payments", anyStaff, h.AddPayment)
	}
}

// ListOrders returns sales orders newest first
// @Summary      List sales orders
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/sales-orders [get]
func (h *SalesHandler) ListOrders(c *gin.Context) {
	params := pagination.Parse(c)

	orders, total, err := h.salesService.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve orders: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	}))
}

// GetOrder returns one sales order with its items
// @Summary      Get sales order
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=model.SalesOrder}
// @Failure      404  {object}  response.Response
// @Router       /api/sales-orders/{id} [get]
func (h *SalesHandler) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.salesService.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Order not found"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// CreateOrder creates a draft sales order
// @Summary      Create sales order
// @Description  Creates a draft order with unpriced items. Stock is checked but not reserved; only an admin may pre-record a payment on the draft
// @Tags         sales
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateSalesOrderRequest  true  "Create Order Payload"
// @Success      201      {object}  response.Response{data=model.SalesOrder}
// @Failure      400      {object}  response.Response
// @Router       /api/sales-orders [post]
func (h *SalesHandler) CreateOrder(c *gin.Context) {
	var req service.CreateSalesOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	order, err := h.salesService.CreateDraft(c.Request.Context(), req, userID, c.GetString("userRole"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// ApproveOrder prices and approves a draft order
// @Summary      Approve sales order
// @Description  Prices every line, deducts stock under row locks and posts the receivable/cash entries. Fails without side effects if the order is not a draft
// @Tags         sales
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                            true  "Order ID"
// @Param        payload  body      service.ApproveSalesOrderRequest  true  "Approve Payload"
// @Success      200      {object}  response.Response{data=model.SalesOrder}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/sales-orders/{id}/approve [post]
func (h *SalesHandler) ApproveOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.ApproveSalesOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	order, err := h.salesService.Approve(c.Request.Context(), id, req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// AddPayment records a payment on an approved order
// @Summary      Add sales order payment
// @Description  Records a payment bounded by the order's remaining amount
// @Tags         sales
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Order ID"
// @Param        payload  body      service.OrderPaymentRequest  true  "Payment Payload"
// @Success      200      {object}  response.Response{data=model.SalesOrder}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/sales-orders/{id}/payments [post]
func (h *SalesHandler) AddPayment(c *gin.Context) {
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

	order, err := h.salesService.AddPayment(c.Request.Context(), id, req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}
