package handler

import (
	"net/http"
	"strconv"

	"partspos/internal/middleware"
	"partspos/internal/model"
	"partspos/internal/service"
	"partspos/pkg/pagination"
	"partspos/pkg/response"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	customerService service.CustomerService
}

func NewCustomerHandler(customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

func (h *CustomerHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyStaff := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)

	customers := router.Group("/api/customers")
	{
		customers.GET("", anyStaff, h.ListCustomers)
		customers.GET("/:id", anyStaff, h.GetCustomer)
		customers.GET("/:id/orders", anyStaff, h.ListCustomerOrders)
		customers.GET("/:id/transactions", anyStaff, h.ListCustomerTransactions)
		customers.POST("", anyStaff, h.CreateCustomer)
		customers.PUT("/:id", anyStaff, h.UpdateCustomer)
		customers.POST("/:id/payments", anyStaff, h.ApplyAccountPayment)
	}
}

// ListCustomers returns customers newest first
// @Summary      List customers
// @Tags         customers
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	params := pagination.Parse(c)

	customers, total, err := h.customerService.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve customers: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"customers": customers,
		"total":     total,
		"page":      params.Page,
		"limit":     params.Limit,
	}))
}

// GetCustomer returns one customer
// @Summary      Get customer
// @Tags         customers
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  response.Response{data=model.Customer}
// @Failure      404  {object}  response.Response
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	customer, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Customer not found"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, customer))
}

// ListCustomerOrders returns the customer's sales orders
// @Summary      List customer orders
// @Tags         customers
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  response.Response{data=[]model.SalesOrder}
// @Failure      500  {object}  response.Response
// @Router       /api/customers/{id}/orders [get]
func (h *CustomerHandler) ListCustomerOrders(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	orders, err := h.customerService.ListOrders(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve orders: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, orders))
}

// ListCustomerTransactions returns the customer's recent ledger entries
// @Summary      List customer ledger entries
// @Tags         customers
// @Security     BearerAuth
// @Produce      json
// @Param        id     path      string  true   "Customer ID"
// @Param        limit  query     int     false  "Max entries (default 50)"
// @Success      200    {object}  response.Response{data=[]model.CustomerTransaction}
// @Failure      500    {object}  response.Response
// @Router       /api/customers/{id}/transactions [get]
func (h *CustomerHandler) ListCustomerTransactions(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	transactions, err := h.customerService.ListTransactions(c.Request.Context(), id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve transactions: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, transactions))
}

// CreateCustomer registers a customer
// @Summary      Create customer
// @Tags         customers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CustomerRequest  true  "Create Customer Payload"
// @Success      201      {object}  response.Response{data=model.Customer}
// @Failure      400      {object}  response.Response
// @Router       /api/customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req service.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, customer))
}

// UpdateCustomer edits a customer
// @Summary      Update customer
// @Tags         customers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Customer ID"
// @Param        payload  body      service.CustomerRequest  true  "Update Customer Payload"
// @Success      200      {object}  response.Response{data=model.Customer}
// @Failure      404      {object}  response.Response
// @Router       /api/customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, customer))
}

// ApplyAccountPayment takes a payment against the customer's account
// @Summary      Apply account payment
// @Description  Consumes the payment oldest debt first across the customer's open orders; a single ledger payment and cash-in entry are posted for the gross amount
// @Tags         customers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Customer ID"
// @Param        payload  body      service.AccountPaymentRequest  true  "Payment Payload"
// @Success      200      {object}  response.Response{data=service.AccountPaymentResult}
// @Failure      400      {object}  response.Response
// @Router       /api/customers/{id}/payments [post]
func (h *CustomerHandler) ApplyAccountPayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.AccountPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.customerService.ApplyAccountPayment(c.Request.Context(), id, req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
