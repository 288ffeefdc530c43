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

type ExpenseHandler struct {
	expenseService service.ExpenseService
}

func NewExpenseHandler(expenseService service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

func (h *ExpenseHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyStaff := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	expenses := router.Group("/api/expenses")
	{
		expenses.GET("", anyStaff, h.ListExpenses)
		expenses.GET("/:id", anyStaff, h.GetExpense)
		expenses.POST("", anyStaff, h.CreateExpense)
		expenses.PUT("/:id", adminOnly, h.UpdateExpense)
	}
}

// ListExpenses returns expenses by date descending
// @Summary      List expenses
// @Tags         expenses
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	params := pagination.Parse(c)

	expenses, total, err := h.expenseService.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve expenses: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"expenses": expenses,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// GetExpense returns one expense
// @Summary      Get expense
// @Tags         expenses
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Expense ID"
// @Success      200  {object}  response.Response{data=model.Expense}
// @Failure      404  {object}  response.Response
// @Router       /api/expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	expense, err := h.expenseService.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Expense not found"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}

// CreateExpense records an expense
// @Summary      Create expense
// @Description  Records the expense and posts a matching cash-out entry
// @Tags         expenses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ExpenseRequest  true  "Create Expense Payload"
// @Success      201      {object}  response.Response{data=model.Expense}
// @Failure      400      {object}  response.Response
// @Router       /api/expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req service.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.Create(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, expense))
}

// UpdateExpense edits an expense
// @Summary      Update expense
// @Description  Edits the expense and corrects the cash book with a delta entry; expenses are never hard deleted
// @Tags         expenses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Expense ID"
// @Param        payload  body      service.ExpenseRequest  true  "Update Expense Payload"
// @Success      200      {object}  response.Response{data=model.Expense}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.Update(c.Request.Context(), id, req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}
