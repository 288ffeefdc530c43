package handler

import (
	"net/http"
	"strconv"

	"partspos/internal/middleware"
	"partspos/internal/model"
	"partspos/internal/service"
	"partspos/pkg/response"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyStaff := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)

	reports := router.Group("/api")
	{
		reports.GET("/dashboard", anyStaff, h.GetDashboard)
		reports.GET("/reports/receivables", anyStaff, h.GetReceivables)
		reports.GET("/reports/payables", anyStaff, h.GetPayables)
		reports.GET("/reports/receivables-aging", anyStaff, h.GetReceivablesAging)
		reports.GET("/reports/payables-aging", anyStaff, h.GetPayablesAging)
	}
}

// GetDashboard returns the headline metrics
// @Summary      Get dashboard metrics
// @Description  Revenue, profit, order and purchase totals, outstanding balances, top products and distributors, and the 12-month revenue series. Year and month scope the period; omitted means all time
// @Tags         analytics
// @Security     BearerAuth
// @Produce      json
// @Param        year   query     int  false  "Year filter"
// @Param        month  query     int  false  "Month filter (1-12, needs year)"
// @Success      200    {object}  response.Response{data=model.DashboardMetrics}
// @Failure      500    {object}  response.Response
// @Router       /api/dashboard [get]
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	month, _ := strconv.Atoi(c.Query("month"))

	metrics, err := h.analyticsService.Dashboard(c.Request.Context(), year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to compute dashboard: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, metrics))
}

// GetReceivables returns who owes the business
// @Summary      Get receivables
// @Description  Registered customers with open balances plus unpaid walk-in orders
// @Tags         analytics
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.ReceivablesView}
// @Failure      500  {object}  response.Response
// @Router       /api/reports/receivables [get]
func (h *AnalyticsHandler) GetReceivables(c *gin.Context) {
	view, err := h.analyticsService.Receivables(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve receivables: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, view))
}

// GetPayables returns whom the business owes
// @Summary      Get payables
// @Tags         analytics
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.PayablesView}
// @Failure      500  {object}  response.Response
// @Router       /api/reports/payables [get]
func (h *AnalyticsHandler) GetPayables(c *gin.Context) {
	view, err := h.analyticsService.Payables(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve payables: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, view))
}

// GetReceivablesAging buckets open customer balances by days outstanding
// @Summary      Get receivables aging
// @Tags         analytics
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.AgingBuckets}
// @Failure      500  {object}  response.Response
// @Router       /api/reports/receivables-aging [get]
func (h *AnalyticsHandler) GetReceivablesAging(c *gin.Context) {
	buckets, err := h.analyticsService.ReceivablesAging(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to compute aging: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, buckets))
}

// GetPayablesAging buckets open supplier balances by days outstanding
// @Summary      Get payables aging
// @Tags         analytics
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.AgingBuckets}
// @Failure      500  {object}  response.Response
// @Router       /api/reports/payables-aging [get]
func (h *AnalyticsHandler) GetPayablesAging(c *gin.Context) {
	buckets, err := h.analyticsService.PayablesAging(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to compute aging: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, buckets))
}
