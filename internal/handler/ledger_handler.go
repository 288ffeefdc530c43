package handler

import (
	"net/http"
	"time"

	"partspos/internal/middleware"
	"partspos/internal/model"
	"partspos/internal/service"
	"partspos/pkg/response"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	ledgerService service.LedgerService
}

func NewLedgerHandler(ledgerService service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

func (h *LedgerHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyStaff := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)

	ledger := router.Group("/api")
	{
		ledger.GET("/cash-book", anyStaff, h.GetCashBook)
		ledger.GET("/ledger", anyStaff, h.GetLedger)
	}
}

func parseDateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid "+name+", expected YYYY-MM-DD"))
		return time.Time{}, false
	}
	return t, true
}

// GetCashBook returns the cash log with running balances
// @Summary      Get cash book
// @Description  Returns cash entries newest first, each annotated with the running balance, filtered by type and date range
// @Tags         ledger
// @Security     BearerAuth
// @Produce      json
// @Param        type        query     string  false  "Entry type: in, out or all"
// @Param        start_date  query     string  false  "Start date (YYYY-MM-DD)"
// @Param        end_date    query     string  false  "End date (YYYY-MM-DD)"
// @Success      200         {object}  response.Response{data=[]model.CashBookLine}
// @Failure      500         {object}  response.Response
// @Router       /api/cash-book [get]
func (h *LedgerHandler) GetCashBook(c *gin.Context) {
	start, ok := parseDateQuery(c, "start_date")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end_date")
	if !ok {
		return
	}

	lines, err := h.ledgerService.CashBook(c.Request.Context(), c.Query("type"), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve cash book: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, lines))
}

// GetLedger returns the unified customer and supplier ledger
// @Summary      Get unified ledger
// @Description  Combines customer and supplier entries into one timeline with a running net position and outstanding totals
// @Tags         ledger
// @Security     BearerAuth
// @Produce      json
// @Param        type        query     string  false  "Ledger: customer, supplier or all"
// @Param        start_date  query     string  false  "Start date (YYYY-MM-DD)"
// @Param        end_date    query     string  false  "End date (YYYY-MM-DD)"
// @Success      200         {object}  response.Response{data=service.UnifiedLedgerResult}
// @Failure      500         {object}  response.Response
// @Router       /api/ledger [get]
func (h *LedgerHandler) GetLedger(c *gin.Context) {
	start, ok := parseDateQuery(c, "start_date")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end_date")
	if !ok {
		return
	}

	result, err := h.ledgerService.UnifiedLedger(c.Request.Context(), c.Query("type"), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve ledger: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
