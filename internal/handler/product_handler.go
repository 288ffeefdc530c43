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

type ProductHandler struct {
	inventoryService service.InventoryService
	purchaseService  service.PurchaseService
}

func NewProductHandler(inventoryService service.InventoryService, purchaseService service.PurchaseService) *ProductHandler {
	return &ProductHandler{inventoryService: inventoryService, purchaseService: purchaseService}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyStaff := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	products := router.Group("/api/products")
	{
		products.GET("", anyStaff, h.ListProducts)
		products.GET("/low-stock", anyStaff, h.ListLowStock)
		products.GET("/:id", anyStaff, h.GetProduct)
		products.GET("/:id/details", anyStaff, h.GetProductDetails)
		products.POST("", anyStaff, h.CreateProduct)
		products.PUT("/:id", anyStaff, h.UpdateProduct)
		products.DELETE("/:id", adminOnly, h.DeleteProduct)
		products.POST("/:id/restock", adminOnly, h.RestockProduct)
	}
}

// ListProducts returns the active catalog
// @Summary      List products
// @Description  Retrieves a paginated list of active products, optionally filtered by name, SKU or part number
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Param        search  query     string  false  "Search by name, SKU or part number"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	params := pagination.Parse(c)
	search := c.Query("search")

	products, total, err := h.inventoryService.List(c.Request.Context(), params.Page, params.Limit, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve products: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// ListLowStock returns products at or below their minimum stock level
// @Summary      List low-stock products
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Product}
// @Failure      500  {object}  response.Response
// @Router       /api/products/low-stock [get]
func (h *ProductHandler) ListLowStock(c *gin.Context) {
	products, err := h.inventoryService.ListLowStock(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve low-stock products: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, products))
}

// GetProduct returns one product
// @Summary      Get product
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=model.Product}
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.inventoryService.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Product not found"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// GetProductDetails returns a product with its recent stock movements
// @Summary      Get product details
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=service.ProductDetails}
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id}/details [get]
func (h *ProductHandler) GetProductDetails(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	details, err := h.inventoryService.GetDetails(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, details))
}

// CreateProduct adds a product to the catalog
// @Summary      Create product
// @Description  Creates a product; opening stock is logged as a manual adjustment movement
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ProductRequest  true  "Create Product Payload"
// @Success      201      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	product, err := h.inventoryService.Create(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, product))
}

// UpdateProduct edits a product
// @Summary      Update product
// @Description  Updates catalog fields; a changed stock quantity is logged as an adjustment movement
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Product ID"
// @Param        payload  body      service.ProductRequest  true  "Update Product Payload"
// @Success      200      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	product, err := h.inventoryService.Update(c.Request.Context(), id, req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// DeleteProduct soft deletes a product
// @Summary      Delete product
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.inventoryService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Product deleted successfully"))
}

// RestockProduct receives new stock straight onto a product
// @Summary      Restock product
// @Description  Applies a received batch to the product; when the product has a distributor, an already-received purchase order is created with the matching ledger entries
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Product ID"
// @Param        payload  body      service.RestockRequest  true  "Restock Payload"
// @Success      200      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/products/{id}/restock [post]
func (h *ProductHandler) RestockProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	product, err := h.purchaseService.Restock(c.Request.Context(), id, req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}
