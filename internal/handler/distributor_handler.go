package handler

import (
	"net/http"

	"partspos/internal/middleware"
	"partspos/internal/model"
	"partspos/internal/service"
	"partspos/pkg/response"

	"github.com/gin-gonic/gin"
)

type DistributorHandler struct {
	distributorService service.DistributorService
}

func NewDistributorHandler(distributorService service.DistributorService) *DistributorHandler {
	return &DistributorHandler{distributorService: distributorService}
}

func (h *DistributorHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyStaff := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	distributors := router.Group("/api/distributors")
	{
		distributors.GET("", anyStaff, h.ListDistributors)
		distributors.GET("/:id", anyStaff, h.GetDistributor)
		distributors.GET("/:id/details", anyStaff, h.GetDistributorDetails)
		distributors.POST("", anyStaff, h.CreateDistributor)
		distributors.PUT("/:id", anyStaff, h.UpdateDistributor)
		distributors.DELETE("/:id", adminOnly, h.DeleteDistributor)
	}
}

// ListDistributors returns all distributors
// @Summary      List distributors
// @Tags         distributors
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Distributor}
// @Failure      500  {object}  response.Response
// @Router       /api/distributors [get]
func (h *DistributorHandler) ListDistributors(c *gin.Context) {
	distributors, err := h.distributorService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve distributors: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, distributors))
}

// GetDistributor returns one distributor
// @Summary      Get distributor
// @Tags         distributors
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Distributor ID"
// @Success      200  {object}  response.Response{data=model.Distributor}
// @Failure      404  {object}  response.Response
// @Router       /api/distributors/{id} [get]
func (h *DistributorHandler) GetDistributor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	distributor, err := h.distributorService.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Distributor not found"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, distributor))
}

// GetDistributorDetails returns the distributor with their products, orders and ledger
// @Summary      Get distributor details
// @Tags         distributors
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Distributor ID"
// @Success      200  {object}  response.Response{data=service.DistributorDetails}
// @Failure      404  {object}  response.Response
// @Router       /api/distributors/{id}/details [get]
func (h *DistributorHandler) GetDistributorDetails(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	details, err := h.distributorService.GetDetails(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, details))
}

// CreateDistributor registers a distributor
// @Summary      Create distributor
// @Tags         distributors
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.DistributorRequest  true  "Create Distributor Payload"
// @Success      201      {object}  response.Response{data=model.Distributor}
// @Failure      400      {object}  response.Response
// @Router       /api/distributors [post]
func (h *DistributorHandler) CreateDistributor(c *gin.Context) {
	var req service.DistributorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	distributor, err := h.distributorService.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, distributor))
}

// UpdateDistributor edits a distributor
// @Summary      Update distributor
// @Tags         distributors
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Distributor ID"
// @Param        payload  body      service.DistributorRequest  true  "Update Distributor Payload"
// @Success      200      {object}  response.Response{data=model.Distributor}
// @Failure      404      {object}  response.Response
// @Router       /api/distributors/{id} [put]
func (h *DistributorHandler) UpdateDistributor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.DistributorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	distributor, err := h.distributorService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, distributor))
}

// DeleteDistributor removes a distributor with no remaining references
// @Summary      Delete distributor
// @Description  Refuses with a conflict while products, purchase orders or ledger entries still reference the distributor
// @Tags         distributors
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Distributor ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/distributors/{id} [delete]
func (h *DistributorHandler) DeleteDistributor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.distributorService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Distributor deleted successfully"))
}
