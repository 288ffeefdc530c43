package handler

import (
	"errors"
	"net/http"

	"partspos/internal/service"
	"partspos/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// currentUserID reads the authenticated actor set by the auth middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid user identity"))
		return uuid.Nil, false
	}
	return id, true
}

// parseIDParam reads a uuid path parameter.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps service failures onto HTTP statuses: validation
// problems are 400, missing entities 404, state conflicts and blocked deletes
// 409, everything else 500.
func respondServiceError(c *gin.Context, err error) {
	var shortage *service.InsufficientStockError
	switch {
	case errors.As(err, &shortage):
		c.JSON(http.StatusBadRequest, response.Response{
			Status:     "error",
			StatusCode: http.StatusBadRequest,
			Data:       gin.H{"shortages": shortage.Shortages},
			Error:      shortage.Error(),
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	case errors.Is(err, service.ErrOrderNotDraft),
		errors.Is(err, service.ErrOrderNotApproved),
		errors.Is(err, service.ErrOrderAlreadyReceived),
		errors.Is(err, service.ErrDistributorInUse),
		errors.Is(err, service.ErrSKUTaken):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	default:
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	}
}
