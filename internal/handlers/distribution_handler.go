package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classpoint/classroom-service/internal/services"
	"github.com/classpoint/classroom-service/internal/utils"
	"github.com/classpoint/classroom-service/internal/validator"
)

type DistributionHandler struct {
	BaseHandler
	distributionService services.DistributionService
}

func NewDistributionHandler(distributionService services.DistributionService, logger utils.Logger) *DistributionHandler {
	return &DistributionHandler{
		BaseHandler:         NewBaseHandler(logger),
		distributionService: distributionService,
	}
}

func (h *DistributionHandler) Send(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	var req validator.DistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	distribution, err := h.distributionService.Send(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, distribution)
}

func (h *DistributionHandler) ListVisible(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	views, err := h.distributionService.ListVisible(c.Request.Context(), actor.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: views})
}

func (h *DistributionHandler) Deactivate(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.distributionService.Deactivate(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "distribution deactivated"})
}
