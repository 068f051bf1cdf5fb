package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classpoint/classroom-service/internal/models"
	"github.com/classpoint/classroom-service/internal/repositories"
	"github.com/classpoint/classroom-service/internal/services"
	"github.com/classpoint/classroom-service/internal/utils"
	"github.com/classpoint/classroom-service/internal/validator"
)

type EvaluationHandler struct {
	BaseHandler
	evaluationService services.EvaluationService
	gradingService    services.GradingService
	exportService     services.ExportService
}

func NewEvaluationHandler(
	evaluationService services.EvaluationService,
	gradingService services.GradingService,
	exportService services.ExportService,
	logger utils.Logger,
) *EvaluationHandler {
	return &EvaluationHandler{
		BaseHandler:       NewBaseHandler(logger),
		evaluationService: evaluationService,
		gradingService:    gradingService,
		exportService:     exportService,
	}
}

// Assign fans an assessment out to every member of the target room.
func (h *EvaluationHandler) Assign(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	var req validator.DistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	count, err := h.evaluationService.CreateAssignments(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "assignments created",
		Data:    gin.H{"count": count},
	})
}

func (h *EvaluationHandler) ListAssignments(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	filters := repositories.AssignmentFilters{
		IncludeHidden: c.Query("include_hidden") == "true",
		Limit:         queryInt(c, "limit", 50),
		Offset:        queryInt(c, "offset", 0),
	}
	if raw := c.Query("category"); raw != "" {
		category := models.AssessmentCategory(raw)
		filters.Category = &category
	}
	if raw := c.Query("status"); raw != "" {
		status := models.AssignmentStatus(raw)
		filters.Status = &status
	}
	if channelID := queryInt(c, "channel_id", 0); channelID > 0 {
		id := uint(channelID)
		filters.ChannelID = &id
	}

	assignments, total, err := h.evaluationService.ListAssignments(c.Request.Context(), actor.Email, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: gin.H{"assignments": assignments, "total": total}})
}

func (h *EvaluationHandler) GetAssignment(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	view, err := h.evaluationService.GetAssignment(c.Request.Context(), actor.Email, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *EvaluationHandler) StartAssignment(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	assignment, err := h.evaluationService.StartAssignment(c.Request.Context(), actor.Email, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignment)
}

func (h *EvaluationHandler) SubmitAssignment(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	resp, err := h.evaluationService.SubmitAssignment(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EvaluationHandler) SetHidden(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req struct {
		Hidden bool `json:"hidden"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.evaluationService.SetHidden(c.Request.Context(), actor.Email, id, req.Hidden); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "visibility updated"})
}

func (h *EvaluationHandler) Stats(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	assessmentID := h.parseIDParam(c, "id")
	if assessmentID == 0 {
		return
	}
	channelID := uint(queryInt(c, "channel_id", 0))
	if channelID == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "channel_id query parameter is required"})
		return
	}

	stats, err := h.evaluationService.Stats(c.Request.Context(), actor, assessmentID, channelID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Export streams the per-member result sheet as an .xlsx download.
func (h *EvaluationHandler) Export(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	assessmentID := h.parseIDParam(c, "id")
	if assessmentID == 0 {
		return
	}
	channelID := uint(queryInt(c, "channel_id", 0))
	if channelID == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "channel_id query parameter is required"})
		return
	}

	data, filename, err := h.exportService.ExportAssessmentResults(c.Request.Context(), actor, assessmentID, channelID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ===== RESULTS =====

func (h *EvaluationHandler) GetResult(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	result, err := h.gradingService.GetResult(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *EvaluationHandler) ListMyResults(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	results, total, err := h.gradingService.ListResultsByUser(c.Request.Context(), actor.Email,
		queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: gin.H{"results": results, "total": total}})
}

func (h *EvaluationHandler) GradeResult(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	result, err := h.gradingService.GradeResult(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
