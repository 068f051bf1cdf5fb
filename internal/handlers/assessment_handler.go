package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/classpoint/classroom-service/internal/models"
	"github.com/classpoint/classroom-service/internal/repositories"
	"github.com/classpoint/classroom-service/internal/services"
	"github.com/classpoint/classroom-service/internal/utils"
	"github.com/classpoint/classroom-service/internal/validator"
)

type AssessmentHandler struct {
	BaseHandler
	assessmentService services.AssessmentService
	generationService services.GenerationService
}

func NewAssessmentHandler(
	assessmentService services.AssessmentService,
	generationService services.GenerationService,
	logger utils.Logger,
) *AssessmentHandler {
	return &AssessmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assessmentService: assessmentService,
		generationService: generationService,
	}
}

func (h *AssessmentHandler) Create(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	var req validator.AssessmentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	assessment, err := h.assessmentService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assessment)
}

// CreateWithKind pins the kind from the route, so each assessment family has
// a dedicated endpoint.
func (h *AssessmentHandler) CreateWithKind(kind models.AssessmentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := h.currentActor(c)
		if !ok {
			return
		}

		var req validator.AssessmentCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
			return
		}
		req.Kind = kind

		assessment, err := h.assessmentService.Create(c.Request.Context(), actor, &req)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, assessment)
	}
}

func (h *AssessmentHandler) Get(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	assessment, err := h.assessmentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	// Answer keys are only visible to the author.
	includeAnswers := assessment.CreatorEmail == actor.Email
	view, err := h.assessmentService.GetWithQuestions(c.Request.Context(), id, includeAnswers)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *AssessmentHandler) ListMine(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	filters := repositories.AssessmentFilters{
		Limit:  queryInt(c, "limit", 50),
		Offset: queryInt(c, "offset", 0),
	}
	if raw := c.Query("kind"); raw != "" {
		kind := models.AssessmentKind(raw)
		filters.Kind = &kind
	}

	assessments, total, err := h.assessmentService.ListByCreator(c.Request.Context(), actor.Email, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: gin.H{"assessments": assessments, "total": total}})
}

func (h *AssessmentHandler) Delete(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.assessmentService.Delete(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "assessment deleted"})
}

func (h *AssessmentHandler) Generate(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	var req validator.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	h.LogRequest(c, "generating assessment", "category", req.Category, "topic", req.Topic)
	assessment, err := h.generationService.Generate(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assessment)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	if raw := c.Query(name); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}
