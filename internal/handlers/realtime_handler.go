package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/classpoint/classroom-service/internal/services"
	"github.com/classpoint/classroom-service/internal/utils"
	"github.com/classpoint/classroom-service/internal/validator"
)

type RealtimeHandler struct {
	BaseHandler
	realtimeService services.RealtimeService
}

func NewRealtimeHandler(realtimeService services.RealtimeService, logger utils.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		BaseHandler:     NewBaseHandler(logger),
		realtimeService: realtimeService,
	}
}

// parseSubchannelQuery reads the optional subchannel_id query parameter.
func (h *RealtimeHandler) parseSubchannelQuery(c *gin.Context) (*uint, bool) {
	raw := c.Query("subchannel_id")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid subchannel_id parameter", Details: raw})
		return nil, false
	}
	v := uint(id)
	return &v, true
}

func (h *RealtimeHandler) SendMessage(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	channelID := h.parseIDParam(c, "id")
	if channelID == 0 {
		return
	}
	subchannelID, ok := h.parseSubchannelQuery(c)
	if !ok {
		return
	}

	var req validator.MessageSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	msg, err := h.realtimeService.SendMessage(c.Request.Context(), actor, channelID, subchannelID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *RealtimeHandler) ListMessages(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	channelID := h.parseIDParam(c, "id")
	if channelID == 0 {
		return
	}
	subchannelID, ok := h.parseSubchannelQuery(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	messages, err := h.realtimeService.ListMessages(c.Request.Context(), actor.ID, channelID, subchannelID, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: messages})
}

func (h *RealtimeHandler) Presence(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	channelID := h.parseIDParam(c, "id")
	if channelID == 0 {
		return
	}

	statuses, err := h.realtimeService.Presence(c.Request.Context(), actor.ID, channelID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: statuses})
}

func (h *RealtimeHandler) Online(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	if err := h.realtimeService.SetOnline(c.Request.Context(), actor.ID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "online"})
}

func (h *RealtimeHandler) Offline(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	if err := h.realtimeService.SetOffline(c.Request.Context(), actor.ID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "offline"})
}

func (h *RealtimeHandler) Heartbeat(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	if err := h.realtimeService.Heartbeat(c.Request.Context(), actor.ID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "ok"})
}

// Subscribe streams room events to the client as server-sent events until the
// client disconnects.
func (h *RealtimeHandler) Subscribe(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	channelID := h.parseIDParam(c, "id")
	if channelID == 0 {
		return
	}
	subchannelID, ok := h.parseSubchannelQuery(c)
	if !ok {
		return
	}

	msgs, err := h.realtimeService.Subscribe(c.Request.Context(), actor.ID, channelID, subchannelID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, open := <-msgs:
			if !open {
				return false
			}
			c.SSEvent("message", string(msg.Payload))
			msg.Ack()
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
