package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classpoint/classroom-service/internal/services"
	"github.com/classpoint/classroom-service/internal/utils"
	"github.com/classpoint/classroom-service/internal/validator"
)

type ChannelHandler struct {
	BaseHandler
	channelService services.ChannelService
}

func NewChannelHandler(channelService services.ChannelService, logger utils.Logger) *ChannelHandler {
	return &ChannelHandler{
		BaseHandler:    NewBaseHandler(logger),
		channelService: channelService,
	}
}

func (h *ChannelHandler) Create(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	var req validator.ChannelCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	channel, err := h.channelService.Create(c.Request.Context(), actor.ID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, channel)
}

func (h *ChannelHandler) List(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	channels, err := h.channelService.ListJoined(c.Request.Context(), actor.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: channels})
}

func (h *ChannelHandler) Get(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	details, err := h.channelService.Get(c.Request.Context(), actor.ID, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *ChannelHandler) Delete(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.channelService.Delete(c.Request.Context(), actor.ID, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "channel deleted"})
}

func (h *ChannelHandler) Stats(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	stats, err := h.channelService.Stats(c.Request.Context(), actor.ID, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *ChannelHandler) Join(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	var req validator.ChannelJoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	channel, joined, err := h.channelService.Join(c.Request.Context(), actor.ID, req.InviteCode)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	status := http.StatusOK
	message := "already a member"
	if joined {
		status = http.StatusCreated
		message = "joined"
	}
	c.JSON(status, SuccessResponse{Message: message, Data: channel})
}

func (h *ChannelHandler) Leave(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.channelService.Leave(c.Request.Context(), actor.ID, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "left channel"})
}

// ===== MEMBERS =====

func (h *ChannelHandler) ListMembers(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	members, err := h.channelService.ListMembers(c.Request.Context(), actor.ID, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: members})
}

func (h *ChannelHandler) AddMember(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.MemberAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	member, added, err := h.channelService.AddMember(c.Request.Context(), actor.ID, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	c.JSON(status, member)
}

func (h *ChannelHandler) RemoveMember(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.channelService.RemoveMember(c.Request.Context(), actor.ID, id, c.Param("member_ref")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "member removed"})
}

func (h *ChannelHandler) UpdateMemberRole(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.MemberRoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.channelService.UpdateMemberRole(c.Request.Context(), actor.ID, id, c.Param("member_ref"), req.Role); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "role updated"})
}

func (h *ChannelHandler) ReplaceMembers(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.MemberBulkReplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	count, err := h.channelService.ReplaceMembers(c.Request.Context(), actor.ID, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "members replaced", Data: gin.H{"count": count}})
}

// ===== SUBCHANNELS =====

func (h *ChannelHandler) CreateSubchannel(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.SubchannelCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	subchannel, err := h.channelService.CreateSubchannel(c.Request.Context(), actor.ID, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, subchannel)
}

func (h *ChannelHandler) GetSubchannel(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	subID := h.parseIDParam(c, "subchannel_id")
	if subID == 0 {
		return
	}

	subchannel, err := h.channelService.GetSubchannel(c.Request.Context(), actor.ID, id, subID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, subchannel)
}

func (h *ChannelHandler) DeleteSubchannel(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	subID := h.parseIDParam(c, "subchannel_id")
	if subID == 0 {
		return
	}

	if err := h.channelService.DeleteSubchannel(c.Request.Context(), actor.ID, id, subID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "subchannel deleted"})
}

func (h *ChannelHandler) AddSubchannelMember(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	subID := h.parseIDParam(c, "subchannel_id")
	if subID == 0 {
		return
	}

	var req validator.MemberAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.channelService.AddSubchannelMember(c.Request.Context(), actor.ID, id, subID, req.UserID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SuccessResponse{Message: "member added"})
}
