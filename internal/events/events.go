package events

import (
	"fmt"
	"time"
)

// Event types fanned out to connected clients.
const (
	EventMessageSent       = "channel.message_sent"
	EventMemberJoined      = "channel.member_joined"
	EventMemberLeft        = "channel.member_left"
	EventMemberRoleChanged = "channel.member_role_changed"
	EventSubchannelCreated = "channel.subchannel_created"
	EventChannelDeleted    = "channel.deleted"
	EventFileUploaded      = "channel.file_uploaded"

	EventAssessmentDistributed = "evaluation.assessment_distributed"
	EventAssignmentCreated     = "evaluation.assignment_created"
	EventAssignmentCompleted   = "evaluation.assignment_completed"
	EventResultGraded          = "evaluation.result_graded"

	EventPresenceChanged = "presence.changed"
)

// Event is the envelope published on room topics.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Room      string      `json:"room,omitempty"`
	Data      interface{} `json:"data"`
}

// RoomTopic builds the pub/sub topic for a channel or one of its
// subchannels. Channel-level and subchannel-level rooms are distinct topics;
// a subchannel event never reaches members subscribed only to the channel.
func RoomTopic(channelID uint, subchannelID *uint) string {
	if subchannelID != nil {
		return fmt.Sprintf("channel.%d.%d", channelID, *subchannelID)
	}
	return fmt.Sprintf("channel.%d", channelID)
}

// UserTopic builds the topic for direct-to-user events such as assignment
// fan-out notifications.
func UserTopic(email string) string {
	return "user." + email
}

// PresenceTopic is the global presence broadcast topic.
const PresenceTopic = "presence"

// ===== EVENT PAYLOADS =====

type MessagePayload struct {
	MessageID    uint      `json:"message_id"`
	ChannelID    uint      `json:"channel_id"`
	SubchannelID *uint     `json:"subchannel_id,omitempty"`
	SenderID     string    `json:"sender_id"`
	SenderName   string    `json:"sender_name"`
	Body         string    `json:"body"`
	SentAt       time.Time `json:"sent_at"`
}

type MemberPayload struct {
	ChannelID uint   `json:"channel_id"`
	MemberID  uint   `json:"member_id"`
	UserID    string `json:"user_id"`
	Role      string `json:"role,omitempty"`
}

type DistributionPayload struct {
	AssessmentID   uint   `json:"assessment_id"`
	AssessmentKind string `json:"assessment_kind"`
	Title          string `json:"title"`
	ChannelID      uint   `json:"channel_id"`
	SubchannelID   *uint  `json:"subchannel_id,omitempty"`
	SentBy         string `json:"sent_by"`
}

type AssignmentPayload struct {
	AssignmentID   uint   `json:"assignment_id"`
	AssessmentID   uint   `json:"assessment_id"`
	AssessmentKind string `json:"assessment_kind"`
	UserEmail      string `json:"user_email"`
	Status         string `json:"status"`
}

type PresencePayload struct {
	UserID string    `json:"user_id"`
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

type FilePayload struct {
	FileID       uint   `json:"file_id"`
	Name         string `json:"name"`
	ChannelID    uint   `json:"channel_id"`
	SubchannelID *uint  `json:"subchannel_id,omitempty"`
	UploaderID   string `json:"uploader_id"`
}
