package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/classpoint/classroom-service/internal/events"
	"github.com/classpoint/classroom-service/internal/models"
	"github.com/classpoint/classroom-service/internal/repositories"
	"github.com/classpoint/classroom-service/internal/validator"
)

// ErrStreamingUnavailable is returned from Subscribe when the event bus has
// no in-process subscriber side (kafka deployments consume externally).
var ErrStreamingUnavailable = errors.New("event streaming not available on this deployment")

const defaultMessageBackfill = 50

type realtimeService struct {
	repo       repositories.Repository
	channels   ChannelService
	publisher  events.EventPublisher
	subscriber events.EventSubscriber
	presence   *events.PresenceTracker
	logger     *slog.Logger
	validator  *validator.Validator
}

func NewRealtimeService(
	repo repositories.Repository,
	channels ChannelService,
	publisher events.EventPublisher,
	subscriber events.EventSubscriber,
	presence *events.PresenceTracker,
	logger *slog.Logger,
	v *validator.Validator,
) RealtimeService {
	return &realtimeService{
		repo:       repo,
		channels:   channels,
		publisher:  publisher,
		subscriber: subscriber,
		presence:   presence,
		logger:     logger,
		validator:  v,
	}
}

// authorizeRoom checks that the user can read and write the room: channel
// membership, plus subchannel visibility when a subchannel is addressed.
func (s *realtimeService) authorizeRoom(ctx context.Context, userID string, channelID uint, subchannelID *uint) (models.ChannelRole, error) {
	role, ok, err := s.channels.RoleAt(ctx, channelID, userID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", NewPermissionError(userID, channelID, "channel", "access", "not a member")
	}
	if subchannelID != nil {
		if _, err := s.channels.GetSubchannel(ctx, userID, channelID, *subchannelID); err != nil {
			return "", err
		}
	}
	return role, nil
}

func (s *realtimeService) SendMessage(ctx context.Context, sender Actor, channelID uint, subchannelID *uint, req *validator.MessageSendRequest) (*models.Message, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}
	if _, err := s.authorizeRoom(ctx, sender.ID, channelID, subchannelID); err != nil {
		return nil, err
	}

	msg := &models.Message{
		ChannelID:    channelID,
		SubchannelID: subchannelID,
		SenderID:     sender.ID,
		SenderName:   sender.DisplayName(),
		Body:         req.Body,
	}
	if err := s.repo.Channel().CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, events.RoomTopic(channelID, subchannelID), events.EventMessageSent,
			events.MessagePayload{
				MessageID:    msg.ID,
				ChannelID:    channelID,
				SubchannelID: subchannelID,
				SenderID:     sender.ID,
				SenderName:   msg.SenderName,
				Body:         msg.Body,
				SentAt:       msg.SentAt,
			})
		if err != nil {
			s.logger.Warn("event publish failed", "type", events.EventMessageSent, "error", err)
		}
	}
	return msg, nil
}

func (s *realtimeService) ListMessages(ctx context.Context, userID string, channelID uint, subchannelID *uint, limit int) ([]*models.Message, error) {
	if _, err := s.authorizeRoom(ctx, userID, channelID, subchannelID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultMessageBackfill
	}
	return s.repo.Channel().ListMessages(ctx, channelID, subchannelID, limit)
}

func (s *realtimeService) SetOnline(ctx context.Context, userID string) error {
	if err := s.presence.SetOnline(ctx, userID); err != nil {
		return err
	}
	s.recordPresence(ctx, userID, models.PresenceOnline)
	return nil
}

func (s *realtimeService) SetOffline(ctx context.Context, userID string) error {
	if err := s.presence.SetOffline(ctx, userID); err != nil {
		return err
	}
	s.recordPresence(ctx, userID, models.PresenceOffline)
	return nil
}

func (s *realtimeService) Heartbeat(ctx context.Context, userID string) error {
	return s.presence.Heartbeat(ctx, userID)
}

// recordPresence mirrors the transition into the database for post-restart
// display and broadcasts it. Both are best effort.
func (s *realtimeService) recordPresence(ctx context.Context, userID string, status models.PresenceStatus) {
	now := time.Now()
	if err := s.repo.User().UpdatePresence(ctx, userID, status, now); err != nil {
		s.logger.Warn("presence persist failed", "user_id", userID, "error", err)
	}
	if s.publisher != nil {
		err := s.publisher.Publish(ctx, events.PresenceTopic, events.EventPresenceChanged,
			events.PresencePayload{UserID: userID, Status: string(status), At: now})
		if err != nil {
			s.logger.Warn("event publish failed", "type", events.EventPresenceChanged, "error", err)
		}
	}
}

func (s *realtimeService) Presence(ctx context.Context, userID string, channelID uint) (map[string]models.PresenceStatus, error) {
	members, err := s.channels.ListMembers(ctx, userID, channelID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	return s.presence.Statuses(ctx, ids)
}

func (s *realtimeService) Subscribe(ctx context.Context, userID string, channelID uint, subchannelID *uint) (<-chan *message.Message, error) {
	if s.subscriber == nil {
		return nil, ErrStreamingUnavailable
	}
	if _, err := s.authorizeRoom(ctx, userID, channelID, subchannelID); err != nil {
		return nil, err
	}
	return s.subscriber.Subscribe(ctx, events.RoomTopic(channelID, subchannelID))
}
