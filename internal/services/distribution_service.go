package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/classpoint/classroom-service/internal/events"
	"github.com/classpoint/classroom-service/internal/models"
	"github.com/classpoint/classroom-service/internal/repositories"
	"github.com/classpoint/classroom-service/internal/validator"
)

// distributionService is the per-send mechanism that predates individual
// assignments: one record per send action, recipients resolved at read time
// from the requesting user's memberships. Kept alongside the assignment
// fan-out as a distinct capability.
type distributionService struct {
	repo      repositories.Repository
	channels  ChannelService
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewDistributionService(repo repositories.Repository, channels ChannelService, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) DistributionService {
	return &distributionService{
		repo:      repo,
		channels:  channels,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *distributionService) Send(ctx context.Context, actor Actor, req *validator.DistributeRequest) (*models.Distribution, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	role, ok, err := s.channels.RoleAt(ctx, req.ChannelID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok || !role.Privileged() {
		return nil, NewPermissionError(actor.ID, req.ChannelID, "distribution", "send", "requires a privileged role")
	}

	assessment, err := s.repo.Assessment().GetByID(ctx, req.AssessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, err
	}

	if req.SubchannelID != nil {
		subchannel, err := s.repo.Channel().GetSubchannel(ctx, *req.SubchannelID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSubchannelNotFound
			}
			return nil, err
		}
		if subchannel.ChannelID != req.ChannelID {
			return nil, ErrSubchannelNotFound
		}
	}

	distribution := &models.Distribution{
		AssessmentID:   assessment.ID,
		AssessmentKind: assessment.Kind,
		ChannelID:      req.ChannelID,
		SubchannelID:   req.SubchannelID,
		SentBy:         actor.Email,
		SentAt:         time.Now(),
		Active:         true,
	}
	if err := s.repo.Distribution().Create(ctx, distribution); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, events.RoomTopic(req.ChannelID, req.SubchannelID),
			events.EventAssessmentDistributed,
			events.DistributionPayload{
				AssessmentID:   assessment.ID,
				AssessmentKind: string(assessment.Kind),
				Title:          assessment.Title,
				ChannelID:      req.ChannelID,
				SubchannelID:   req.SubchannelID,
				SentBy:         actor.Email,
			})
		if err != nil {
			s.logger.Warn("event publish failed", "type", events.EventAssessmentDistributed, "error", err)
		}
	}

	s.logger.Info("assessment distributed",
		"distribution_id", distribution.ID,
		"assessment_id", assessment.ID,
		"channel_id", req.ChannelID)
	return distribution, nil
}

func (s *distributionService) ListVisible(ctx context.Context, userID string) ([]*DistributionView, error) {
	channels, err := s.repo.Channel().GetJoined(ctx, userID)
	if err != nil {
		return nil, err
	}
	channelIDs := make([]uint, 0, len(channels))
	for _, c := range channels {
		channelIDs = append(channelIDs, c.ID)
	}

	subchannelIDs, err := s.repo.Channel().GetJoinedSubchannelIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	distributions, err := s.repo.Distribution().ListForRooms(ctx, channelIDs, subchannelIDs)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(distributions))
	for _, d := range distributions {
		ids = append(ids, d.AssessmentID)
	}
	titles, err := s.repo.Assessment().TitlesByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]*DistributionView, 0, len(distributions))
	for _, d := range distributions {
		title, found := titles[d.AssessmentID]
		if !found {
			title = missingAssessmentTitle
		}
		views = append(views, &DistributionView{Distribution: d, AssessmentTitle: title})
	}
	return views, nil
}

// Deactivate retires a send. Allowed for the original sender or any
// privileged member of the target channel.
func (s *distributionService) Deactivate(ctx context.Context, actor Actor, id uint) error {
	dist, err := s.repo.Distribution().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDistributionNotFound
		}
		return err
	}

	if dist.SentBy != actor.Email {
		role, ok, err := s.channels.RoleAt(ctx, dist.ChannelID, actor.ID)
		if err != nil {
			return err
		}
		if !ok || !role.Privileged() {
			return NewPermissionError(actor.ID, id, "distribution", "deactivate", "requires sender or a privileged role")
		}
	}

	if err := s.repo.Distribution().Deactivate(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDistributionNotFound
		}
		return err
	}
	return nil
}
