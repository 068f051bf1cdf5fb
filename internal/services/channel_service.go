package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classpoint/classroom-service/internal/events"
	"github.com/classpoint/classroom-service/internal/models"
	"github.com/classpoint/classroom-service/internal/repositories"
	"github.com/classpoint/classroom-service/internal/validator"
)

type channelService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewChannelService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) ChannelService {
	return &channelService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

// publish is best-effort: fan-out failures are logged and never fail the
// primary operation.
func (s *channelService) publish(ctx context.Context, topic, eventType string, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, eventType, data); err != nil {
		s.logger.Warn("event publish failed", "topic", topic, "type", eventType, "error", err)
	}
}

func (s *channelService) Create(ctx context.Context, creatorID string, req *validator.ChannelCreateRequest) (*models.Channel, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	channel := &models.Channel{
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   creatorID,
		InviteCode:  uuid.NewString(),
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Channel().Create(ctx, channel); err != nil {
			return err
		}
		_, err := tx.Channel().AddMember(ctx, &models.ChannelMember{
			ChannelID: channel.ID,
			UserID:    creatorID,
			Role:      models.RoleCreator,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("channel created", "channel_id", channel.ID, "creator_id", creatorID)
	return channel, nil
}

func (s *channelService) Get(ctx context.Context, userID string, channelID uint) (*ChannelDetails, error) {
	if _, ok, err := s.RoleAt(ctx, channelID, userID); err != nil {
		return nil, err
	} else if !ok {
		return nil, NewPermissionError(userID, channelID, "channel", "read", "not a member")
	}

	channel, err := s.repo.Channel().GetByIDWithDetails(ctx, channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}

	details := &ChannelDetails{Channel: channel}
	for i := range channel.Members {
		details.Members = append(details.Members, memberView(&channel.Members[i]))
	}
	for i := range channel.Subchannels {
		details.Subchannels = append(details.Subchannels, &channel.Subchannels[i])
	}
	return details, nil
}

func (s *channelService) ListJoined(ctx context.Context, userID string) ([]*models.Channel, error) {
	return s.repo.Channel().GetJoined(ctx, userID)
}

func (s *channelService) Stats(ctx context.Context, userID string, channelID uint) (*repositories.ChannelStats, error) {
	if _, ok, err := s.RoleAt(ctx, channelID, userID); err != nil {
		return nil, err
	} else if !ok {
		return nil, NewPermissionError(userID, channelID, "channel", "read_stats", "not a member")
	}
	return s.repo.Channel().Stats(ctx, channelID)
}

func (s *channelService) Delete(ctx context.Context, actorID string, channelID uint) error {
	role, ok, err := s.RoleAt(ctx, channelID, actorID)
	if err != nil {
		return err
	}
	if !ok || !CanDeleteChannel(role) {
		return NewPermissionError(actorID, channelID, "channel", "delete", "requires creator or admin role")
	}

	if err := s.repo.Channel().Delete(ctx, channelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChannelNotFound
		}
		return err
	}

	s.publish(ctx, events.RoomTopic(channelID, nil), events.EventChannelDeleted,
		events.MemberPayload{ChannelID: channelID, UserID: actorID})
	s.logger.Info("channel deleted", "channel_id", channelID, "actor_id", actorID)
	return nil
}

func (s *channelService) Join(ctx context.Context, userID string, inviteCode string) (*models.Channel, bool, error) {
	channel, err := s.repo.Channel().GetByInviteCode(ctx, inviteCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrInvalidInviteCode
		}
		return nil, false, err
	}

	member := &models.ChannelMember{
		ChannelID: channel.ID,
		UserID:    userID,
		Role:      models.RoleNewbie,
	}
	joined, err := s.repo.Channel().AddMember(ctx, member)
	if err != nil {
		return nil, false, err
	}

	if joined {
		s.publish(ctx, events.RoomTopic(channel.ID, nil), events.EventMemberJoined,
			events.MemberPayload{ChannelID: channel.ID, MemberID: member.ID, UserID: userID, Role: string(member.Role)})
	}
	return channel, joined, nil
}

func (s *channelService) Leave(ctx context.Context, userID string, channelID uint) error {
	member, err := s.repo.Channel().GetMember(ctx, channelID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	if allowed, reason := CanRemoveMember(member.Role, member.Role, true); !allowed {
		return NewPermissionError(userID, channelID, "channel", "leave", reason)
	}

	if err := s.repo.Channel().RemoveMember(ctx, member.ID); err != nil {
		return err
	}
	s.publish(ctx, events.RoomTopic(channelID, nil), events.EventMemberLeft,
		events.MemberPayload{ChannelID: channelID, MemberID: member.ID, UserID: userID})
	return nil
}

func (s *channelService) AddMember(ctx context.Context, actorID string, channelID uint, req *validator.MemberAddRequest) (*models.ChannelMember, bool, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, false, errs
	}

	actorRole, ok, err := s.RoleAt(ctx, channelID, actorID)
	if err != nil {
		return nil, false, err
	}
	if !ok || !actorRole.Privileged() {
		return nil, false, NewPermissionError(actorID, channelID, "channel", "add_member", "requires a privileged role")
	}

	role := req.Role
	if role == "" {
		role = models.RoleNewbie
	}
	if role == models.RoleCreator {
		return nil, false, validator.ValidationErrors{NewValidationError("role", "creator role cannot be assigned", role)}
	}

	member := &models.ChannelMember{
		ChannelID: channelID,
		UserID:    req.UserID,
		Role:      role,
	}
	added, err := s.repo.Channel().AddMember(ctx, member)
	if err != nil {
		return nil, false, err
	}
	if !added {
		// Duplicate adds converge on the existing row.
		existing, err := s.repo.Channel().GetMember(ctx, channelID, req.UserID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	s.publish(ctx, events.RoomTopic(channelID, nil), events.EventMemberJoined,
		events.MemberPayload{ChannelID: channelID, MemberID: member.ID, UserID: req.UserID, Role: string(role)})
	return member, true, nil
}

func (s *channelService) RemoveMember(ctx context.Context, actorID string, channelID uint, memberRef string) error {
	actorRole, ok, err := s.RoleAt(ctx, channelID, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return NewPermissionError(actorID, channelID, "channel", "remove_member", "not a member")
	}

	target, err := s.repo.Channel().FindMember(ctx, channelID, memberRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	if allowed, reason := CanRemoveMember(actorRole, target.Role, target.UserID == actorID); !allowed {
		return NewPermissionError(actorID, channelID, "channel", "remove_member", reason)
	}

	if err := s.repo.Channel().RemoveMember(ctx, target.ID); err != nil {
		return err
	}
	s.publish(ctx, events.RoomTopic(channelID, nil), events.EventMemberLeft,
		events.MemberPayload{ChannelID: channelID, MemberID: target.ID, UserID: target.UserID})
	return nil
}

func (s *channelService) UpdateMemberRole(ctx context.Context, actorID string, channelID uint, memberRef string, role models.ChannelRole) error {
	if !role.Valid() {
		return validator.ValidationErrors{NewValidationError("role", "is not a recognized role", role)}
	}

	actorRole, ok, err := s.RoleAt(ctx, channelID, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return NewPermissionError(actorID, channelID, "channel", "change_role", "not a member")
	}

	target, err := s.repo.Channel().FindMember(ctx, channelID, memberRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	if allowed, reason := CanChangeRole(actorRole, target.Role, role); !allowed {
		return NewPermissionError(actorID, channelID, "channel", "change_role", reason)
	}

	if err := s.repo.Channel().UpdateMemberRole(ctx, target.ID, role); err != nil {
		return err
	}
	s.publish(ctx, events.RoomTopic(channelID, nil), events.EventMemberRoleChanged,
		events.MemberPayload{ChannelID: channelID, MemberID: target.ID, UserID: target.UserID, Role: string(role)})
	return nil
}

func (s *channelService) ReplaceMembers(ctx context.Context, actorID string, channelID uint, req *validator.MemberBulkReplaceRequest) (int, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return 0, errs
	}

	actorRole, ok, err := s.RoleAt(ctx, channelID, actorID)
	if err != nil {
		return 0, err
	}
	if !ok || !CanDeleteChannel(actorRole) {
		return 0, NewPermissionError(actorID, channelID, "channel", "replace_members", "requires creator or admin role")
	}

	channel, err := s.repo.Channel().GetByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrChannelNotFound
		}
		return 0, err
	}

	members := make([]models.Membership, 0, len(req.Members)+1)
	// The creator row survives every bulk rewrite.
	members = append(members, models.Membership{UserID: channel.CreatorID, Role: models.RoleCreator})
	for i, m := range req.Members {
		role := m.Role
		if role == "" {
			role = models.RoleNewbie
		}
		if role == models.RoleCreator && m.UserID != channel.CreatorID {
			return 0, validator.ValidationErrors{
				NewValidationError("members", "creator role cannot be assigned", i),
			}
		}
		members = append(members, models.Membership{UserID: m.UserID, Role: role})
	}
	members = models.DedupMembers(members)

	if err := s.repo.Channel().ReplaceMembers(ctx, channelID, members); err != nil {
		return 0, err
	}
	return len(members), nil
}

func (s *channelService) ListMembers(ctx context.Context, userID string, channelID uint) ([]*MemberView, error) {
	if _, ok, err := s.RoleAt(ctx, channelID, userID); err != nil {
		return nil, err
	} else if !ok {
		return nil, NewPermissionError(userID, channelID, "channel", "list_members", "not a member")
	}

	members, err := s.repo.Channel().ListMembers(ctx, channelID)
	if err != nil {
		return nil, err
	}

	views := make([]*MemberView, 0, len(members))
	for _, m := range members {
		views = append(views, memberView(m))
	}
	return views, nil
}

func (s *channelService) CreateSubchannel(ctx context.Context, actorID string, channelID uint, req *validator.SubchannelCreateRequest) (*models.Subchannel, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	actorRole, ok, err := s.RoleAt(ctx, channelID, actorID)
	if err != nil {
		return nil, err
	}
	if !ok || !CanManageSubchannels(actorRole) {
		return nil, NewPermissionError(actorID, channelID, "subchannel", "create", "requires a privileged role")
	}

	members, err := s.repo.Channel().ListMembers(ctx, channelID)
	if err != nil {
		return nil, err
	}

	// Seed with the channel's privileged members as of now; later promotions
	// do not retroactively join existing subchannels.
	seed := make([]models.Membership, 0, len(members))
	channelRoles := make(map[string]models.ChannelRole, len(members))
	for _, m := range members {
		channelRoles[m.UserID] = m.Role
		if m.Role.Privileged() {
			seed = append(seed, models.Membership{UserID: m.UserID, Role: m.Role})
		}
	}
	for _, id := range req.MemberIDs {
		role, isMember := channelRoles[id]
		if !isMember {
			return nil, validator.ValidationErrors{
				NewValidationError("member_ids", "user is not a channel member", id),
			}
		}
		seed = append(seed, models.Membership{UserID: id, Role: role})
	}
	seed = models.DedupMembers(seed)

	subchannel := &models.Subchannel{
		ChannelID:   channelID,
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   actorID,
	}
	if err := s.repo.Channel().CreateSubchannel(ctx, subchannel, seed); err != nil {
		return nil, err
	}

	s.publish(ctx, events.RoomTopic(channelID, nil), events.EventSubchannelCreated,
		events.MemberPayload{ChannelID: channelID, UserID: actorID})
	s.logger.Info("subchannel created", "channel_id", channelID, "subchannel_id", subchannel.ID, "seeded", len(seed))
	return subchannel, nil
}

func (s *channelService) GetSubchannel(ctx context.Context, userID string, channelID, subchannelID uint) (*models.Subchannel, error) {
	role, ok, err := s.RoleAt(ctx, channelID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewPermissionError(userID, channelID, "subchannel", "read", "not a channel member")
	}

	subchannel, err := s.repo.Channel().GetSubchannel(ctx, subchannelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubchannelNotFound
		}
		return nil, err
	}
	if subchannel.ChannelID != channelID {
		return nil, ErrSubchannelNotFound
	}

	isSubMember := false
	if _, err := s.repo.Channel().GetSubchannelMember(ctx, subchannelID, userID); err == nil {
		isSubMember = true
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if !CanViewSubchannel(role, isSubMember) {
		return nil, NewPermissionError(userID, subchannelID, "subchannel", "read", "not a subchannel member")
	}
	return subchannel, nil
}

func (s *channelService) DeleteSubchannel(ctx context.Context, actorID string, channelID, subchannelID uint) error {
	role, ok, err := s.RoleAt(ctx, channelID, actorID)
	if err != nil {
		return err
	}
	if !ok || !CanDeleteChannel(role) {
		return NewPermissionError(actorID, subchannelID, "subchannel", "delete", "requires creator or admin role")
	}

	subchannel, err := s.repo.Channel().GetSubchannel(ctx, subchannelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubchannelNotFound
		}
		return err
	}
	if subchannel.ChannelID != channelID {
		return ErrSubchannelNotFound
	}

	return s.repo.Channel().DeleteSubchannel(ctx, subchannelID)
}

func (s *channelService) AddSubchannelMember(ctx context.Context, actorID string, channelID, subchannelID uint, userID string) error {
	role, ok, err := s.RoleAt(ctx, channelID, actorID)
	if err != nil {
		return err
	}
	if !ok || !CanManageSubchannels(role) {
		return NewPermissionError(actorID, subchannelID, "subchannel", "add_member", "requires a privileged role")
	}

	target, err := s.repo.Channel().GetMember(ctx, channelID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	subchannel, err := s.repo.Channel().GetSubchannel(ctx, subchannelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubchannelNotFound
		}
		return err
	}
	if subchannel.ChannelID != channelID {
		return ErrSubchannelNotFound
	}

	_, err = s.repo.Channel().AddSubchannelMember(ctx, &models.SubchannelMember{
		SubchannelID: subchannelID,
		UserID:       userID,
		Role:         target.Role,
	})
	return err
}

func (s *channelService) RoleAt(ctx context.Context, channelID uint, userID string) (models.ChannelRole, bool, error) {
	member, err := s.repo.Channel().GetMember(ctx, channelID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return member.Role, true, nil
}

func memberView(m *models.ChannelMember) *MemberView {
	view := &MemberView{
		MemberID: m.ID,
		UserID:   m.UserID,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
	}
	view.Name = m.User.DisplayName()
	view.Email = m.User.Email
	view.Status = m.User.Status
	if view.Status == "" {
		view.Status = models.PresenceOffline
	}
	return view
}
