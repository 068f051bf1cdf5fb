package repositories

import (
	"context"

	"github.com/classpoint/classroom-service/internal/models"
)

type ChannelRepository interface {
	Create(ctx context.Context, channel *models.Channel) error
	GetByID(ctx context.Context, id uint) (*models.Channel, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*models.Channel, error)
	GetByInviteCode(ctx context.Context, code string) (*models.Channel, error)
	GetJoined(ctx context.Context, userID string) ([]*models.Channel, error)
	Delete(ctx context.Context, id uint) error
	Stats(ctx context.Context, id uint) (*ChannelStats, error)

	// Members. AddMember is an atomic conditional insert: it returns false
	// without error when the (channel, user) pair already exists.
	AddMember(ctx context.Context, member *models.ChannelMember) (bool, error)
	GetMember(ctx context.Context, channelID uint, userID string) (*models.ChannelMember, error)
	// FindMember resolves a member reference that may be either the
	// membership-row id or the user id; row-id match is tried first.
	FindMember(ctx context.Context, channelID uint, ref string) (*models.ChannelMember, error)
	ListMembers(ctx context.Context, channelID uint) ([]*models.ChannelMember, error)
	UpdateMemberRole(ctx context.Context, memberID uint, role models.ChannelRole) error
	RemoveMember(ctx context.Context, memberID uint) error
	// ReplaceMembers rewrites the full roster; callers must dedup first.
	ReplaceMembers(ctx context.Context, channelID uint, members []models.Membership) error

	// Subchannels.
	CreateSubchannel(ctx context.Context, subchannel *models.Subchannel, seed []models.Membership) error
	GetSubchannel(ctx context.Context, id uint) (*models.Subchannel, error)
	ListSubchannels(ctx context.Context, channelID uint) ([]*models.Subchannel, error)
	DeleteSubchannel(ctx context.Context, id uint) error
	AddSubchannelMember(ctx context.Context, member *models.SubchannelMember) (bool, error)
	// GetJoinedSubchannelIDs resolves every subchannel the user belongs to.
	GetJoinedSubchannelIDs(ctx context.Context, userID string) ([]uint, error)
	GetSubchannelMember(ctx context.Context, subchannelID uint, userID string) (*models.SubchannelMember, error)
	ListSubchannelMembers(ctx context.Context, subchannelID uint) ([]*models.SubchannelMember, error)

	// Messages.
	CreateMessage(ctx context.Context, message *models.Message) error
	ListMessages(ctx context.Context, channelID uint, subchannelID *uint, limit int) ([]*models.Message, error)
}
