package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/classpoint/classroom-service/internal/cache"
	"github.com/classpoint/classroom-service/internal/models"
	"github.com/classpoint/classroom-service/internal/repositories"
)

type ChannelPostgreSQL struct {
	db    *gorm.DB
	cache *cache.CacheManager
}

func NewChannelPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.ChannelRepository {
	return &ChannelPostgreSQL{db: db, cache: cacheManager}
}

func (r *ChannelPostgreSQL) Create(ctx context.Context, channel *models.Channel) error {
	return r.db.WithContext(ctx).Create(channel).Error
}

func (r *ChannelPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Channel, error) {
	var channel models.Channel
	if err := r.db.WithContext(ctx).First(&channel, id).Error; err != nil {
		return nil, err
	}
	return &channel, nil
}

func (r *ChannelPostgreSQL) GetByIDWithDetails(ctx context.Context, id uint) (*models.Channel, error) {
	var channel models.Channel
	err := r.db.WithContext(ctx).
		Preload("Members").
		Preload("Members.User").
		Preload("Subchannels").
		First(&channel, id).Error
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

func (r *ChannelPostgreSQL) GetByInviteCode(ctx context.Context, code string) (*models.Channel, error) {
	var channel models.Channel
	if err := r.db.WithContext(ctx).Where("invite_code = ?", code).First(&channel).Error; err != nil {
		return nil, err
	}
	return &channel, nil
}

func (r *ChannelPostgreSQL) GetJoined(ctx context.Context, userID string) ([]*models.Channel, error) {
	var channels []*models.Channel
	err := r.db.WithContext(ctx).
		Joins("JOIN channel_members ON channel_members.channel_id = channels.id").
		Where("channel_members.user_id = ?", userID).
		Order("channels.created_at DESC").
		Find(&channels).Error
	return channels, err
}

func (r *ChannelPostgreSQL) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Delete(&models.Channel{}, id).Error
	if err == nil {
		r.invalidate(ctx, id)
	}
	return err
}

func (r *ChannelPostgreSQL) Stats(ctx context.Context, id uint) (*repositories.ChannelStats, error) {
	stats := &repositories.ChannelStats{}

	counts := []struct {
		model interface{}
		dst   *int
	}{
		{&models.ChannelMember{}, &stats.MemberCount},
		{&models.Subchannel{}, &stats.SubchannelCount},
		{&models.Message{}, &stats.MessageCount},
		{&models.ChannelFile{}, &stats.FileCount},
	}
	for _, c := range counts {
		var n int64
		if err := r.db.WithContext(ctx).Model(c.model).Where("channel_id = ?", id).Count(&n).Error; err != nil {
			return nil, err
		}
		*c.dst = int(n)
	}
	return stats, nil
}

// AddMember inserts atomically: the unique (channel_id, user_id) index plus
// ON CONFLICT DO NOTHING makes concurrent duplicate joins converge on a
// single row without a prior read.
func (r *ChannelPostgreSQL) AddMember(ctx context.Context, member *models.ChannelMember) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "channel_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(member)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		r.invalidate(ctx, member.ChannelID)
	}
	return res.RowsAffected > 0, nil
}

func (r *ChannelPostgreSQL) GetMember(ctx context.Context, channelID uint, userID string) (*models.ChannelMember, error) {
	var member models.ChannelMember
	err := r.db.WithContext(ctx).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *ChannelPostgreSQL) FindMember(ctx context.Context, channelID uint, ref string) (*models.ChannelMember, error) {
	var member models.ChannelMember

	// Try the membership-row id first, then fall back to the user id.
	var rowID uint
	if _, err := fmt.Sscanf(ref, "%d", &rowID); err == nil {
		err := r.db.WithContext(ctx).
			Where("channel_id = ? AND id = ?", channelID, rowID).
			First(&member).Error
		if err == nil {
			return &member, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	err := r.db.WithContext(ctx).
		Where("channel_id = ? AND user_id = ?", channelID, ref).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *ChannelPostgreSQL) ListMembers(ctx context.Context, channelID uint) ([]*models.ChannelMember, error) {
	var members []*models.ChannelMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("channel_id = ?", channelID).
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}

func (r *ChannelPostgreSQL) UpdateMemberRole(ctx context.Context, memberID uint, role models.ChannelRole) error {
	res := r.db.WithContext(ctx).
		Model(&models.ChannelMember{}).
		Where("id = ?", memberID).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ChannelPostgreSQL) RemoveMember(ctx context.Context, memberID uint) error {
	res := r.db.WithContext(ctx).Delete(&models.ChannelMember{}, memberID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ChannelPostgreSQL) ReplaceMembers(ctx context.Context, channelID uint, members []models.Membership) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("channel_id = ?", channelID).Delete(&models.ChannelMember{}).Error; err != nil {
			return err
		}
		if len(members) == 0 {
			return nil
		}
		rows := make([]models.ChannelMember, 0, len(members))
		for _, m := range members {
			rows = append(rows, models.ChannelMember{
				ChannelID: channelID,
				UserID:    m.UserID,
				Role:      m.Role,
			})
		}
		return tx.Create(&rows).Error
	})
}

func (r *ChannelPostgreSQL) CreateSubchannel(ctx context.Context, subchannel *models.Subchannel, seed []models.Membership) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(subchannel).Error; err != nil {
			return err
		}
		if len(seed) == 0 {
			return nil
		}
		rows := make([]models.SubchannelMember, 0, len(seed))
		for _, m := range seed {
			rows = append(rows, models.SubchannelMember{
				SubchannelID: subchannel.ID,
				UserID:       m.UserID,
				Role:         m.Role,
			})
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subchannel_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&rows).Error
	})
}

func (r *ChannelPostgreSQL) GetSubchannel(ctx context.Context, id uint) (*models.Subchannel, error) {
	var subchannel models.Subchannel
	if err := r.db.WithContext(ctx).First(&subchannel, id).Error; err != nil {
		return nil, err
	}
	return &subchannel, nil
}

func (r *ChannelPostgreSQL) ListSubchannels(ctx context.Context, channelID uint) ([]*models.Subchannel, error) {
	var subchannels []*models.Subchannel
	err := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Order("created_at ASC").
		Find(&subchannels).Error
	return subchannels, err
}

func (r *ChannelPostgreSQL) DeleteSubchannel(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Subchannel{}, id).Error
}

func (r *ChannelPostgreSQL) AddSubchannelMember(ctx context.Context, member *models.SubchannelMember) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subchannel_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(member)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ChannelPostgreSQL) GetJoinedSubchannelIDs(ctx context.Context, userID string) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.SubchannelMember{}).
		Where("user_id = ?", userID).
		Pluck("subchannel_id", &ids).Error
	return ids, err
}

func (r *ChannelPostgreSQL) GetSubchannelMember(ctx context.Context, subchannelID uint, userID string) (*models.SubchannelMember, error) {
	var member models.SubchannelMember
	err := r.db.WithContext(ctx).
		Where("subchannel_id = ? AND user_id = ?", subchannelID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *ChannelPostgreSQL) ListSubchannelMembers(ctx context.Context, subchannelID uint) ([]*models.SubchannelMember, error) {
	var members []*models.SubchannelMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("subchannel_id = ?", subchannelID).
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}

func (r *ChannelPostgreSQL) CreateMessage(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *ChannelPostgreSQL) ListMessages(ctx context.Context, channelID uint, subchannelID *uint, limit int) ([]*models.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	query := r.db.WithContext(ctx).Where("channel_id = ?", channelID)
	if subchannelID != nil {
		query = query.Where("subchannel_id = ?", *subchannelID)
	} else {
		query = query.Where("subchannel_id IS NULL")
	}

	// Fetch the newest N, then reverse into chronological order.
	var messages []*models.Message
	if err := query.Order("sent_at DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *ChannelPostgreSQL) invalidate(ctx context.Context, channelID uint) {
	if r.cache == nil {
		return
	}
	r.cache.DeleteChannel(ctx, channelID)
}
