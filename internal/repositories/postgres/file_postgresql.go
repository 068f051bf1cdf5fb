package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/classpoint/classroom-service/internal/models"
	"github.com/classpoint/classroom-service/internal/repositories"
)

type FilePostgreSQL struct {
	db *gorm.DB
}

func NewFilePostgreSQL(db *gorm.DB) repositories.FileRepository {
	return &FilePostgreSQL{db: db}
}

func (r *FilePostgreSQL) Create(ctx context.Context, file *models.ChannelFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *FilePostgreSQL) GetByID(ctx context.Context, id uint) (*models.ChannelFile, error) {
	var file models.ChannelFile
	if err := r.db.WithContext(ctx).First(&file, id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *FilePostgreSQL) GetByIDWithDetails(ctx context.Context, id uint) (*models.ChannelFile, error) {
	var file models.ChannelFile
	err := r.db.WithContext(ctx).
		Preload("Bookmarks").
		Preload("Comments").
		Preload("Comments.Author").
		Preload("Comments.Replies").
		Preload("Uploader").
		First(&file, id).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *FilePostgreSQL) ListByRoom(ctx context.Context, channelID uint, subchannelID *uint) ([]*models.ChannelFile, error) {
	query := r.db.WithContext(ctx).Where("channel_id = ?", channelID)
	if subchannelID != nil {
		query = query.Where("subchannel_id = ?", *subchannelID)
	} else {
		query = query.Where("subchannel_id IS NULL")
	}

	var files []*models.ChannelFile
	err := query.Order("created_at DESC").Find(&files).Error
	return files, err
}

func (r *FilePostgreSQL) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.ChannelFile{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *FilePostgreSQL) ToggleBookmark(ctx context.Context, fileID uint, userID string) (bool, error) {
	var bookmarked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.FileBookmark
		err := tx.Where("file_id = ? AND user_id = ?", fileID, userID).First(&existing).Error
		switch {
		case err == nil:
			bookmarked = false
			return tx.Delete(&existing).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			bookmarked = true
			return tx.Create(&models.FileBookmark{FileID: fileID, UserID: userID}).Error
		default:
			return err
		}
	})
	return bookmarked, err
}

func (r *FilePostgreSQL) AddComment(ctx context.Context, comment *models.FileComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *FilePostgreSQL) GetComment(ctx context.Context, id uint) (*models.FileComment, error) {
	var comment models.FileComment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *FilePostgreSQL) AddReply(ctx context.Context, reply *models.CommentReply) error {
	return r.db.WithContext(ctx).Create(reply).Error
}
