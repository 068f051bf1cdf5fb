package repositories

import (
	"context"

	"github.com/classpoint/classroom-service/internal/models"
)

type FileRepository interface {
	Create(ctx context.Context, file *models.ChannelFile) error
	GetByID(ctx context.Context, id uint) (*models.ChannelFile, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*models.ChannelFile, error)
	ListByRoom(ctx context.Context, channelID uint, subchannelID *uint) ([]*models.ChannelFile, error)
	Delete(ctx context.Context, id uint) error

	// ToggleBookmark flips the bookmark for (file, user) and reports the new
	// state.
	ToggleBookmark(ctx context.Context, fileID uint, userID string) (bool, error)
	AddComment(ctx context.Context, comment *models.FileComment) error
	GetComment(ctx context.Context, id uint) (*models.FileComment, error)
	AddReply(ctx context.Context, reply *models.CommentReply) error
}
