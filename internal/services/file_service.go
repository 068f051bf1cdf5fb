package services

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/classpoint/classroom-service/internal/events"
	"github.com/classpoint/classroom-service/internal/models"
	"github.com/classpoint/classroom-service/internal/repositories"
	"github.com/classpoint/classroom-service/internal/validator"
)

type fileService struct {
	repo      repositories.Repository
	channels  ChannelService
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewFileService(repo repositories.Repository, channels ChannelService, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) FileService {
	return &fileService{
		repo:      repo,
		channels:  channels,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *fileService) Upload(ctx context.Context, actor Actor, req *validator.FileUploadRequest) (*models.ChannelFile, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	role, ok, err := s.channels.RoleAt(ctx, req.ChannelID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok || !role.Privileged() {
		return nil, NewPermissionError(actor.ID, req.ChannelID, "file", "upload", "requires a privileged role")
	}

	if req.SubchannelID != nil {
		if _, err := s.channels.GetSubchannel(ctx, actor.ID, req.ChannelID, *req.SubchannelID); err != nil {
			return nil, err
		}
	}

	file := &models.ChannelFile{
		Name:         req.Name,
		FileURL:      req.FileURL,
		FileType:     req.FileType,
		UploaderID:   actor.ID,
		ChannelID:    req.ChannelID,
		SubchannelID: req.SubchannelID,
	}
	if err := s.repo.File().Create(ctx, file); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, events.RoomTopic(req.ChannelID, req.SubchannelID), events.EventFileUploaded,
			events.FilePayload{
				FileID:       file.ID,
				Name:         file.Name,
				ChannelID:    file.ChannelID,
				SubchannelID: file.SubchannelID,
				UploaderID:   actor.ID,
			})
		if err != nil {
			s.logger.Warn("event publish failed", "type", events.EventFileUploaded, "error", err)
		}
	}

	s.logger.Info("file uploaded", "file_id", file.ID, "channel_id", file.ChannelID, "name", file.Name)
	return file, nil
}

func (s *fileService) List(ctx context.Context, userID string, channelID uint, subchannelID *uint) ([]*models.ChannelFile, error) {
	if err := s.authorizeRoom(ctx, userID, channelID, subchannelID); err != nil {
		return nil, err
	}
	return s.repo.File().ListByRoom(ctx, channelID, subchannelID)
}

func (s *fileService) Get(ctx context.Context, userID string, fileID uint) (*models.ChannelFile, error) {
	file, err := s.repo.File().GetByIDWithDetails(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	if err := s.authorizeRoom(ctx, userID, file.ChannelID, file.SubchannelID); err != nil {
		return nil, err
	}
	return file, nil
}

// Delete removes file metadata. Allowed for the uploader, or for creators and
// admins of the owning channel.
func (s *fileService) Delete(ctx context.Context, actorID string, fileID uint) error {
	file, err := s.repo.File().GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFileNotFound
		}
		return err
	}

	if file.UploaderID != actorID {
		role, ok, err := s.channels.RoleAt(ctx, file.ChannelID, actorID)
		if err != nil {
			return err
		}
		if !ok || (role != models.RoleCreator && role != models.RoleAdmin) {
			return NewPermissionError(actorID, fileID, "file", "delete", "requires uploader, creator or admin")
		}
	}

	return s.repo.File().Delete(ctx, fileID)
}

func (s *fileService) ToggleBookmark(ctx context.Context, userID string, fileID uint) (bool, error) {
	file, err := s.repo.File().GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrFileNotFound
		}
		return false, err
	}
	if err := s.authorizeRoom(ctx, userID, file.ChannelID, file.SubchannelID); err != nil {
		return false, err
	}
	return s.repo.File().ToggleBookmark(ctx, fileID, userID)
}

func (s *fileService) AddComment(ctx context.Context, actor Actor, fileID uint, req *validator.CommentRequest) (*models.FileComment, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	file, err := s.repo.File().GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	if err := s.authorizeRoom(ctx, actor.ID, file.ChannelID, file.SubchannelID); err != nil {
		return nil, err
	}

	comment := &models.FileComment{
		FileID:   fileID,
		AuthorID: actor.ID,
		Body:     req.Body,
	}
	if err := s.repo.File().AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *fileService) AddReply(ctx context.Context, actor Actor, commentID uint, req *validator.CommentRequest) (*models.CommentReply, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	comment, err := s.repo.File().GetComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	file, err := s.repo.File().GetByID(ctx, comment.FileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	if err := s.authorizeRoom(ctx, actor.ID, file.ChannelID, file.SubchannelID); err != nil {
		return nil, err
	}

	reply := &models.CommentReply{
		CommentID: commentID,
		AuthorID:  actor.ID,
		Body:      req.Body,
	}
	if err := s.repo.File().AddReply(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *fileService) authorizeRoom(ctx context.Context, userID string, channelID uint, subchannelID *uint) error {
	_, ok, err := s.channels.RoleAt(ctx, channelID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return NewPermissionError(userID, channelID, "channel", "access", "not a member")
	}
	if subchannelID != nil {
		if _, err := s.channels.GetSubchannel(ctx, userID, channelID, *subchannelID); err != nil {
			return err
		}
	}
	return nil
}
