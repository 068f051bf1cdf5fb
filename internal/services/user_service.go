package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/classpoint/classroom-service/internal/events"
	"github.com/classpoint/classroom-service/internal/models"
	"github.com/classpoint/classroom-service/internal/repositories"
	"github.com/classpoint/classroom-service/internal/utils"
	"github.com/classpoint/classroom-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	tokens    *utils.TokenManager
	presence  *events.PresenceTracker
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, tokens *utils.TokenManager, presence *events.PresenceTracker, logger *slog.Logger, v *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		tokens:    tokens,
		presence:  presence,
		logger:    logger,
		validator: v,
	}
}

func (s *userService) Signup(ctx context.Context, req *validator.SignupRequest) (*AuthResponse, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.User().GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Status:       models.PresenceOffline,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Name, user.Email)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *userService) Login(ctx context.Context, req *validator.LoginRequest) (*AuthResponse, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.repo.User().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Name, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Ping marks the user online and extends the presence window. Called by
// clients on a fixed interval well inside the presence TTL.
func (s *userService) Ping(ctx context.Context, userID string) error {
	if err := s.presence.SetOnline(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.User().UpdatePresence(ctx, userID, models.PresenceOnline, time.Now()); err != nil {
		s.logger.Warn("presence persist failed", "user_id", userID, "error", err)
	}
	return nil
}
