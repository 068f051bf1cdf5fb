package repositories

import (
	"context"
	"time"

	"github.com/classpoint/classroom-service/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmails(ctx context.Context, emails []string) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePresence(ctx context.Context, id string, status models.PresenceStatus, at time.Time) error
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
}
