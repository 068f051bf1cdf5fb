package repositories

import (
	"context"

	"github.com/classpoint/classroom-service/internal/models"
)

type AssessmentRepository interface {
	// Create persists the assessment together with its ordered questions.
	Create(ctx context.Context, assessment *models.Assessment) error
	GetByID(ctx context.Context, id uint) (*models.Assessment, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.Assessment, error)
	GetByCreator(ctx context.Context, email string, filters AssessmentFilters) ([]*models.Assessment, int64, error)
	List(ctx context.Context, filters AssessmentFilters) ([]*models.Assessment, int64, error)
	Delete(ctx context.Context, id uint) error

	// TitlesByID resolves display titles for a set of assessment ids in one
	// round trip; absent ids are simply missing from the map.
	TitlesByID(ctx context.Context, ids []uint) (map[uint]string, error)
}
