package repositories

import (
	"context"

	"github.com/classpoint/classroom-service/internal/models"
)

type AssignmentRepository interface {
	// CreateBatch bulk-inserts all assignments in a single statement.
	CreateBatch(ctx context.Context, assignments []*models.EvaluationAssignment) error
	GetByID(ctx context.Context, id uint) (*models.EvaluationAssignment, error)
	Update(ctx context.Context, assignment *models.EvaluationAssignment) error
	ListByUser(ctx context.Context, email string, filters AssignmentFilters) ([]*models.EvaluationAssignment, int64, error)
	ListByAssessment(ctx context.Context, assessmentID uint, channelID uint) ([]*models.EvaluationAssignment, error)
	StatsByAssessment(ctx context.Context, assessmentID uint, channelID uint) (*AssignmentStats, error)
}

type ResultRepository interface {
	// Create persists the result together with its answer rows.
	Create(ctx context.Context, result *models.AssessmentResult) error
	GetByID(ctx context.Context, id uint) (*models.AssessmentResult, error)
	GetByIDWithAnswers(ctx context.Context, id uint) (*models.AssessmentResult, error)
	Update(ctx context.Context, result *models.AssessmentResult) error
	UpdateAnswers(ctx context.Context, resultID uint, answers []models.ResultAnswer) error
	ListByUser(ctx context.Context, email string, limit, offset int) ([]*models.AssessmentResult, int64, error)
}

type DistributionRepository interface {
	Create(ctx context.Context, distribution *models.Distribution) error
	GetByID(ctx context.Context, id uint) (*models.Distribution, error)
	// ListForRooms returns active distributions visible from any of the
	// given channel or subchannel memberships.
	ListForRooms(ctx context.Context, channelIDs []uint, subchannelIDs []uint) ([]*models.Distribution, error)
	Deactivate(ctx context.Context, id uint) error
}
