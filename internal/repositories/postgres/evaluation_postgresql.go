package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/classpoint/classroom-service/internal/models"
	"github.com/classpoint/classroom-service/internal/repositories"
)

// ===== ASSIGNMENTS =====

type AssignmentPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewAssignmentPostgreSQL(db *gorm.DB) repositories.AssignmentRepository {
	return &AssignmentPostgreSQL{db: db, helpers: NewSharedHelpers(db)}
}

func (r *AssignmentPostgreSQL) CreateBatch(ctx context.Context, assignments []*models.EvaluationAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(assignments, 200).Error
}

func (r *AssignmentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.EvaluationAssignment, error) {
	var assignment models.EvaluationAssignment
	if err := r.db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *AssignmentPostgreSQL) Update(ctx context.Context, assignment *models.EvaluationAssignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *AssignmentPostgreSQL) ListByUser(ctx context.Context, email string, filters repositories.AssignmentFilters) ([]*models.EvaluationAssignment, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.EvaluationAssignment{}).
		Where("user_email = ?", email)
	query = r.helpers.ApplyAssignmentFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = r.helpers.ApplyPaginationAndSort(query, "assigned_at", "desc", filters.Limit, filters.Offset)

	var assignments []*models.EvaluationAssignment
	if err := query.Find(&assignments).Error; err != nil {
		return nil, 0, err
	}
	return assignments, total, nil
}

func (r *AssignmentPostgreSQL) ListByAssessment(ctx context.Context, assessmentID uint, channelID uint) ([]*models.EvaluationAssignment, error) {
	var assignments []*models.EvaluationAssignment
	err := r.db.WithContext(ctx).
		Where("assessment_id = ? AND channel_id = ?", assessmentID, channelID).
		Order("assigned_at DESC").
		Find(&assignments).Error
	return assignments, err
}

func (r *AssignmentPostgreSQL) StatsByAssessment(ctx context.Context, assessmentID uint, channelID uint) (*repositories.AssignmentStats, error) {
	var rows []struct {
		Status models.AssignmentStatus
		Count  int
	}
	err := r.db.WithContext(ctx).
		Model(&models.EvaluationAssignment{}).
		Select("status, COUNT(*) as count").
		Where("assessment_id = ? AND channel_id = ?", assessmentID, channelID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &repositories.AssignmentStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case models.AssignmentPending:
			stats.Pending = row.Count
		case models.AssignmentStarted:
			stats.Started = row.Count
		case models.AssignmentCompleted:
			stats.Completed = row.Count
		}
	}
	return stats, nil
}

// ===== RESULTS =====

type ResultPostgreSQL struct {
	db *gorm.DB
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &ResultPostgreSQL{db: db}
}

func (r *ResultPostgreSQL) Create(ctx context.Context, result *models.AssessmentResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *ResultPostgreSQL) GetByID(ctx context.Context, id uint) (*models.AssessmentResult, error) {
	var result models.AssessmentResult
	if err := r.db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *ResultPostgreSQL) GetByIDWithAnswers(ctx context.Context, id uint) (*models.AssessmentResult, error) {
	var result models.AssessmentResult
	err := r.db.WithContext(ctx).
		Preload("Answers").
		First(&result, id).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *ResultPostgreSQL) Update(ctx context.Context, result *models.AssessmentResult) error {
	return r.db.WithContext(ctx).Omit("Answers").Save(result).Error
}

func (r *ResultPostgreSQL) UpdateAnswers(ctx context.Context, resultID uint, answers []models.ResultAnswer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range answers {
			answers[i].ResultID = resultID
			if err := tx.Model(&models.ResultAnswer{}).
				Where("id = ? AND result_id = ?", answers[i].ID, resultID).
				Updates(map[string]interface{}{
					"points":   answers[i].Points,
					"feedback": answers[i].Feedback,
					"status":   answers[i].Status,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ResultPostgreSQL) ListByUser(ctx context.Context, email string, limit, offset int) ([]*models.AssessmentResult, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.AssessmentResult{}).
		Where("user_email = ?", email)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var results []*models.AssessmentResult
	if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// ===== DISTRIBUTIONS =====

type DistributionPostgreSQL struct {
	db *gorm.DB
}

func NewDistributionPostgreSQL(db *gorm.DB) repositories.DistributionRepository {
	return &DistributionPostgreSQL{db: db}
}

func (r *DistributionPostgreSQL) Create(ctx context.Context, distribution *models.Distribution) error {
	return r.db.WithContext(ctx).Create(distribution).Error
}

func (r *DistributionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Distribution, error) {
	var distribution models.Distribution
	if err := r.db.WithContext(ctx).First(&distribution, id).Error; err != nil {
		return nil, err
	}
	return &distribution, nil
}

func (r *DistributionPostgreSQL) ListForRooms(ctx context.Context, channelIDs []uint, subchannelIDs []uint) ([]*models.Distribution, error) {
	if len(channelIDs) == 0 && len(subchannelIDs) == 0 {
		return nil, nil
	}

	query := r.db.WithContext(ctx).Where("active = ?", true)
	switch {
	case len(subchannelIDs) == 0:
		// Channel-wide sends only; subchannel-scoped sends are invisible
		// without the matching subchannel membership.
		query = query.Where("channel_id IN ? AND subchannel_id IS NULL", channelIDs)
	case len(channelIDs) == 0:
		query = query.Where("subchannel_id IN ?", subchannelIDs)
	default:
		query = query.Where(
			"(channel_id IN ? AND subchannel_id IS NULL) OR subchannel_id IN ?",
			channelIDs, subchannelIDs,
		)
	}

	var distributions []*models.Distribution
	err := query.Order("sent_at DESC").Find(&distributions).Error
	return distributions, err
}

func (r *DistributionPostgreSQL) Deactivate(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Distribution{}).
		Where("id = ?", id).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
