package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/classpoint/classroom-service/internal/cache"
	"github.com/classpoint/classroom-service/internal/models"
	"github.com/classpoint/classroom-service/internal/repositories"
)

type AssessmentPostgreSQL struct {
	db      *gorm.DB
	cache   *cache.CacheManager
	helpers *SharedHelpers
}

func NewAssessmentPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.AssessmentRepository {
	return &AssessmentPostgreSQL{
		db:      db,
		cache:   cacheManager,
		helpers: NewSharedHelpers(db),
	}
}

func (r *AssessmentPostgreSQL) Create(ctx context.Context, assessment *models.Assessment) error {
	// Questions ride along via the association; gorm inserts them with the
	// parent in one transaction.
	return r.db.WithContext(ctx).Create(assessment).Error
}

func (r *AssessmentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Assessment, error) {
	if r.cache != nil {
		if cached, ok := r.cache.GetAssessment(ctx, id); ok {
			return cached, nil
		}
	}

	var assessment models.Assessment
	if err := r.db.WithContext(ctx).First(&assessment, id).Error; err != nil {
		return nil, err
	}

	if r.cache != nil {
		r.cache.SetAssessment(ctx, &assessment)
	}
	return &assessment, nil
}

func (r *AssessmentPostgreSQL) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Assessment, error) {
	var assessment models.Assessment
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position ASC")
		}).
		First(&assessment, id).Error
	if err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (r *AssessmentPostgreSQL) GetByCreator(ctx context.Context, email string, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error) {
	filters.CreatorEmail = &email
	return r.List(ctx, filters)
}

func (r *AssessmentPostgreSQL) List(ctx context.Context, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Assessment{})
	query = r.helpers.ApplyAssessmentFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = r.helpers.ApplyPaginationAndSort(query, "created_at", "desc", filters.Limit, filters.Offset)

	var assessments []*models.Assessment
	if err := query.Find(&assessments).Error; err != nil {
		return nil, 0, err
	}
	return assessments, total, nil
}

func (r *AssessmentPostgreSQL) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Assessment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	if r.cache != nil {
		r.cache.DeleteAssessment(ctx, id)
	}
	return nil
}

func (r *AssessmentPostgreSQL) TitlesByID(ctx context.Context, ids []uint) (map[uint]string, error) {
	titles := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}

	var rows []struct {
		ID    uint
		Title string
	}
	err := r.db.WithContext(ctx).
		Model(&models.Assessment{}).
		Select("id, title").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		titles[row.ID] = row.Title
	}
	return titles, nil
}
