package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/classpoint/classroom-service/internal/events"
	"github.com/classpoint/classroom-service/internal/models"
	"github.com/classpoint/classroom-service/internal/repositories"
	"github.com/classpoint/classroom-service/internal/validator"
)

type gradingService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewGradingService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) GradingService {
	return &gradingService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *gradingService) GradeResult(ctx context.Context, evaluator Actor, resultID uint, req *validator.GradeRequest) (*models.AssessmentResult, error) {
	if errs := s.validateGradeRequest(req); errs.HasErrors() {
		return nil, errs
	}

	result, err := s.repo.Result().GetByIDWithAnswers(ctx, resultID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}

	if result.Status != models.ResultPending {
		return nil, ErrResultNotPending
	}
	if result.AssessmentKind.Category() == models.CategoryQuiz {
		return nil, ErrCategoryNotGradable
	}

	assessment, err := s.repo.Assessment().GetByIDWithQuestions(ctx, result.AssessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, err
	}
	if assessment.CreatorEmail != evaluator.Email {
		return nil, NewPermissionError(evaluator.ID, resultID, "result", "grade", "only the assessment creator can evaluate")
	}

	grades := make(map[uint]validator.AnswerGrade, len(req.Answers))
	for _, g := range req.Answers {
		grades[g.QuestionID] = g
	}

	// Total possible always comes from the assessment's configured points,
	// not from whatever the evaluator happened to submit.
	possible := 0
	pointsByQuestion := make(map[uint]int, len(assessment.Questions))
	for _, q := range assessment.Questions {
		possible += q.Points
		pointsByQuestion[q.ID] = q.Points
	}

	// Merge by question id: answers without a grade entry keep zero points;
	// that is an ungraded answer, not an error.
	earned := 0
	now := time.Now()
	for i := range result.Answers {
		answer := &result.Answers[i]
		grade, graded := grades[answer.QuestionID]
		if !graded {
			answer.Points = 0
			answer.Status = models.AnswerEvaluated
			continue
		}

		points := grade.Points
		if max, known := pointsByQuestion[answer.QuestionID]; known && points > max {
			points = max
		}
		answer.Points = points
		answer.Feedback = grade.Feedback
		answer.Status = models.AnswerEvaluated
		earned += points
	}

	result.Score = earned
	result.TotalPoints = earned
	result.MaxPossibleScore = possible
	result.PercentageScore = percentage(earned, possible)
	result.Status = models.ResultCompleted
	result.OverallFeedback = req.OverallFeedback
	result.EvaluatedAt = &now
	if result.CompletedAt == nil {
		result.CompletedAt = &now
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Result().UpdateAnswers(ctx, result.ID, result.Answers); err != nil {
			return err
		}
		return tx.Result().Update(ctx, result)
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, events.UserTopic(result.UserEmail), events.EventResultGraded,
			events.AssignmentPayload{
				AssessmentID:   result.AssessmentID,
				AssessmentKind: string(result.AssessmentKind),
				UserEmail:      result.UserEmail,
				Status:         string(result.Status),
			})
		if err != nil {
			s.logger.Warn("event publish failed", "type", events.EventResultGraded, "error", err)
		}
	}

	s.logger.Info("result evaluated",
		"result_id", result.ID,
		"assessment_id", result.AssessmentID,
		"score", earned,
		"possible", possible)
	return result, nil
}

// validateGradeRequest layers the non-empty-feedback rule on top of struct
// tags: manual evaluation without feedback is not accepted.
func (s *gradingService) validateGradeRequest(req *validator.GradeRequest) validator.ValidationErrors {
	errs := s.validator.Validate(req)
	for i, g := range req.Answers {
		if strings.TrimSpace(g.Feedback) == "" {
			errs = append(errs, NewValidationError(
				fmt.Sprintf("answers[%d].feedback", i), "is required", nil))
		}
	}
	return errs
}

func (s *gradingService) GetResult(ctx context.Context, actor Actor, resultID uint) (*models.AssessmentResult, error) {
	result, err := s.repo.Result().GetByIDWithAnswers(ctx, resultID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}

	if result.UserEmail == actor.Email {
		return result, nil
	}
	assessment, err := s.repo.Assessment().GetByID(ctx, result.AssessmentID)
	if err == nil && assessment.CreatorEmail == actor.Email {
		return result, nil
	}
	return nil, NewPermissionError(actor.ID, resultID, "result", "read", "not the candidate or the assessment creator")
}

func (s *gradingService) ListResultsByUser(ctx context.Context, email string, limit, offset int) ([]*models.AssessmentResult, int64, error) {
	return s.repo.Result().ListByUser(ctx, email, limit, offset)
}
