package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/classpoint/classroom-service/internal/models"
	"github.com/classpoint/classroom-service/internal/repositories"
	"github.com/classpoint/classroom-service/internal/validator"
)

const defaultQuizExpiryDays = 7

type assessmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	business  *validator.BusinessValidator
}

func NewAssessmentService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) AssessmentService {
	return &assessmentService{
		repo:      repo,
		logger:    logger,
		validator: v,
		business:  validator.NewBusinessValidator(v),
	}
}

func (s *assessmentService) Create(ctx context.Context, actor Actor, req *validator.AssessmentCreateRequest) (*models.Assessment, error) {
	if errs := s.business.ValidateAssessmentCreate(req); errs.HasErrors() {
		return nil, errs
	}

	assessment, err := buildAssessment(actor, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Assessment().Create(ctx, assessment); err != nil {
		return nil, err
	}

	s.logger.Info("assessment created",
		"assessment_id", assessment.ID,
		"kind", assessment.Kind,
		"questions", len(assessment.Questions),
		"creator", assessment.CreatorEmail)
	return assessment, nil
}

// buildAssessment maps a validated authoring request to the storage model,
// applying the author-name fallback and the per-family expiry default.
func buildAssessment(actor Actor, req *validator.AssessmentCreateRequest) (*models.Assessment, error) {
	creatorEmail := req.CreatorEmail
	if creatorEmail == "" {
		creatorEmail = actor.Email
	}
	createdBy := models.DisplayNameFor(firstNonEmpty(req.CreatorName, actor.Name), creatorEmail)

	assessment := &models.Assessment{
		Kind:         req.Kind,
		Title:        req.Title,
		TimeLimit:    req.TimeLimit,
		CreatedBy:    createdBy,
		CreatorEmail: creatorEmail,
		Difficulty:   req.Difficulty,
		Topic:        req.Topic,
	}

	// Quiz families default to a 7-day informational expiry; coding and
	// writing never expire unless asked to.
	switch {
	case req.ExpiresIn != nil:
		assessment.ExpiresIn = *req.ExpiresIn
	case req.Kind.Category() == models.CategoryQuiz:
		assessment.ExpiresIn = defaultQuizExpiryDays
	}
	assessment.ExpiryUnit = req.ExpiryUnit
	if assessment.ExpiryUnit == "" {
		assessment.ExpiryUnit = models.ExpiryDay
	}

	questions, err := buildQuestions(req)
	if err != nil {
		return nil, err
	}
	assessment.Questions = questions

	return assessment, nil
}

func buildQuestions(req *validator.AssessmentCreateRequest) ([]models.Question, error) {
	var questions []models.Question

	appendQuestion := func(text string, points int, content interface{}) error {
		raw, err := json.Marshal(content)
		if err != nil {
			return err
		}
		if points <= 0 {
			points = 1
		}
		questions = append(questions, models.Question{
			Position: len(questions) + 1,
			Text:     text,
			Points:   points,
			Content:  raw,
		})
		return nil
	}

	switch req.Kind.Category() {
	case models.CategoryQuiz:
		for _, q := range req.QuizQuestions {
			err := appendQuestion(q.Text, q.Points, models.QuizContent{
				Options:        q.Options,
				CorrectOptions: q.CorrectOptions,
			})
			if err != nil {
				return nil, err
			}
		}
	case models.CategoryCoding:
		for _, q := range req.CodingQuestions {
			err := appendQuestion(q.Text, q.Points, models.CodingContent{
				ProblemDescription:  q.ProblemDescription,
				StarterCode:         q.StarterCode,
				ExpectedOutput:      q.ExpectedOutput,
				ProgrammingLanguage: q.ProgrammingLanguage,
				Difficulty:          q.Difficulty,
			})
			if err != nil {
				return nil, err
			}
		}
	case models.CategoryWriting:
		for _, q := range req.WritingQuestions {
			err := appendQuestion(q.Text, q.Points, models.WritingContent{
				Prompt:       q.Prompt,
				Instructions: q.Instructions,
				WordLimit:    q.WordLimit,
				WritingType:  q.WritingType,
				Difficulty:   q.Difficulty,
			})
			if err != nil {
				return nil, err
			}
		}
	}

	return questions, nil
}

func (s *assessmentService) GetByID(ctx context.Context, id uint) (*models.Assessment, error) {
	assessment, err := s.repo.Assessment().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, err
	}
	return assessment, nil
}

func (s *assessmentService) GetWithQuestions(ctx context.Context, id uint, includeAnswers bool) (*AssessmentView, error) {
	assessment, err := s.repo.Assessment().GetByIDWithQuestions(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, err
	}

	view := &AssessmentView{
		Assessment: assessment,
		Expired:    assessment.IsExpired(time.Now()),
	}
	for _, q := range assessment.Questions {
		qv, err := questionView(assessment.Kind.Category(), q, includeAnswers)
		if err != nil {
			return nil, err
		}
		view.Questions = append(view.Questions, qv)
	}
	return view, nil
}

func questionView(category models.AssessmentCategory, q models.Question, includeAnswers bool) (QuestionView, error) {
	view := QuestionView{
		ID:       q.ID,
		Position: q.Position,
		Text:     q.Text,
		Points:   q.Points,
	}

	switch category {
	case models.CategoryQuiz:
		var content models.QuizContent
		if err := json.Unmarshal(q.Content, &content); err != nil {
			return view, err
		}
		if !includeAnswers {
			content.CorrectOptions = nil
		}
		view.Quiz = &content
	case models.CategoryCoding:
		var content models.CodingContent
		if err := json.Unmarshal(q.Content, &content); err != nil {
			return view, err
		}
		view.Coding = &content
	case models.CategoryWriting:
		var content models.WritingContent
		if err := json.Unmarshal(q.Content, &content); err != nil {
			return view, err
		}
		view.Writing = &content
	}
	return view, nil
}

func (s *assessmentService) ListByCreator(ctx context.Context, email string, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error) {
	return s.repo.Assessment().GetByCreator(ctx, email, filters)
}

func (s *assessmentService) Delete(ctx context.Context, actor Actor, id uint) error {
	assessment, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if assessment.CreatorEmail != actor.Email {
		return NewPermissionError(actor.ID, id, "assessment", "delete", "only the creator can delete an assessment")
	}
	return s.repo.Assessment().Delete(ctx, id)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
