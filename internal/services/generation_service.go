package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/classpoint/classroom-service/internal/ai"
	"github.com/classpoint/classroom-service/internal/models"
	"github.com/classpoint/classroom-service/internal/repositories"
	"github.com/classpoint/classroom-service/internal/validator"
)

type generationService struct {
	repo      repositories.Repository
	generator *ai.Generator
	logger    *slog.Logger
	validator *validator.Validator
}

func NewGenerationService(repo repositories.Repository, generator *ai.Generator, logger *slog.Logger, v *validator.Validator) GenerationService {
	return &generationService{
		repo:      repo,
		generator: generator,
		logger:    logger,
		validator: v,
	}
}

func (s *generationService) Generate(ctx context.Context, actor Actor, req *validator.GenerateRequest) (*models.Assessment, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}
	if s.generator == nil {
		return nil, ErrGenerationDisabled
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}
	count := req.Count
	if count == 0 {
		count = 5
	}

	assessment := &models.Assessment{
		Title:        req.Title,
		TimeLimit:    req.TimeLimit,
		CreatedBy:    actor.DisplayName(),
		CreatorEmail: actor.Email,
		Difficulty:   difficulty,
		Topic:        req.Topic,
		ExpiryUnit:   models.ExpiryDay,
	}
	if assessment.Title == "" {
		assessment.Title = fmt.Sprintf("%s: %s", generatedTitlePrefix(req.Category), req.Topic)
	}

	var err error
	switch req.Category {
	case models.CategoryQuiz:
		assessment.Kind = models.KindQuizAI
		assessment.ExpiresIn = defaultQuizExpiryDays
		if assessment.TimeLimit == 0 {
			assessment.TimeLimit = 2 * ai.ClampCount(count, ai.MaxQuizQuestions)
		}
		err = s.generateQuiz(ctx, assessment, req, string(difficulty), count)
	case models.CategoryCoding:
		assessment.Kind = models.KindCodingAI
		if assessment.TimeLimit == 0 {
			assessment.TimeLimit = 30 * ai.ClampCount(count, ai.MaxCodingQuestions)
		}
		err = s.generateCoding(ctx, assessment, req, string(difficulty), count)
	case models.CategoryWriting:
		assessment.Kind = models.KindWritingAI
		if assessment.TimeLimit == 0 {
			assessment.TimeLimit = 30 * ai.ClampCount(count, ai.MaxWritingQuestions)
		}
		err = s.generateWriting(ctx, assessment, req, string(difficulty), count)
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.Assessment().Create(ctx, assessment); err != nil {
		return nil, err
	}

	s.logger.Info("assessment generated",
		"assessment_id", assessment.ID,
		"kind", assessment.Kind,
		"topic", req.Topic,
		"questions", len(assessment.Questions))
	return assessment, nil
}

func (s *generationService) generateQuiz(ctx context.Context, assessment *models.Assessment, req *validator.GenerateRequest, difficulty string, count int) error {
	parsed, err := s.generator.GenerateQuiz(ctx, req.Topic, difficulty, count)
	if err != nil {
		return err
	}
	for _, q := range parsed {
		content, err := json.Marshal(models.QuizContent{
			Options:        q.Options,
			CorrectOptions: []int{q.Correct},
		})
		if err != nil {
			return err
		}
		assessment.Questions = append(assessment.Questions, models.Question{
			Position: len(assessment.Questions) + 1,
			Text:     q.Text,
			Points:   1,
			Content:  content,
		})
	}
	return nil
}

func (s *generationService) generateCoding(ctx context.Context, assessment *models.Assessment, req *validator.GenerateRequest, difficulty string, count int) error {
	language := req.ProgrammingLanguage
	if language == "" {
		language = "python"
	}
	parsed, err := s.generator.GenerateCoding(ctx, req.Topic, difficulty, language, count)
	if err != nil {
		return err
	}
	for _, q := range parsed {
		content, err := json.Marshal(models.CodingContent{
			ProblemDescription:  q.ProblemDescription,
			StarterCode:         q.StarterCode,
			ExpectedOutput:      q.ExpectedOutput,
			ProgrammingLanguage: language,
			Difficulty:          assessment.Difficulty,
		})
		if err != nil {
			return err
		}
		assessment.Questions = append(assessment.Questions, models.Question{
			Position: len(assessment.Questions) + 1,
			Text:     q.Title,
			Points:   q.Points,
			Content:  content,
		})
	}
	return nil
}

func (s *generationService) generateWriting(ctx context.Context, assessment *models.Assessment, req *validator.GenerateRequest, difficulty string, count int) error {
	writingType := req.WritingType
	if writingType == "" {
		writingType = "essay"
	}
	parsed, err := s.generator.GenerateWriting(ctx, req.Topic, difficulty, writingType, count)
	if err != nil {
		return err
	}
	for _, q := range parsed {
		content, err := json.Marshal(models.WritingContent{
			Prompt:       q.Prompt,
			Instructions: q.Instructions,
			WordLimit:    q.WordLimit,
			WritingType:  writingType,
			Difficulty:   assessment.Difficulty,
		})
		if err != nil {
			return err
		}
		assessment.Questions = append(assessment.Questions, models.Question{
			Position: len(assessment.Questions) + 1,
			Text:     q.Title,
			Points:   q.Points,
			Content:  content,
		})
	}
	return nil
}

func generatedTitlePrefix(category models.AssessmentCategory) string {
	switch category {
	case models.CategoryCoding:
		return "Coding Challenge"
	case models.CategoryWriting:
		return "Writing Assessment"
	default:
		return "Quiz"
	}
}
