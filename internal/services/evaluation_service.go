package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/classpoint/classroom-service/internal/events"
	"github.com/classpoint/classroom-service/internal/models"
	"github.com/classpoint/classroom-service/internal/repositories"
	"github.com/classpoint/classroom-service/internal/validator"
)

// missingAssessmentTitle is the placeholder shown when an assignment outlives
// its assessment.
const missingAssessmentTitle = "Missing Assessment"

type evaluationService struct {
	repo      repositories.Repository
	channels  ChannelService
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	business  *validator.BusinessValidator
}

func NewEvaluationService(repo repositories.Repository, channels ChannelService, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) EvaluationService {
	return &evaluationService{
		repo:      repo,
		channels:  channels,
		publisher: publisher,
		logger:    logger,
		validator: v,
		business:  validator.NewBusinessValidator(v),
	}
}

func (s *evaluationService) publish(ctx context.Context, topic, eventType string, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, eventType, data); err != nil {
		s.logger.Warn("event publish failed", "topic", topic, "type", eventType, "error", err)
	}
}

func (s *evaluationService) CreateAssignments(ctx context.Context, actor Actor, req *validator.DistributeRequest) (int, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return 0, errs
	}

	role, ok, err := s.channels.RoleAt(ctx, req.ChannelID, actor.ID)
	if err != nil {
		return 0, err
	}
	if !ok || !role.Privileged() {
		return 0, NewPermissionError(actor.ID, req.ChannelID, "assignment", "create", "requires a privileged role")
	}

	assessment, err := s.repo.Assessment().GetByID(ctx, req.AssessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrAssessmentNotFound
		}
		return 0, err
	}

	emails, err := s.resolveTargetEmails(ctx, req.ChannelID, req.SubchannelID)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	assignments := make([]*models.EvaluationAssignment, 0, len(emails))
	for _, email := range emails {
		assignments = append(assignments, &models.EvaluationAssignment{
			UserEmail:      email,
			AssessmentID:   assessment.ID,
			AssessmentKind: assessment.Kind,
			Category:       assessment.Kind.Category(),
			ChannelID:      req.ChannelID,
			SubchannelID:   req.SubchannelID,
			AssignedBy:     actor.Email,
			AssignedAt:     now,
			Status:         models.AssignmentPending,
		})
	}

	if err := s.repo.Assignment().CreateBatch(ctx, assignments); err != nil {
		return 0, err
	}

	s.publish(ctx, events.RoomTopic(req.ChannelID, req.SubchannelID), events.EventAssessmentDistributed,
		events.DistributionPayload{
			AssessmentID:   assessment.ID,
			AssessmentKind: string(assessment.Kind),
			Title:          assessment.Title,
			ChannelID:      req.ChannelID,
			SubchannelID:   req.SubchannelID,
			SentBy:         actor.Email,
		})

	s.logger.Info("assignments created",
		"assessment_id", assessment.ID,
		"channel_id", req.ChannelID,
		"count", len(assignments),
		"assigned_by", actor.Email)
	return len(assignments), nil
}

// resolveTargetEmails lists the fan-out targets: the subchannel roster when
// one is given, the full channel roster otherwise. The assigner is a member
// too and is not excluded.
func (s *evaluationService) resolveTargetEmails(ctx context.Context, channelID uint, subchannelID *uint) ([]string, error) {
	var emails []string

	if subchannelID != nil {
		subchannel, err := s.repo.Channel().GetSubchannel(ctx, *subchannelID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSubchannelNotFound
			}
			return nil, err
		}
		if subchannel.ChannelID != channelID {
			return nil, ErrSubchannelNotFound
		}
		members, err := s.repo.Channel().ListSubchannelMembers(ctx, *subchannelID)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			if m.User.Email != "" {
				emails = append(emails, m.User.Email)
			}
		}
		return emails, nil
	}

	if _, err := s.repo.Channel().GetByID(ctx, channelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}
	members, err := s.repo.Channel().ListMembers(ctx, channelID)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		if m.User.Email != "" {
			emails = append(emails, m.User.Email)
		}
	}
	return emails, nil
}

func (s *evaluationService) ListAssignments(ctx context.Context, email string, filters repositories.AssignmentFilters) ([]*AssignmentView, int64, error) {
	assignments, total, err := s.repo.Assignment().ListByUser(ctx, email, filters)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uint, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.AssessmentID)
	}
	titles, err := s.repo.Assessment().TitlesByID(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	views := make([]*AssignmentView, 0, len(assignments))
	for _, a := range assignments {
		title, found := titles[a.AssessmentID]
		if !found {
			title = missingAssessmentTitle
		}
		views = append(views, &AssignmentView{Assignment: a, AssessmentTitle: title})
	}
	return views, total, nil
}

func (s *evaluationService) GetAssignment(ctx context.Context, email string, id uint) (*AssignmentView, error) {
	assignment, err := s.getOwnedAssignment(ctx, email, id)
	if err != nil {
		return nil, err
	}

	titles, err := s.repo.Assessment().TitlesByID(ctx, []uint{assignment.AssessmentID})
	if err != nil {
		return nil, err
	}
	title, found := titles[assignment.AssessmentID]
	if !found {
		title = missingAssessmentTitle
	}
	return &AssignmentView{Assignment: assignment, AssessmentTitle: title}, nil
}

func (s *evaluationService) getOwnedAssignment(ctx context.Context, email string, id uint) (*models.EvaluationAssignment, error) {
	assignment, err := s.repo.Assignment().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if assignment.UserEmail != email {
		return nil, NewPermissionError(email, id, "assignment", "access", "assignment belongs to another user")
	}
	return assignment, nil
}

func (s *evaluationService) StartAssignment(ctx context.Context, email string, id uint) (*models.EvaluationAssignment, error) {
	assignment, err := s.getOwnedAssignment(ctx, email, id)
	if err != nil {
		return nil, err
	}

	// Starting is idempotent: only the first call transitions.
	if assignment.Status != models.AssignmentPending {
		return assignment, nil
	}

	now := time.Now()
	assignment.Status = models.AssignmentStarted
	assignment.StartedAt = &now
	assignment.Attempts++

	if err := s.repo.Assignment().Update(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *evaluationService) SubmitAssignment(ctx context.Context, actor Actor, id uint, req *validator.SubmitRequest) (*SubmitResponse, error) {
	assignment, err := s.getOwnedAssignment(ctx, actor.Email, id)
	if err != nil {
		return nil, err
	}
	if assignment.Status == models.AssignmentCompleted {
		return nil, ErrAssignmentCompleted
	}

	assessment, err := s.repo.Assessment().GetByIDWithQuestions(ctx, assignment.AssessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, err
	}

	if errs := s.business.ValidateSubmission(req, assessment.Questions); errs.HasErrors() {
		return nil, errs
	}

	result, correctAnswers, err := buildResult(actor, assignment, assessment, req)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Result().Create(ctx, result); err != nil {
			return err
		}
		// Submitted is completed even when grading is still pending.
		assignment.Status = models.AssignmentCompleted
		assignment.CompletedAt = &now
		assignment.TimeTaken = req.TimeTaken
		assignment.ResultID = &result.ID
		return tx.Assignment().Update(ctx, assignment)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.RoomTopic(assignment.ChannelID, assignment.SubchannelID), events.EventAssignmentCompleted,
		events.AssignmentPayload{
			AssignmentID:   assignment.ID,
			AssessmentID:   assignment.AssessmentID,
			AssessmentKind: string(assignment.AssessmentKind),
			UserEmail:      assignment.UserEmail,
			Status:         string(assignment.Status),
		})

	resp := &SubmitResponse{
		ResultID:         result.ID,
		Status:           result.Status,
		Score:            result.Score,
		TotalPoints:      result.TotalPoints,
		MaxPossibleScore: result.MaxPossibleScore,
		PercentageScore:  result.PercentageScore,
		CorrectAnswers:   correctAnswers,
	}
	return resp, nil
}

// buildResult scores quizzes synchronously; coding and writing submissions
// produce a pending result for manual evaluation.
func buildResult(actor Actor, assignment *models.EvaluationAssignment, assessment *models.Assessment, req *validator.SubmitRequest) (*models.AssessmentResult, map[uint][]int, error) {
	result := &models.AssessmentResult{
		AssessmentID:   assessment.ID,
		AssessmentKind: assessment.Kind,
		UserEmail:      assignment.UserEmail,
		CandidateName:  actor.DisplayName(),
		TimeTaken:      req.TimeTaken,
	}

	// First answer per question wins; validation already rejected dupes.
	answersByQuestion := make(map[uint]validator.AnswerSubmission, len(req.Answers))
	for _, a := range req.Answers {
		if _, seen := answersByQuestion[a.QuestionID]; !seen {
			answersByQuestion[a.QuestionID] = a
		}
	}

	isQuiz := assessment.Kind.Category() == models.CategoryQuiz

	var correctAnswers map[uint][]int
	if isQuiz {
		correctAnswers = make(map[uint][]int, len(assessment.Questions))
	}

	earned, possible := 0, 0
	for _, q := range assessment.Questions {
		possible += q.Points
		answer := models.ResultAnswer{QuestionID: q.ID}
		submitted, answered := answersByQuestion[q.ID]

		if isQuiz {
			var content models.QuizContent
			if err := json.Unmarshal(q.Content, &content); err != nil {
				return nil, nil, err
			}
			correctAnswers[q.ID] = content.CorrectOptions

			var selected []int
			if answered {
				selected = submitted.SelectedOptions
			}
			raw, err := json.Marshal(selected)
			if err != nil {
				return nil, nil, err
			}
			answer.SelectedOptions = raw
			answer.Status = models.AnswerEvaluated
			// Full points iff the selected set equals the correct set;
			// partial overlap earns nothing.
			if sameOptionSet(selected, content.CorrectOptions) {
				answer.Points = q.Points
				earned += q.Points
			}
		} else {
			if answered {
				answer.AnswerText = submitted.AnswerText
			}
			answer.Status = models.AnswerPending
		}

		result.Answers = append(result.Answers, answer)
	}

	result.MaxPossibleScore = possible
	if isQuiz {
		now := time.Now()
		result.Status = models.ResultCompleted
		result.Score = earned
		result.TotalPoints = earned
		result.PercentageScore = percentage(earned, possible)
		result.CompletedAt = &now
	} else {
		result.Status = models.ResultPending
	}

	return result, correctAnswers, nil
}

// sameOptionSet compares two option index sets ignoring order and
// duplicates.
func sameOptionSet(a, b []int) bool {
	setA := make(map[int]struct{}, len(a))
	for _, v := range a {
		setA[v] = struct{}{}
	}
	setB := make(map[int]struct{}, len(b))
	for _, v := range b {
		setB[v] = struct{}{}
	}
	if len(setA) != len(setB) {
		return false
	}
	for v := range setA {
		if _, ok := setB[v]; !ok {
			return false
		}
	}
	return true
}

func percentage(earned, possible int) int {
	if possible == 0 {
		return 0
	}
	return int(math.Round(100 * float64(earned) / float64(possible)))
}

func (s *evaluationService) SetHidden(ctx context.Context, email string, id uint, hidden bool) error {
	assignment, err := s.getOwnedAssignment(ctx, email, id)
	if err != nil {
		return err
	}
	if hidden && assignment.Status != models.AssignmentCompleted {
		return ErrHiddenNeedsCompleted
	}
	assignment.Hidden = hidden
	return s.repo.Assignment().Update(ctx, assignment)
}

func (s *evaluationService) Stats(ctx context.Context, actor Actor, assessmentID, channelID uint) (*repositories.AssignmentStats, error) {
	role, ok, err := s.channels.RoleAt(ctx, channelID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok || !role.Privileged() {
		return nil, NewPermissionError(actor.ID, assessmentID, "assignment", "view_stats", "requires a privileged role")
	}
	return s.repo.Assignment().StatsByAssessment(ctx, assessmentID, channelID)
}
