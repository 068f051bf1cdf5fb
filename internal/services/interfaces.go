package services

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/classpoint/classroom-service/internal/models"
	"github.com/classpoint/classroom-service/internal/repositories"
	"github.com/classpoint/classroom-service/internal/validator"
)

// Actor is the authenticated identity attached by the auth middleware.
type Actor struct {
	ID    string
	Name  string
	Email string
}

// DisplayName applies the shared name → email local part → "anonymous"
// fallback chain.
func (a Actor) DisplayName() string {
	return models.DisplayNameFor(a.Name, a.Email)
}

// ===== RESPONSE DTOS =====

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type MemberView struct {
	MemberID uint                  `json:"member_id"`
	UserID   string                `json:"user_id"`
	Name     string                `json:"name"`
	Email    string                `json:"email"`
	Role     models.ChannelRole    `json:"role"`
	Status   models.PresenceStatus `json:"status"`
	JoinedAt time.Time             `json:"joined_at"`
}

type ChannelDetails struct {
	Channel     *models.Channel      `json:"channel"`
	Members     []*MemberView        `json:"members"`
	Subchannels []*models.Subchannel `json:"subchannels"`
}

// AssessmentView is the candidate-facing shape: quiz answer keys are
// stripped unless the caller may see them.
type AssessmentView struct {
	Assessment *models.Assessment `json:"assessment"`
	Questions  []QuestionView     `json:"questions"`
	Expired    bool               `json:"expired"`
}

type QuestionView struct {
	ID       uint   `json:"id"`
	Position int    `json:"position"`
	Text     string `json:"text"`
	Points   int    `json:"points"`

	Quiz    *models.QuizContent    `json:"quiz,omitempty"`
	Coding  *models.CodingContent  `json:"coding,omitempty"`
	Writing *models.WritingContent `json:"writing,omitempty"`
}

type AssignmentView struct {
	Assignment      *models.EvaluationAssignment `json:"assignment"`
	AssessmentTitle string                       `json:"assessment_title"`
}

type DistributionView struct {
	Distribution    *models.Distribution `json:"distribution"`
	AssessmentTitle string               `json:"assessment_title"`
}

// SubmitResponse is returned from assignment submission. CorrectAnswers is
// populated for quizzes only, keyed by question id.
type SubmitResponse struct {
	ResultID         uint                `json:"result_id"`
	Status           models.ResultStatus `json:"status"`
	Score            int                 `json:"score"`
	TotalPoints      int                 `json:"total_points"`
	MaxPossibleScore int                 `json:"max_possible_score"`
	PercentageScore  int                 `json:"percentage_score"`
	CorrectAnswers   map[uint][]int      `json:"correct_answers,omitempty"`
}

// ===== SERVICE INTERFACES =====

type UserService interface {
	Signup(ctx context.Context, req *validator.SignupRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *validator.LoginRequest) (*AuthResponse, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Ping refreshes presence and last-activity for a connected client.
	Ping(ctx context.Context, userID string) error
}

type ChannelService interface {
	Create(ctx context.Context, creatorID string, req *validator.ChannelCreateRequest) (*models.Channel, error)
	Get(ctx context.Context, userID string, channelID uint) (*ChannelDetails, error)
	ListJoined(ctx context.Context, userID string) ([]*models.Channel, error)
	Delete(ctx context.Context, actorID string, channelID uint) error
	Stats(ctx context.Context, userID string, channelID uint) (*repositories.ChannelStats, error)

	Join(ctx context.Context, userID string, inviteCode string) (*models.Channel, bool, error)
	Leave(ctx context.Context, userID string, channelID uint) error

	AddMember(ctx context.Context, actorID string, channelID uint, req *validator.MemberAddRequest) (*models.ChannelMember, bool, error)
	RemoveMember(ctx context.Context, actorID string, channelID uint, memberRef string) error
	UpdateMemberRole(ctx context.Context, actorID string, channelID uint, memberRef string, role models.ChannelRole) error
	ReplaceMembers(ctx context.Context, actorID string, channelID uint, req *validator.MemberBulkReplaceRequest) (int, error)
	ListMembers(ctx context.Context, userID string, channelID uint) ([]*MemberView, error)

	CreateSubchannel(ctx context.Context, actorID string, channelID uint, req *validator.SubchannelCreateRequest) (*models.Subchannel, error)
	GetSubchannel(ctx context.Context, userID string, channelID, subchannelID uint) (*models.Subchannel, error)
	DeleteSubchannel(ctx context.Context, actorID string, channelID, subchannelID uint) error
	AddSubchannelMember(ctx context.Context, actorID string, channelID, subchannelID uint, userID string) error

	// RoleAt resolves the actor's channel role; ok is false for non-members.
	RoleAt(ctx context.Context, channelID uint, userID string) (models.ChannelRole, bool, error)
}

type RealtimeService interface {
	SendMessage(ctx context.Context, sender Actor, channelID uint, subchannelID *uint, req *validator.MessageSendRequest) (*models.Message, error)
	ListMessages(ctx context.Context, userID string, channelID uint, subchannelID *uint, limit int) ([]*models.Message, error)

	SetOnline(ctx context.Context, userID string) error
	SetOffline(ctx context.Context, userID string) error
	Heartbeat(ctx context.Context, userID string) error
	// Presence resolves live status for every member of a channel.
	Presence(ctx context.Context, userID string, channelID uint) (map[string]models.PresenceStatus, error)

	// Subscribe attaches to a room's event stream. Only available on the
	// in-process bus; kafka deployments consume externally.
	Subscribe(ctx context.Context, userID string, channelID uint, subchannelID *uint) (<-chan *message.Message, error)
}

type AssessmentService interface {
	Create(ctx context.Context, actor Actor, req *validator.AssessmentCreateRequest) (*models.Assessment, error)
	GetByID(ctx context.Context, id uint) (*models.Assessment, error)
	// GetWithQuestions strips quiz answer keys unless includeAnswers is set.
	GetWithQuestions(ctx context.Context, id uint, includeAnswers bool) (*AssessmentView, error)
	ListByCreator(ctx context.Context, email string, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type GenerationService interface {
	// Generate produces and persists an AI-authored assessment of the
	// requested category.
	Generate(ctx context.Context, actor Actor, req *validator.GenerateRequest) (*models.Assessment, error)
}

type DistributionService interface {
	Send(ctx context.Context, actor Actor, req *validator.DistributeRequest) (*models.Distribution, error)
	// ListVisible resolves distributions reachable from the user's channel
	// and subchannel memberships at read time.
	ListVisible(ctx context.Context, userID string) ([]*DistributionView, error)
	Deactivate(ctx context.Context, actor Actor, id uint) error
}

type EvaluationService interface {
	// CreateAssignments fans one assessment out to every resolved member,
	// the assigner included, in a single atomic insert.
	CreateAssignments(ctx context.Context, actor Actor, req *validator.DistributeRequest) (int, error)
	ListAssignments(ctx context.Context, email string, filters repositories.AssignmentFilters) ([]*AssignmentView, int64, error)
	GetAssignment(ctx context.Context, email string, id uint) (*AssignmentView, error)
	StartAssignment(ctx context.Context, email string, id uint) (*models.EvaluationAssignment, error)
	SubmitAssignment(ctx context.Context, actor Actor, id uint, req *validator.SubmitRequest) (*SubmitResponse, error)
	SetHidden(ctx context.Context, email string, id uint, hidden bool) error
	Stats(ctx context.Context, actor Actor, assessmentID, channelID uint) (*repositories.AssignmentStats, error)
}

type GradingService interface {
	GradeResult(ctx context.Context, evaluator Actor, resultID uint, req *validator.GradeRequest) (*models.AssessmentResult, error)
	GetResult(ctx context.Context, actor Actor, resultID uint) (*models.AssessmentResult, error)
	ListResultsByUser(ctx context.Context, email string, limit, offset int) ([]*models.AssessmentResult, int64, error)
}

type FileService interface {
	Upload(ctx context.Context, actor Actor, req *validator.FileUploadRequest) (*models.ChannelFile, error)
	List(ctx context.Context, userID string, channelID uint, subchannelID *uint) ([]*models.ChannelFile, error)
	Get(ctx context.Context, userID string, fileID uint) (*models.ChannelFile, error)
	Delete(ctx context.Context, actorID string, fileID uint) error
	ToggleBookmark(ctx context.Context, userID string, fileID uint) (bool, error)
	AddComment(ctx context.Context, actor Actor, fileID uint, req *validator.CommentRequest) (*models.FileComment, error)
	AddReply(ctx context.Context, actor Actor, commentID uint, req *validator.CommentRequest) (*models.CommentReply, error)
}

type ExportService interface {
	// ExportAssessmentResults renders per-member assignment status and
	// scores as an .xlsx workbook.
	ExportAssessmentResults(ctx context.Context, actor Actor, assessmentID, channelID uint) ([]byte, string, error)
}

// ServiceManager wires and owns all services.
type ServiceManager interface {
	Initialize(ctx context.Context) error

	User() UserService
	Channel() ChannelService
	Realtime() RealtimeService
	Assessment() AssessmentService
	Generation() GenerationService
	Distribution() DistributionService
	Evaluation() EvaluationService
	Grading() GradingService
	File() FileService
	Export() ExportService

	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
