package validator

import (
	"github.com/classpoint/classroom-service/internal/models"
)

// ===== AUTH =====

type SignupRequest struct {
	Name     string `json:"name" validate:"omitempty,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ===== CHANNELS =====

type ChannelCreateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

type ChannelJoinRequest struct {
	InviteCode string `json:"invite_code" validate:"required,min=1,max=64"`
}

type MemberAddRequest struct {
	UserID string             `json:"user_id" validate:"required,max=255"`
	Role   models.ChannelRole `json:"role" validate:"omitempty,channel_role"`
}

type MemberRoleUpdateRequest struct {
	Role models.ChannelRole `json:"role" validate:"required,channel_role"`
}

type MemberBulkReplaceRequest struct {
	Members []MemberAddRequest `json:"members" validate:"required,min=1,dive"`
}

type SubchannelCreateRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=100"`
	Description string   `json:"description" validate:"omitempty,max=1000"`
	MemberIDs   []string `json:"member_ids" validate:"omitempty,dive,max=255"`
}

type MessageSendRequest struct {
	Body string `json:"body" validate:"required,min=1,max=4000"`
}

// ===== ASSESSMENTS =====

type QuizQuestionRequest struct {
	Text           string   `json:"text" validate:"required,min=1,max=2000"`
	Points         int      `json:"points" validate:"omitempty,points_range"`
	Options        []string `json:"options" validate:"required,min=2,max=6,dive,required,max=500"`
	CorrectOptions []int    `json:"correct_options" validate:"required,min=1"`
}

type CodingQuestionRequest struct {
	Text                string                 `json:"text" validate:"required,min=1,max=2000"`
	Points              int                    `json:"points" validate:"omitempty,points_range"`
	ProblemDescription  string                 `json:"problem_description" validate:"required"`
	StarterCode         string                 `json:"starter_code"`
	ExpectedOutput      string                 `json:"expected_output"`
	ProgrammingLanguage string                 `json:"programming_language" validate:"omitempty,max=50"`
	Difficulty          models.DifficultyLevel `json:"difficulty" validate:"omitempty,difficulty_level"`
}

type WritingQuestionRequest struct {
	Text         string                 `json:"text" validate:"required,min=1,max=2000"`
	Points       int                    `json:"points" validate:"omitempty,points_range"`
	Prompt       string                 `json:"prompt" validate:"required"`
	Instructions string                 `json:"instructions"`
	WordLimit    int                    `json:"word_limit" validate:"omitempty,min=50,max=10000"`
	WritingType  string                 `json:"writing_type" validate:"omitempty,max=50"`
	Difficulty   models.DifficultyLevel `json:"difficulty" validate:"omitempty,difficulty_level"`
}

type AssessmentCreateRequest struct {
	Kind      models.AssessmentKind `json:"kind" validate:"required,assessment_kind"`
	Title     string                `json:"title" validate:"required,min=1,max=200"`
	TimeLimit int                   `json:"time_limit" validate:"required,min=1,max=300"`

	ExpiresIn  *int              `json:"expires_in" validate:"omitempty,min=0,max=1000"`
	ExpiryUnit models.ExpiryUnit `json:"expiry_unit" validate:"omitempty,expiry_unit"`

	Difficulty models.DifficultyLevel `json:"difficulty" validate:"omitempty,difficulty_level"`
	Topic      string                 `json:"topic" validate:"omitempty,max=200"`

	// Author identity resolved server-side when absent.
	CreatorName  string `json:"creator_name" validate:"omitempty,max=100"`
	CreatorEmail string `json:"creator_email" validate:"omitempty,email"`

	// Exactly one family list must be populated, matching the kind's
	// category; enforced by the business validator.
	QuizQuestions    []QuizQuestionRequest    `json:"quiz_questions" validate:"omitempty,dive"`
	CodingQuestions  []CodingQuestionRequest  `json:"coding_questions" validate:"omitempty,dive"`
	WritingQuestions []WritingQuestionRequest `json:"writing_questions" validate:"omitempty,dive"`
}

type GenerateRequest struct {
	Category   models.AssessmentCategory `json:"category" validate:"required,oneof=quiz coding writing"`
	Topic      string                    `json:"topic" validate:"required,min=1,max=200"`
	Difficulty models.DifficultyLevel    `json:"difficulty" validate:"omitempty,difficulty_level"`
	Count      int                       `json:"count" validate:"omitempty,min=1,max=50"`

	Title     string `json:"title" validate:"omitempty,max=200"`
	TimeLimit int    `json:"time_limit" validate:"omitempty,min=1,max=300"`

	// Coding only.
	ProgrammingLanguage string `json:"programming_language" validate:"omitempty,max=50"`
	// Writing only.
	WritingType string `json:"writing_type" validate:"omitempty,max=50"`
}

// ===== DISTRIBUTION & EVALUATION =====

type DistributeRequest struct {
	AssessmentID uint                  `json:"assessment_id" validate:"required"`
	Kind         models.AssessmentKind `json:"kind" validate:"required,assessment_kind"`
	ChannelID    uint                  `json:"channel_id" validate:"required"`
	SubchannelID *uint                 `json:"subchannel_id"`
}

type AnswerSubmission struct {
	QuestionID      uint   `json:"question_id" validate:"required"`
	SelectedOptions []int  `json:"selected_options"`
	AnswerText      string `json:"answer_text" validate:"omitempty,max=50000"`
}

type SubmitRequest struct {
	Answers   []AnswerSubmission `json:"answers" validate:"required,min=1,dive"`
	TimeTaken int                `json:"time_taken" validate:"omitempty,min=0"`
}

type AnswerGrade struct {
	QuestionID uint   `json:"question_id" validate:"required"`
	Points     int    `json:"points" validate:"min=0"`
	Feedback   string `json:"feedback" validate:"omitempty,max=5000"`
}

type GradeRequest struct {
	Answers         []AnswerGrade `json:"answers" validate:"required,min=1,dive"`
	OverallFeedback string        `json:"overall_feedback" validate:"omitempty,max=10000"`
}

// ===== FILES =====

type FileUploadRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=255"`
	FileURL      string `json:"file_url" validate:"required,url,max=500"`
	FileType     string `json:"file_type" validate:"omitempty,max=50"`
	ChannelID    uint   `json:"channel_id" validate:"required"`
	SubchannelID *uint  `json:"subchannel_id"`
}

type CommentRequest struct {
	Body string `json:"body" validate:"required,min=1,max=4000"`
}
