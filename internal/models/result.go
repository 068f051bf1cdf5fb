package models

import (
	"time"

	"gorm.io/datatypes"
)

type ResultStatus string

const (
	ResultPending   ResultStatus = "pending"
	ResultCompleted ResultStatus = "completed"
)

type AnswerStatus string

const (
	AnswerPending   AnswerStatus = "pending"
	AnswerEvaluated AnswerStatus = "evaluated"
)

// AssessmentResult is the scored (quiz) or pending-scored (coding/writing)
// record of one submission. A quiz result is completed synchronously at
// submission; coding/writing results stay pending until an evaluator grades
// them.
type AssessmentResult struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	AssessmentID   uint           `json:"assessment_id" gorm:"not null;index"`
	AssessmentKind AssessmentKind `json:"assessment_kind" gorm:"not null;size:32"`

	UserEmail     string `json:"user_email" gorm:"not null;index;size:255"`
	CandidateName string `json:"candidate_name" gorm:"size:100"`

	Status          ResultStatus `json:"status" gorm:"not null;default:pending;index;size:16"`
	Score           int          `json:"score" gorm:"default:0"`
	MaxPossibleScore int         `json:"max_possible_score" gorm:"default:0"`
	TotalPoints     int          `json:"total_points" gorm:"default:0"`
	PercentageScore int          `json:"percentage_score" gorm:"default:0"`

	OverallFeedback string `json:"overall_feedback" gorm:"type:text"`
	TimeTaken       int    `json:"time_taken" gorm:"default:0"` // seconds

	CompletedAt *time.Time `json:"completed_at"`
	EvaluatedAt *time.Time `json:"evaluated_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Answers []ResultAnswer `json:"answers" gorm:"foreignKey:ResultID"`
}

func (AssessmentResult) TableName() string {
	return "assessment_results"
}

type ResultAnswer struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	ResultID   uint `json:"result_id" gorm:"not null;index"`
	QuestionID uint `json:"question_id" gorm:"not null;index"`

	// SelectedOptions carries quiz option indices; AnswerText carries
	// coding/writing free-form submissions.
	SelectedOptions datatypes.JSON `json:"selected_options,omitempty" gorm:"type:jsonb"`
	AnswerText      string         `json:"answer_text,omitempty" gorm:"type:text"`

	Status   AnswerStatus `json:"status" gorm:"not null;default:pending;size:16"`
	Points   int          `json:"points" gorm:"default:0"`
	Feedback string       `json:"feedback" gorm:"type:text"`
}

func (ResultAnswer) TableName() string {
	return "result_answers"
}
