package models

import (
	"time"
)

type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentStarted   AssignmentStatus = "started"
	AssignmentCompleted AssignmentStatus = "completed"
	// AssignmentOverdue is declared for API compatibility; no in-scope
	// operation transitions into it.
	AssignmentOverdue AssignmentStatus = "overdue"
)

// EvaluationAssignment tracks one member's individual lifecycle for a
// distributed assessment. Rows are materialized in bulk at send time, one per
// resolved member email.
type EvaluationAssignment struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	UserEmail string `json:"user_email" gorm:"not null;index;size:255"`

	AssessmentID   uint               `json:"assessment_id" gorm:"not null;index"`
	AssessmentKind AssessmentKind     `json:"assessment_kind" gorm:"not null;size:32"`
	Category       AssessmentCategory `json:"category" gorm:"not null;index;size:16"`

	ChannelID    uint  `json:"channel_id" gorm:"not null;index"`
	SubchannelID *uint `json:"subchannel_id" gorm:"index"`

	AssignedBy string    `json:"assigned_by" gorm:"not null;size:255"`
	AssignedAt time.Time `json:"assigned_at" gorm:"not null"`

	Status AssignmentStatus `json:"status" gorm:"not null;default:pending;index;size:16"`
	Hidden bool             `json:"hidden" gorm:"not null;default:false"`

	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	ResultID    *uint      `json:"result_id"`
	Attempts    int        `json:"attempts" gorm:"default:0"`
	TimeTaken   int        `json:"time_taken" gorm:"default:0"` // seconds

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (EvaluationAssignment) TableName() string {
	return "evaluation_assignments"
}

// Distribution is the legacy per-send record: one row per send action, not
// per recipient. Recipients are resolved at read time from the requesting
// user's memberships. Kept alongside the assignment fan-out as a distinct
// capability.
type Distribution struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	AssessmentID   uint           `json:"assessment_id" gorm:"not null;index"`
	AssessmentKind AssessmentKind `json:"assessment_kind" gorm:"not null;size:32"`

	ChannelID    uint  `json:"channel_id" gorm:"not null;index"`
	SubchannelID *uint `json:"subchannel_id" gorm:"index"`

	SentBy string    `json:"sent_by" gorm:"not null;size:255"`
	SentAt time.Time `json:"sent_at" gorm:"not null"`
	Active bool      `json:"active" gorm:"not null;default:true"`
}

func (Distribution) TableName() string {
	return "distributions"
}
