package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AssessmentKind tags the assessment family. The seven kinds share one table;
// the kind decides which question content schema applies and which defaults
// are seeded at creation time.
type AssessmentKind string

const (
	KindQuizManual    AssessmentKind = "quiz_manual"
	KindQuizAI        AssessmentKind = "quiz_ai"
	KindQuizLegacy    AssessmentKind = "quiz_legacy"
	KindCodingManual  AssessmentKind = "coding_manual"
	KindCodingAI      AssessmentKind = "coding_ai"
	KindWritingManual AssessmentKind = "writing_manual"
	KindWritingAI     AssessmentKind = "writing_ai"
)

type AssessmentCategory string

const (
	CategoryQuiz    AssessmentCategory = "quiz"
	CategoryCoding  AssessmentCategory = "coding"
	CategoryWriting AssessmentCategory = "writing"
)

// Category derives the grading category from the kind.
func (k AssessmentKind) Category() AssessmentCategory {
	switch k {
	case KindCodingManual, KindCodingAI:
		return CategoryCoding
	case KindWritingManual, KindWritingAI:
		return CategoryWriting
	default:
		return CategoryQuiz
	}
}

func (k AssessmentKind) Valid() bool {
	switch k {
	case KindQuizManual, KindQuizAI, KindQuizLegacy,
		KindCodingManual, KindCodingAI,
		KindWritingManual, KindWritingAI:
		return true
	}
	return false
}

// AIGenerated reports whether the family is machine-authored.
func (k AssessmentKind) AIGenerated() bool {
	return k == KindQuizAI || k == KindCodingAI || k == KindWritingAI
}

type ExpiryUnit string

const (
	ExpiryMinute ExpiryUnit = "min"
	ExpiryHour   ExpiryUnit = "hour"
	ExpiryDay    ExpiryUnit = "day"
	ExpiryWeek   ExpiryUnit = "week"
)

func (u ExpiryUnit) Duration() time.Duration {
	switch u {
	case ExpiryMinute:
		return time.Minute
	case ExpiryHour:
		return time.Hour
	case ExpiryDay:
		return 24 * time.Hour
	case ExpiryWeek:
		return 7 * 24 * time.Hour
	}
	return 0
}

func (u ExpiryUnit) Valid() bool {
	return u.Duration() != 0
}

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

type Assessment struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Kind      AssessmentKind `json:"kind" gorm:"not null;index;size:32"`
	Title     string         `json:"title" gorm:"not null;size:200;index"`
	TimeLimit int            `json:"time_limit" gorm:"not null"` // minutes

	// Author identity. CreatedBy is the resolved display name members see.
	CreatedBy    string `json:"created_by" gorm:"not null;size:100"`
	CreatorEmail string `json:"creator_email" gorm:"not null;index;size:255"`

	// Expiry is computed lazily from creation time, never stored as a
	// deadline and never enforced against submission.
	ExpiresIn  int        `json:"expires_in" gorm:"default:0"`
	ExpiryUnit ExpiryUnit `json:"expiry_unit" gorm:"size:8;default:day"`

	Difficulty DifficultyLevel `json:"difficulty,omitempty" gorm:"size:16"`
	Topic      string          `json:"topic,omitempty" gorm:"size:200"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Questions []Question `json:"questions" gorm:"foreignKey:AssessmentID"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// IsExpired evaluates the informational expiry flag. Zero ExpiresIn means
// the assessment never expires.
func (a *Assessment) IsExpired(now time.Time) bool {
	if a.ExpiresIn <= 0 {
		return false
	}
	return now.Sub(a.CreatedAt) > time.Duration(a.ExpiresIn)*a.ExpiryUnit.Duration()
}

type Question struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	AssessmentID uint   `json:"assessment_id" gorm:"not null;index"`
	Position     int    `json:"position" gorm:"not null"`
	Text         string `json:"text" gorm:"type:text;not null"`
	Points       int    `json:"points" gorm:"default:1"`

	// Family-specific payload stored as JSONB: QuizContent, CodingContent or
	// WritingContent depending on the owning assessment's kind.
	Content datatypes.JSON `json:"content" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
}

func (Question) TableName() string {
	return "questions"
}

// ===== QUESTION CONTENT SCHEMAS =====

type QuizContent struct {
	Options        []string `json:"options"`
	CorrectOptions []int    `json:"correct_options"`
}

type CodingContent struct {
	ProblemDescription  string          `json:"problem_description"`
	StarterCode         string          `json:"starter_code"`
	ExpectedOutput      string          `json:"expected_output"`
	ProgrammingLanguage string          `json:"programming_language"`
	Difficulty          DifficultyLevel `json:"difficulty"`
}

type WritingContent struct {
	Prompt       string          `json:"prompt"`
	Instructions string          `json:"instructions"`
	WordLimit    int             `json:"word_limit"`
	WritingType  string          `json:"writing_type"`
	Difficulty   DifficultyLevel `json:"difficulty"`
}
