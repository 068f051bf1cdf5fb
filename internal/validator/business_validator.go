package validator

import (
	"fmt"

	"github.com/classpoint/classroom-service/internal/models"
)

// BusinessValidator layers family-specific rules on top of struct tags:
// which question list a kind accepts, and internal consistency of quiz
// answer keys.
type BusinessValidator struct {
	validator *Validator
}

func NewBusinessValidator(v *Validator) *BusinessValidator {
	return &BusinessValidator{validator: v}
}

// ValidateAssessmentCreate validates an authoring request end to end.
func (bv *BusinessValidator) ValidateAssessmentCreate(req *AssessmentCreateRequest) ValidationErrors {
	errors := bv.validator.Validate(req)
	errors = append(errors, bv.validateQuestionLists(req)...)
	return errors
}

func (bv *BusinessValidator) validateQuestionLists(req *AssessmentCreateRequest) ValidationErrors {
	var errors ValidationErrors

	category := req.Kind.Category()

	if category != models.CategoryQuiz && len(req.QuizQuestions) > 0 {
		errors = append(errors, ValidationError{
			Field:   "quiz_questions",
			Message: fmt.Sprintf("not allowed for %s assessments", category),
			Rule:    "business_logic",
		})
	}
	if category != models.CategoryCoding && len(req.CodingQuestions) > 0 {
		errors = append(errors, ValidationError{
			Field:   "coding_questions",
			Message: fmt.Sprintf("not allowed for %s assessments", category),
			Rule:    "business_logic",
		})
	}
	if category != models.CategoryWriting && len(req.WritingQuestions) > 0 {
		errors = append(errors, ValidationError{
			Field:   "writing_questions",
			Message: fmt.Sprintf("not allowed for %s assessments", category),
			Rule:    "business_logic",
		})
	}

	// AI kinds may arrive without questions (generation fills them);
	// manual and legacy kinds must carry at least one.
	if !req.Kind.AIGenerated() {
		var count int
		switch category {
		case models.CategoryQuiz:
			count = len(req.QuizQuestions)
		case models.CategoryCoding:
			count = len(req.CodingQuestions)
		case models.CategoryWriting:
			count = len(req.WritingQuestions)
		}
		if count == 0 {
			errors = append(errors, ValidationError{
				Field:   "questions",
				Message: "at least one question is required",
				Rule:    "business_logic",
			})
		}
	}

	for i, q := range req.QuizQuestions {
		errors = append(errors, bv.validateQuizQuestion(i, q)...)
	}
	for i, q := range req.CodingQuestions {
		if q.ExpectedOutput == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("coding_questions[%d].expected_output", i),
				Message: "is required",
				Rule:    "business_logic",
			})
		}
	}
	for i, q := range req.WritingQuestions {
		if q.WordLimit <= 0 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("writing_questions[%d].word_limit", i),
				Message: "must be positive",
				Value:   q.WordLimit,
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

func (bv *BusinessValidator) validateQuizQuestion(index int, q QuizQuestionRequest) ValidationErrors {
	var errors ValidationErrors

	seen := make(map[int]struct{}, len(q.CorrectOptions))
	for _, idx := range q.CorrectOptions {
		if idx < 0 || idx >= len(q.Options) {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("quiz_questions[%d].correct_options", index),
				Message: fmt.Sprintf("index %d is out of range for %d options", idx, len(q.Options)),
				Value:   idx,
				Rule:    "business_logic",
			})
			continue
		}
		if _, dup := seen[idx]; dup {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("quiz_questions[%d].correct_options", index),
				Message: fmt.Sprintf("index %d appears more than once", idx),
				Value:   idx,
				Rule:    "business_logic",
			})
		}
		seen[idx] = struct{}{}
	}

	return errors
}

// ValidateSubmission checks submitted answers against the assessment's
// questions: unknown question ids are rejected, duplicates collapse to the
// first occurrence at grading time but still fail validation here.
func (bv *BusinessValidator) ValidateSubmission(req *SubmitRequest, questions []models.Question) ValidationErrors {
	errors := bv.validator.Validate(req)

	known := make(map[uint]struct{}, len(questions))
	for _, q := range questions {
		known[q.ID] = struct{}{}
	}

	seen := make(map[uint]struct{}, len(req.Answers))
	for i, a := range req.Answers {
		if _, ok := known[a.QuestionID]; !ok {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("answers[%d].question_id", i),
				Message: "does not belong to this assessment",
				Value:   a.QuestionID,
				Rule:    "business_logic",
			})
		}
		if _, dup := seen[a.QuestionID]; dup {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("answers[%d].question_id", i),
				Message: "answered more than once",
				Value:   a.QuestionID,
				Rule:    "business_logic",
			})
		}
		seen[a.QuestionID] = struct{}{}
	}

	return errors
}
