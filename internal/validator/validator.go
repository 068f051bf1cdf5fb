package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/classpoint/classroom-service/internal/models"
)

// ValidationError describes one failed rule on one field.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	parts := make([]string, len(ve))
	for i, e := range ve {
		parts[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return strings.Join(parts, "; ")
}

func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// ToValidationErrors converts go-playground validation errors to our format.
func ToValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var out ValidationErrors
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			out = append(out, ValidationError{
				Field:   fe.Field(),
				Message: messageForTag(fe),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
		return out
	}

	return ValidationErrors{{Field: "request", Message: err.Error(), Rule: "invalid"}}
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "channel_role":
		return "must be one of creator, admin, moderator, newbie"
	case "assessment_kind":
		return "is not a recognized assessment kind"
	case "expiry_unit":
		return "must be one of min, hour, day, week"
	case "difficulty_level":
		return "must be one of easy, medium, hard"
	case "points_range":
		return "must be between 1 and 100"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// Validator wraps struct validation with the domain's custom tags registered.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with all custom tags registered.
func New() *Validator {
	validate := validator.New()

	validate.RegisterValidation("channel_role", func(fl validator.FieldLevel) bool {
		return models.ChannelRole(fl.Field().String()).Valid()
	})

	validate.RegisterValidation("assessment_kind", func(fl validator.FieldLevel) bool {
		return models.AssessmentKind(fl.Field().String()).Valid()
	})

	validate.RegisterValidation("expiry_unit", func(fl validator.FieldLevel) bool {
		return models.ExpiryUnit(fl.Field().String()).Valid()
	})

	validate.RegisterValidation("difficulty_level", func(fl validator.FieldLevel) bool {
		switch models.DifficultyLevel(fl.Field().String()) {
		case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
			return true
		}
		return false
	})

	validate.RegisterValidation("points_range", func(fl validator.FieldLevel) bool {
		points := fl.Field().Int()
		return points >= 1 && points <= 100
	})

	return &Validator{validate: validate}
}

// Validate runs struct-tag validation and returns accumulated errors.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}
