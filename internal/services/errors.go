package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/classpoint/classroom-service/internal/validator"
)

// Sentinel errors for resource lookups and state conflicts. Handlers map
// these to HTTP statuses in one place.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrChannelNotFound      = errors.New("channel not found")
	ErrSubchannelNotFound   = errors.New("subchannel not found")
	ErrMemberNotFound       = errors.New("member not found")
	ErrAssessmentNotFound   = errors.New("assessment not found")
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrResultNotFound       = errors.New("result not found")
	ErrFileNotFound         = errors.New("file not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrDistributionNotFound = errors.New("distribution not found")

	ErrInvalidInviteCode  = errors.New("invalid invite code")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrGenerationDisabled = errors.New("assessment generation is not configured")

	ErrAssignmentCompleted  = errors.New("assignment already completed")
	ErrResultNotPending     = errors.New("result is not pending evaluation")
	ErrCategoryNotGradable  = errors.New("only coding and writing results accept manual evaluation")
	ErrHiddenNeedsCompleted = errors.New("only completed assignments can be hidden")
)

// PermissionError carries enough context to log who tried what on which
// resource and why it was denied.
type PermissionError struct {
	UserID     string
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s %d: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

// NewValidationError builds one field error for business rule failures
// discovered outside struct-tag validation.
func NewValidationError(field, message string, value interface{}) validator.ValidationError {
	return validator.ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
		Rule:    "business_logic",
	}
}

// IsNotFound reports whether err is any of the not-found sentinels or the
// raw gorm record miss that repositories surface.
func IsNotFound(err error) bool {
	for _, sentinel := range []error{
		gorm.ErrRecordNotFound,
		ErrUserNotFound, ErrChannelNotFound, ErrSubchannelNotFound,
		ErrMemberNotFound, ErrAssessmentNotFound, ErrAssignmentNotFound,
		ErrResultNotFound, ErrFileNotFound, ErrCommentNotFound,
		ErrDistributionNotFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
