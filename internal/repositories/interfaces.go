package repositories

import (
	"time"

	"github.com/classpoint/classroom-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type AssignmentFilters struct {
	Category      *models.AssessmentCategory `json:"category"`
	Status        *models.AssignmentStatus   `json:"status"`
	ChannelID     *uint                      `json:"channel_id"`
	IncludeHidden bool                       `json:"include_hidden"`
	Limit         int                        `json:"limit"`
	Offset        int                        `json:"offset"`
}

type AssessmentFilters struct {
	Kind         *models.AssessmentKind `json:"kind"`
	CreatorEmail *string                `json:"creator_email"`
	DateFrom     *time.Time             `json:"date_from"`
	DateTo       *time.Time             `json:"date_to"`
	Limit        int                    `json:"limit"`
	Offset       int                    `json:"offset"`
}

type UserFilters struct {
	Status *models.PresenceStatus `json:"status"`
	Search string                 `json:"search"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type AssignmentStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Started   int `json:"started"`
	Completed int `json:"completed"`
}

type ChannelStats struct {
	MemberCount     int `json:"member_count"`
	SubchannelCount int `json:"subchannel_count"`
	MessageCount    int `json:"message_count"`
	FileCount       int `json:"file_count"`
}
