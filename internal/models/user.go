package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type PresenceStatus string

const (
	PresenceOnline  PresenceStatus = "online"
	PresenceOffline PresenceStatus = "offline"
)

type User struct {
	ID           string         `json:"id" gorm:"primaryKey;size:255"`
	Name         string         `json:"name" gorm:"size:100"`
	Email        string         `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string         `json:"-" gorm:"not null;size:255"`
	Status       PresenceStatus `json:"status" gorm:"default:offline;size:16"`

	LastActivityAt *time.Time `json:"last_activity_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName resolves the name shown to channel members: the stored name,
// then the local part of the email, then "anonymous".
func (u *User) DisplayName() string {
	return DisplayNameFor(u.Name, u.Email)
}

// DisplayNameFor applies the display-name fallback chain for an arbitrary
// (name, email) pair, including users that have no account record.
func DisplayNameFor(name, email string) string {
	if strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return "anonymous"
}
