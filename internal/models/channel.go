package models

import (
	"time"

	"gorm.io/gorm"
)

type ChannelRole string

const (
	RoleCreator   ChannelRole = "creator"
	RoleAdmin     ChannelRole = "admin"
	RoleModerator ChannelRole = "moderator"
	RoleNewbie    ChannelRole = "newbie"
)

// Privileged reports whether the role may manage subchannels, upload files
// and seed new subchannel rosters.
func (r ChannelRole) Privileged() bool {
	return r == RoleCreator || r == RoleAdmin || r == RoleModerator
}

func (r ChannelRole) Valid() bool {
	switch r {
	case RoleCreator, RoleAdmin, RoleModerator, RoleNewbie:
		return true
	}
	return false
}

type Channel struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null;size:100;index"`
	Description string `json:"description" gorm:"type:text"`
	CreatorID   string `json:"creator_id" gorm:"not null;index;size:255"`
	InviteCode  string `json:"invite_code" gorm:"uniqueIndex;size:64"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Members     []ChannelMember `json:"members" gorm:"foreignKey:ChannelID"`
	Subchannels []Subchannel    `json:"subchannels" gorm:"foreignKey:ChannelID"`
	Creator     User            `json:"creator" gorm:"foreignKey:CreatorID"`
}

type ChannelMember struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	ChannelID uint        `json:"channel_id" gorm:"not null;uniqueIndex:idx_channel_user"`
	UserID    string      `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_channel_user"`
	Role      ChannelRole `json:"role" gorm:"not null;default:newbie;size:16"`

	JoinedAt time.Time `json:"joined_at" gorm:"autoCreateTime"`

	User User `json:"user" gorm:"foreignKey:UserID"`
}

type Subchannel struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	ChannelID   uint   `json:"channel_id" gorm:"not null;index"`
	Name        string `json:"name" gorm:"not null;size:100"`
	Description string `json:"description" gorm:"type:text"`
	CreatorID   string `json:"creator_id" gorm:"not null;size:255"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Members []SubchannelMember `json:"members" gorm:"foreignKey:SubchannelID"`
}

type SubchannelMember struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	SubchannelID uint        `json:"subchannel_id" gorm:"not null;uniqueIndex:idx_subchannel_user"`
	UserID       string      `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_subchannel_user"`
	Role         ChannelRole `json:"role" gorm:"not null;default:newbie;size:16"`

	JoinedAt time.Time `json:"joined_at" gorm:"autoCreateTime"`

	User User `json:"user" gorm:"foreignKey:UserID"`
}

type Message struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	ChannelID    uint   `json:"channel_id" gorm:"not null;index:idx_message_room"`
	SubchannelID *uint  `json:"subchannel_id" gorm:"index:idx_message_room"`
	SenderID     string `json:"sender_id" gorm:"not null;size:255"`
	SenderName   string `json:"sender_name" gorm:"size:100"`
	Body         string `json:"body" gorm:"type:text;not null"`

	SentAt time.Time `json:"sent_at" gorm:"autoCreateTime;index"`

	Sender User `json:"-" gorm:"foreignKey:SenderID"`
}

func (Channel) TableName() string          { return "channels" }
func (ChannelMember) TableName() string    { return "channel_members" }
func (Subchannel) TableName() string       { return "subchannels" }
func (SubchannelMember) TableName() string { return "subchannel_members" }
func (Message) TableName() string          { return "messages" }

// Membership is the storage-agnostic view of one roster entry, shared by
// channel and subchannel rosters.
type Membership struct {
	MemberID uint
	UserID   string
	Role     ChannelRole
}

// DedupMembers keeps the first occurrence per user id and drops the rest.
// The unique index makes duplicates impossible for single-row inserts; this
// normalization guards bulk writes that assemble a roster in memory.
func DedupMembers(members []Membership) []Membership {
	seen := make(map[string]struct{}, len(members))
	out := members[:0]
	for _, m := range members {
		if _, ok := seen[m.UserID]; ok {
			continue
		}
		seen[m.UserID] = struct{}{}
		out = append(out, m)
	}
	return out
}
