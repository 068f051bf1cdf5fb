package models

import (
	"time"

	"gorm.io/gorm"
)

// ChannelFile is shared file metadata; the payload lives in external object
// storage behind an opaque URL.
type ChannelFile struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null;size:255"`
	FileURL  string `json:"file_url" gorm:"not null;size:500"`
	FileType string `json:"file_type" gorm:"size:50"`

	UploaderID   string `json:"uploader_id" gorm:"not null;size:255"`
	ChannelID    uint   `json:"channel_id" gorm:"not null;index"`
	SubchannelID *uint  `json:"subchannel_id" gorm:"index"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Bookmarks []FileBookmark `json:"bookmarks" gorm:"foreignKey:FileID"`
	Comments  []FileComment  `json:"comments" gorm:"foreignKey:FileID"`
	Uploader  User           `json:"uploader" gorm:"foreignKey:UploaderID"`
}

type FileBookmark struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	FileID uint   `json:"file_id" gorm:"not null;uniqueIndex:idx_file_bookmark"`
	UserID string `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_file_bookmark"`

	CreatedAt time.Time `json:"created_at"`
}

type FileComment struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	FileID   uint   `json:"file_id" gorm:"not null;index"`
	AuthorID string `json:"author_id" gorm:"not null;size:255"`
	Body     string `json:"body" gorm:"type:text;not null"`

	CreatedAt time.Time `json:"created_at"`

	Replies []CommentReply `json:"replies" gorm:"foreignKey:CommentID"`
	Author  User           `json:"author" gorm:"foreignKey:AuthorID"`
}

type CommentReply struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	CommentID uint   `json:"comment_id" gorm:"not null;index"`
	AuthorID  string `json:"author_id" gorm:"not null;size:255"`
	Body      string `json:"body" gorm:"type:text;not null"`

	CreatedAt time.Time `json:"created_at"`
}

func (ChannelFile) TableName() string  { return "channel_files" }
func (FileBookmark) TableName() string { return "file_bookmarks" }
func (FileComment) TableName() string  { return "file_comments" }
func (CommentReply) TableName() string { return "comment_replies" }
