package model

import (
	"time"

	"github.com/Guyuepp/community-engagement/domain"
)

type Comment struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	TargetID    int64     `gorm:"column:target_id;not null;index:idx_comment_target,priority:1"`
	TargetType  string    `gorm:"column:target_type;type:varchar(20);not null;index:idx_comment_target,priority:2"`
	ParentID    int64     `gorm:"column:parent_id;default:0;index:idx_comment_parent"`
	UserID      int64     `gorm:"column:user_id;not null;index:idx_comment_user"`
	ReplyUserID int64     `gorm:"column:reply_user_id;default:0"`
	Level       int       `gorm:"column:level;not null;default:1"`
	Content     string    `gorm:"type:text;not null"`
	Likes       int64     `gorm:"default:0"`
	CreatedAt   time.Time `gorm:"type:datetime"`
	UpdatedAt   time.Time `gorm:"type:datetime"`
}

func (Comment) TableName() string {
	return "comment"
}

func NewCommentFromDomain(c *domain.Comment) *Comment {
	return &Comment{
		ID:          c.ID,
		TargetID:    c.TargetID,
		TargetType:  string(c.TargetType),
		ParentID:    c.ParentID,
		UserID:      c.UserID,
		ReplyUserID: c.ReplyUserID,
		Level:       c.Level,
		Content:     c.Content,
		Likes:       c.Likes,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (m *Comment) ToDomain() domain.Comment {
	return domain.Comment{
		ID:          m.ID,
		TargetID:    m.TargetID,
		TargetType:  domain.TargetType(m.TargetType),
		ParentID:    m.ParentID,
		UserID:      m.UserID,
		ReplyUserID: m.ReplyUserID,
		Level:       m.Level,
		Content:     m.Content,
		Likes:       m.Likes,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
