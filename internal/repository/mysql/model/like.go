package model

import (
	"time"

	"github.com/Guyuepp/community-engagement/domain"
)

// Like 点赞记录, 唯一键: user_id + target_id + target_type
type Like struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	UserID     int64     `gorm:"column:user_id;not null;uniqueIndex:uk_user_target,priority:1"`
	TargetID   int64     `gorm:"column:target_id;not null;uniqueIndex:uk_user_target,priority:2;index:idx_target,priority:1"`
	TargetType string    `gorm:"column:target_type;type:varchar(20);not null;uniqueIndex:uk_user_target,priority:3;index:idx_target,priority:2"`
	CreatedAt  time.Time `gorm:"type:datetime"`
}

func (Like) TableName() string {
	return "likes"
}

func NewLikeFromDomain(l *domain.Like) *Like {
	return &Like{
		ID:         l.ID,
		UserID:     l.UserID,
		TargetID:   l.TargetID,
		TargetType: string(l.TargetType),
		CreatedAt:  l.CreatedAt,
	}
}

func (m *Like) ToDomain() domain.Like {
	return domain.Like{
		ID:         m.ID,
		UserID:     m.UserID,
		TargetID:   m.TargetID,
		TargetType: domain.TargetType(m.TargetType),
		CreatedAt:  m.CreatedAt,
	}
}
