package model

import (
	"time"

	"github.com/Guyuepp/community-engagement/domain"
)

// Follow 关注关系（follower 关注 followee）, 唯一键: follower_id + followee_id
type Follow struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	FollowerID int64     `gorm:"column:follower_id;not null;uniqueIndex:uk_follow_pair,priority:1"`
	FolloweeID int64     `gorm:"column:followee_id;not null;uniqueIndex:uk_follow_pair,priority:2;index:idx_followee"`
	CreatedAt  time.Time `gorm:"type:datetime"`
}

func (Follow) TableName() string {
	return "follow"
}

func NewFollowFromDomain(f *domain.Follow) *Follow {
	return &Follow{
		ID:         f.ID,
		FollowerID: f.FollowerID,
		FolloweeID: f.FolloweeID,
		CreatedAt:  f.CreatedAt,
	}
}

func (m *Follow) ToDomain() domain.Follow {
	return domain.Follow{
		ID:         m.ID,
		FollowerID: m.FollowerID,
		FolloweeID: m.FolloweeID,
		CreatedAt:  m.CreatedAt,
	}
}
