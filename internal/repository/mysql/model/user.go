package model

import (
	"time"

	"github.com/Guyuepp/community-engagement/domain"
)

type User struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	Username       string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Nickname       string    `gorm:"type:varchar(50)"`
	FollowersCount int64     `gorm:"column:followers_count;default:0"`
	FollowingCount int64     `gorm:"column:following_count;default:0"`
	CreatedAt      time.Time `gorm:"type:datetime"`
	UpdatedAt      time.Time `gorm:"type:datetime"`
}

func (User) TableName() string {
	return "user"
}

func (m *User) ToDomain() domain.User {
	return domain.User{
		ID:             m.ID,
		Username:       m.Username,
		Nickname:       m.Nickname,
		FollowersCount: m.FollowersCount,
		FollowingCount: m.FollowingCount,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
