package model

import (
	"time"

	"github.com/Guyuepp/community-engagement/domain"
)

type Topic struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	UserID     int64     `gorm:"column:user_id;not null"`
	CategoryID int64     `gorm:"column:category_id;not null;index:idx_topic_category"`
	Title      string    `gorm:"type:varchar(100);not null"`
	Content    string    `gorm:"type:longtext;not null"`
	Status     int       `gorm:"default:1"`
	Views      int64     `gorm:"default:0"`
	Likes      int64     `gorm:"default:0"`
	Comments   int64     `gorm:"default:0"`
	CreatedAt  time.Time `gorm:"type:datetime;index:idx_topic_created"`
	UpdatedAt  time.Time `gorm:"type:datetime"`
}

func (Topic) TableName() string {
	return "topics"
}

func (m *Topic) ToDomain() domain.Topic {
	return domain.Topic{
		ID:         m.ID,
		UserID:     m.UserID,
		CategoryID: m.CategoryID,
		Title:      m.Title,
		Content:    m.Content,
		Status:     m.Status,
		Views:      m.Views,
		Likes:      m.Likes,
		Comments:   m.Comments,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
