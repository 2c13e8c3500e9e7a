package model

import "github.com/Guyuepp/community-engagement/domain"

// Activity and Resource only carry the counters this module maintains;
// the rest of their columns belong to other services.
type Activity struct {
	ID       int64 `gorm:"primaryKey;autoIncrement"`
	Likes    int64 `gorm:"default:0"`
	Comments int64 `gorm:"default:0"`
}

func (Activity) TableName() string {
	return "activities"
}

type Resource struct {
	ID       int64 `gorm:"primaryKey;autoIncrement"`
	Likes    int64 `gorm:"default:0"`
	Comments int64 `gorm:"default:0"`
}

func (Resource) TableName() string {
	return "resources"
}

// CounterTable returns the table holding the likes/comments counters of t.
func CounterTable(t domain.TargetType) (string, bool) {
	switch t {
	case domain.TargetTopic:
		return Topic{}.TableName(), true
	case domain.TargetActivity:
		return Activity{}.TableName(), true
	case domain.TargetResource:
		return Resource{}.TableName(), true
	case domain.TargetComment:
		return Comment{}.TableName(), true
	default:
		return "", false
	}
}
