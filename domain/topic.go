package domain

import (
	"context"
	"time"
)

const (
	TopicStatusDraft  = 0
	TopicStatusNormal = 1
)

// Topic is representing the forum topic data struct
type Topic struct {
	ID         int64     // Unique identifier for the topic
	UserID     int64     // Author id
	CategoryID int64     // Category the topic was posted in
	Title      string    // Topic title
	Content    string    // Topic body content
	Status     int       // Draft or normal
	Views      int64     // Number of views
	Likes      int64     // Number of likes
	Comments   int64     // Number of comments
	CreatedAt  time.Time // Creation timestamp
	UpdatedAt  time.Time // Last update timestamp
}

// HotType selects the measure a hot ranking sorts by.
type HotType string

const (
	HotViews         HotType = "views"
	HotLikes         HotType = "likes"
	HotComments      HotType = "comments"
	HotComprehensive HotType = "comprehensive"
)

// Weights of the comprehensive hot score.
const (
	HotWeightViews    = 1
	HotWeightLikes    = 5
	HotWeightComments = 10
)

// Valid reports whether t is a known hot type.
func (t HotType) Valid() bool {
	switch t {
	case HotViews, HotLikes, HotComments, HotComprehensive:
		return true
	default:
		return false
	}
}

// Score computes the value topics are ranked by under t.
func (t HotType) Score(tp Topic) int64 {
	switch t {
	case HotViews:
		return tp.Views
	case HotLikes:
		return tp.Likes
	case HotComments:
		return tp.Comments
	default:
		return tp.Views*HotWeightViews + tp.Likes*HotWeightLikes + tp.Comments*HotWeightComments
	}
}

// HotQuery is the input of GetHotTopics.
type HotQuery struct {
	// CategoryID 0 means every category.
	CategoryID int64
	// Days <= 0 means no time window.
	Days    int
	HotType HotType
	Page    int
	Size    int
}

// RankFilter restricts the topics a ranking considers.
type RankFilter struct {
	CategoryID int64
	// Since zero means no lower bound on created_at.
	Since time.Time
}

// TopicRepository defines the ranking side of topic persistence.
type TopicRepository interface {
	// ListRanked returns normal topics matching f ordered by the measure of
	// hotType descending, newest first on ties.
	ListRanked(ctx context.Context, f RankFilter, hotType HotType, offset, limit int) ([]Topic, error)

	// CountRanked counts the topics ListRanked pages over.
	CountRanked(ctx context.Context, f RankFilter) (int64, error)

	// IncrementViews adds one view. Returns ErrNotFound if the topic doesn't exist.
	IncrementViews(ctx context.Context, id int64) error
}

// RankingUsecase computes hot content rankings.
type RankingUsecase interface {
	GetHotTopics(ctx context.Context, q HotQuery) (Page[Topic], error)
	RecordView(ctx context.Context, topicID int64) error
}
