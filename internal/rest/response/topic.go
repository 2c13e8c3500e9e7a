package response

import "github.com/Guyuepp/community-engagement/domain"

// Topic is a ranked topic. Content is left out of ranking lists.
type Topic struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	CategoryID int64  `json:"category_id"`
	Title      string `json:"title"`
	Views      int64  `json:"views"`
	Likes      int64  `json:"likes"`
	Comments   int64  `json:"comments"`
	HotScore   int64  `json:"hot_score"`
	CreatedAt  string `json:"created_at"`
}

// NewTopicConverter returns a converter that scores topics under hotType.
func NewTopicConverter(hotType domain.HotType) func(domain.Topic) Topic {
	return func(t domain.Topic) Topic {
		return Topic{
			ID:         t.ID,
			UserID:     t.UserID,
			CategoryID: t.CategoryID,
			Title:      t.Title,
			Views:      t.Views,
			Likes:      t.Likes,
			Comments:   t.Comments,
			HotScore:   hotType.Score(t),
			CreatedAt:  t.CreatedAt.Format(DateTimeFormat),
		}
	}
}
