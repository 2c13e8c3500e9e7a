package response

import "github.com/Guyuepp/community-engagement/domain"

type Comment struct {
	ID          int64  `json:"id"`
	TargetID    int64  `json:"target_id"`
	TargetType  string `json:"target_type"`
	ParentID    int64  `json:"parent_id"`
	UserID      int64  `json:"user_id"`
	ReplyUserID int64  `json:"reply_user_id,omitempty"`
	Level       int    `json:"level"`
	Content     string `json:"content"`
	Likes       int64  `json:"likes"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`

	// Replies 子评论列表
	Replies []*Comment `json:"replies,omitempty"`
}

func NewSingleCommentFromDomain(c *domain.Comment) *Comment {
	if c == nil {
		return nil
	}
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
		CreatedAt:   c.CreatedAt.Format(DateTimeFormat),
		UpdatedAt:   c.UpdatedAt.Format(DateTimeFormat),
	}
}

// NewCommentFromDomain: Domain -> Response
func NewCommentFromDomain(c *domain.Comment) *Comment {
	if c == nil {
		return nil
	}
	root := NewSingleCommentFromDomain(c)
	if len(c.Replies) > 0 {
		replies := make([]*Comment, 0, len(c.Replies))
		for _, r := range c.Replies {
			replies = append(replies, NewSingleCommentFromDomain(r))
		}
		root.Replies = replies
	}
	return root
}

func NewCommentsFromDomain(list []*domain.Comment) []*Comment {
	res := make([]*Comment, 0, len(list))
	for _, c := range list {
		res = append(res, NewCommentFromDomain(c))
	}
	return res
}
