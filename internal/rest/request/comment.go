package request

import "github.com/Guyuepp/community-engagement/domain"

type Comment struct {
	TargetID   int64  `json:"target_id" binding:"required,gt=0"`
	TargetType string `json:"target_type" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

func (r *Comment) Target() domain.Target {
	return domain.Target{ID: r.TargetID, Type: domain.TargetType(r.TargetType)}
}

// Reply is posted to /comments/:id/replies; the parent comes from the path.
type Reply struct {
	Comment
	ReplyUserID int64 `json:"reply_user_id"`
}

type UpdateComment struct {
	Content string `json:"content" binding:"required"`
}

type BatchDeleteComments struct {
	IDs []int64 `json:"ids" binding:"required,min=1,max=100"`
}

// CommentList 评论列表查询参数
type CommentList struct {
	Page
	TargetID   int64  `form:"target_id" binding:"required,gt=0"`
	TargetType string `form:"target_type" binding:"required"`
	UserID     int64  `form:"user_id"`
	OrderBy    string `form:"order_by"`
}

// ToDomain: Request -> Domain
func (r *CommentList) ToDomain() domain.CommentQuery {
	return domain.CommentQuery{
		TargetID:   r.TargetID,
		TargetType: domain.TargetType(r.TargetType),
		UserID:     r.UserID,
		OrderBy:    domain.CommentOrder(r.OrderBy),
		Page:       r.Page.Page,
		Size:       r.Page.Size,
	}
}

type CommentCount struct {
	TargetID   int64  `form:"target_id" binding:"required,gt=0"`
	TargetType string `form:"target_type" binding:"required"`
	UserID     int64  `form:"user_id"`
}
