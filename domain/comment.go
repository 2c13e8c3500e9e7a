package domain

import (
	"context"
	"time"
)

const (
	CommentLevelRoot  = 1
	CommentLevelReply = 2

	// CommentMaxLength is measured in characters, not bytes.
	CommentMaxLength = 1000

	// CommentRateLimit comments are allowed per user within CommentRateWindow.
	CommentRateLimit  = 5
	CommentRateWindow = time.Minute

	// RepliesPerRoot caps the replies attached to each root in a list page.
	RepliesPerRoot = 50
)

// CommentOrder selects how root comments are sorted.
type CommentOrder string

const (
	CommentOrderTime   CommentOrder = "created_at"
	CommentOrderHot    CommentOrder = "hot"
	// CommentOrderThread lists oldest first, the way a reply thread reads.
	CommentOrderThread CommentOrder = "thread"
)

// Comment domain model. Level-1 comments have ParentID 0;
// level-2 replies point at a level-1 parent.
type Comment struct {
	ID          int64      `json:"id"`
	TargetID    int64      `json:"target_id"`
	TargetType  TargetType `json:"target_type"`
	ParentID    int64      `json:"parent_id"`
	UserID      int64      `json:"user_id"`
	ReplyUserID int64      `json:"reply_user_id"`
	Level       int        `json:"level"`
	Content     string     `json:"content"`
	Likes       int64      `json:"likes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Replies 子评论列表
	Replies []*Comment `json:"replies,omitempty"`
}

// Target returns the content this comment is attached to.
func (c *Comment) Target() Target {
	return Target{ID: c.TargetID, Type: c.TargetType}
}

// CommentFilter narrows ListComments / CountComments. Zero fields are ignored.
type CommentFilter struct {
	TargetID   int64
	TargetType TargetType
	ParentID   int64
	UserID     int64
	Level      int
}

// CommentQuery is the input of GetCommentListWithReplies.
type CommentQuery struct {
	TargetID   int64
	TargetType TargetType
	// UserID optionally restricts roots to one author.
	UserID  int64
	OrderBy CommentOrder
	Page    int
	Size    int
}

// CommentRepository 数据存取接口
type CommentRepository interface {
	// Insert stores the comment and increments the target's comments counter.
	// Returns ErrNotFound if the target row doesn't exist.
	Insert(ctx context.Context, c *Comment) error

	// UpdateContent rewrites the content and returns the stored update time.
	UpdateContent(ctx context.Context, id int64, content string) (time.Time, error)

	GetByID(ctx context.Context, id int64) (*Comment, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*Comment, error)

	// Delete removes the comments, the replies of any root among them and the
	// likes on all removed rows, and decrements the targets' counters.
	// Returns the number of comments removed.
	Delete(ctx context.Context, ids []int64) (int64, error)

	List(ctx context.Context, f CommentFilter, order CommentOrder, offset, limit int) ([]*Comment, error)
	Count(ctx context.Context, f CommentFilter) (int64, error)

	// Latest returns the newest comments site-wide.
	Latest(ctx context.Context, limit int) ([]*Comment, error)
}

// CommentUsecase 业务逻辑接口
type CommentUsecase interface {
	PublishComment(ctx context.Context, p Principal, target Target, content string) (*Comment, error)
	PublishReply(ctx context.Context, p Principal, target Target, parentID, replyUserID int64, content string) (*Comment, error)
	UpdateComment(ctx context.Context, p Principal, commentID int64, content string) (*Comment, error)
	DeleteComment(ctx context.Context, p Principal, commentID int64) error
	BatchDeleteComments(ctx context.Context, p Principal, commentIDs []int64) (int64, error)
	HasCommentPermission(ctx context.Context, commentID, userID int64) (bool, error)

	GetCommentListWithReplies(ctx context.Context, q CommentQuery) (Page[*Comment], error)
	GetReplyList(ctx context.Context, parentID int64, page, size int) (Page[*Comment], error)
	GetCommentCount(ctx context.Context, target Target, userID int64) (int64, error)
	GetUserComments(ctx context.Context, userID int64, page, size int) (Page[*Comment], error)
	GetLatestComments(ctx context.Context, limit int) ([]*Comment, error)
}
