package comment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Guyuepp/community-engagement/domain"
	"github.com/Guyuepp/community-engagement/internal/repository"
	"github.com/Guyuepp/community-engagement/internal/usecase/like"
)

const (
	KeyCommentFrequency = "comment:frequency:%d"

	replyFanout       = 8
	defaultLatestSize = 10
)

type Service struct {
	commentRepo domain.CommentRepository
	cache       domain.Cache
}

var _ domain.CommentUsecase = (*Service)(nil)

func NewService(commentRepo domain.CommentRepository, cache domain.Cache) *Service {
	return &Service{
		commentRepo: commentRepo,
		cache:       cache,
	}
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", domain.ErrBadParamInput
	}
	if utf8.RuneCountInString(content) > domain.CommentMaxLength {
		return "", domain.ErrContentTooLong
	}
	return content, nil
}

func validateTarget(t domain.Target) error {
	if !t.Type.Commentable() {
		return domain.ErrInvalidTarget
	}
	if t.ID <= 0 {
		return domain.ErrBadParamInput
	}
	return nil
}

// checkRate counts one comment in the user's current window. A cache outage
// lets the comment through.
func (s *Service) checkRate(ctx context.Context, userID int64) error {
	key := fmt.Sprintf(KeyCommentFrequency, userID)
	n, err := s.cache.IncrementWindow(ctx, key, 1, domain.CommentRateWindow)
	if err != nil {
		logrus.Warnf("comment rate limiter unavailable, key: %s, err: %v", key, err)
		return nil
	}
	if n > domain.CommentRateLimit {
		return domain.ErrRateLimitExceeded
	}
	return nil
}

// refundRate gives back the slot taken by checkRate when the comment was not stored.
func (s *Service) refundRate(ctx context.Context, userID int64) {
	key := fmt.Sprintf(KeyCommentFrequency, userID)
	if _, _, err := s.cache.IncrementExisting(ctx, key, -1); err != nil {
		logrus.Warnf("failed to refund comment rate, key: %s, err: %v", key, err)
	}
}

func (s *Service) PublishComment(ctx context.Context, p domain.Principal, target domain.Target, content string) (*domain.Comment, error) {
	if p.IsZero() {
		return nil, domain.ErrUnauthenticated
	}
	if err := validateTarget(target); err != nil {
		return nil, err
	}
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	if err := s.checkRate(ctx, p.ID); err != nil {
		return nil, err
	}

	c := &domain.Comment{
		TargetID:   target.ID,
		TargetType: target.Type,
		UserID:     p.ID,
		Level:      domain.CommentLevelRoot,
		Content:    content,
	}
	if err := s.commentRepo.Insert(ctx, c); err != nil {
		s.refundRate(ctx, p.ID)
		return nil, err
	}
	return c, nil
}

func (s *Service) PublishReply(ctx context.Context, p domain.Principal, target domain.Target, parentID, replyUserID int64, content string) (*domain.Comment, error) {
	if p.IsZero() {
		return nil, domain.ErrUnauthenticated
	}
	if err := validateTarget(target); err != nil {
		return nil, err
	}
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	if parentID <= 0 {
		return nil, domain.ErrParentNotFound
	}

	parent, err := s.commentRepo.GetByID(ctx, parentID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrParentNotFound
	}
	if err != nil {
		return nil, err
	}
	// 回复的回复统一挂在一级评论下
	if parent.Level != domain.CommentLevelRoot {
		return nil, domain.ErrInvalidParentLevel
	}
	if parent.Target() != target {
		return nil, domain.ErrBadParamInput
	}

	if err := s.checkRate(ctx, p.ID); err != nil {
		return nil, err
	}

	if replyUserID <= 0 {
		replyUserID = parent.UserID
	}
	c := &domain.Comment{
		TargetID:    target.ID,
		TargetType:  target.Type,
		ParentID:    parent.ID,
		UserID:      p.ID,
		ReplyUserID: replyUserID,
		Level:       domain.CommentLevelReply,
		Content:     content,
	}
	if err := s.commentRepo.Insert(ctx, c); err != nil {
		s.refundRate(ctx, p.ID)
		return nil, err
	}
	return c, nil
}

func (s *Service) UpdateComment(ctx context.Context, p domain.Principal, commentID int64, content string) (*domain.Comment, error) {
	if p.IsZero() {
		return nil, domain.ErrUnauthenticated
	}
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}

	c, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c.UserID != p.ID {
		return nil, domain.ErrPermissionDenied
	}

	updatedAt, err := s.commentRepo.UpdateContent(ctx, commentID, content)
	if err != nil {
		return nil, err
	}
	c.Content = content
	c.UpdatedAt = updatedAt
	return c, nil
}

func (s *Service) DeleteComment(ctx context.Context, p domain.Principal, commentID int64) error {
	if p.IsZero() {
		return domain.ErrUnauthenticated
	}

	c, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if c.UserID != p.ID {
		return domain.ErrPermissionDenied
	}

	if _, err := s.commentRepo.Delete(ctx, []int64{commentID}); err != nil {
		return err
	}
	s.dropLikeCounts(ctx, []int64{commentID})
	return nil
}

// BatchDeleteComments checks every id before touching anything. If any id is
// missing or owned by someone else nothing is deleted and the returned error
// names each offending id.
func (s *Service) BatchDeleteComments(ctx context.Context, p domain.Principal, commentIDs []int64) (int64, error) {
	if p.IsZero() {
		return 0, domain.ErrUnauthenticated
	}

	ids := make([]int64, 0, len(commentIDs))
	seen := make(map[int64]struct{}, len(commentIDs))
	for _, id := range commentIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return 0, domain.ErrBadParamInput
	}

	comments, err := s.commentRepo.GetByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	owners := make(map[int64]int64, len(comments))
	for _, c := range comments {
		owners[c.ID] = c.UserID
	}

	var result *multierror.Error
	for _, id := range ids {
		owner, ok := owners[id]
		switch {
		case !ok:
			result = multierror.Append(result, fmt.Errorf("comment %d: %w", id, domain.ErrNotFound))
		case owner != p.ID:
			result = multierror.Append(result, fmt.Errorf("comment %d: %w", id, domain.ErrPermissionDenied))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return 0, err
	}

	n, err := s.commentRepo.Delete(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.dropLikeCounts(ctx, ids)
	return n, nil
}

func (s *Service) dropLikeCounts(ctx context.Context, ids []int64) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = fmt.Sprintf(like.KeyLikeCount, domain.TargetComment, id)
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		logrus.Warnf("failed to drop like counts of deleted comments: %v", err)
	}
}

func (s *Service) HasCommentPermission(ctx context.Context, commentID, userID int64) (bool, error) {
	c, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return false, err
	}
	return c.UserID == userID, nil
}

func (s *Service) GetCommentListWithReplies(ctx context.Context, q domain.CommentQuery) (domain.Page[*domain.Comment], error) {
	if err := validateTarget(domain.Target{ID: q.TargetID, Type: q.TargetType}); err != nil {
		return domain.Page[*domain.Comment]{}, err
	}
	switch q.OrderBy {
	case "":
		q.OrderBy = domain.CommentOrderTime
	case domain.CommentOrderTime, domain.CommentOrderHot:
	default:
		return domain.Page[*domain.Comment]{}, domain.ErrBadParamInput
	}
	repository.PageVerify(&q.Page, &q.Size)

	f := domain.CommentFilter{
		TargetID:   q.TargetID,
		TargetType: q.TargetType,
		UserID:     q.UserID,
		Level:      domain.CommentLevelRoot,
	}
	roots, total, err := s.listAndCount(ctx, f, q.OrderBy, q.Page, q.Size)
	if err != nil {
		return domain.Page[*domain.Comment]{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(replyFanout)
	for _, root := range roots {
		root := root
		g.Go(func() error {
			replies, err := s.commentRepo.List(gctx, domain.CommentFilter{
				ParentID: root.ID,
				Level:    domain.CommentLevelReply,
			}, domain.CommentOrderThread, 0, domain.RepliesPerRoot)
			if err != nil {
				return err
			}
			if replies == nil {
				replies = []*domain.Comment{}
			}
			root.Replies = replies
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Page[*domain.Comment]{}, err
	}

	return domain.NewPage(roots, total, q.Page, q.Size), nil
}

func (s *Service) GetReplyList(ctx context.Context, parentID int64, page, size int) (domain.Page[*domain.Comment], error) {
	if parentID <= 0 {
		return domain.Page[*domain.Comment]{}, domain.ErrBadParamInput
	}
	repository.PageVerify(&page, &size)

	f := domain.CommentFilter{ParentID: parentID, Level: domain.CommentLevelReply}
	replies, total, err := s.listAndCount(ctx, f, domain.CommentOrderThread, page, size)
	if err != nil {
		return domain.Page[*domain.Comment]{}, err
	}
	return domain.NewPage(replies, total, page, size), nil
}

func (s *Service) GetCommentCount(ctx context.Context, target domain.Target, userID int64) (int64, error) {
	if err := validateTarget(target); err != nil {
		return 0, err
	}
	return s.commentRepo.Count(ctx, domain.CommentFilter{
		TargetID:   target.ID,
		TargetType: target.Type,
		UserID:     userID,
	})
}

func (s *Service) GetUserComments(ctx context.Context, userID int64, page, size int) (domain.Page[*domain.Comment], error) {
	if userID <= 0 {
		return domain.Page[*domain.Comment]{}, domain.ErrBadParamInput
	}
	repository.PageVerify(&page, &size)

	comments, total, err := s.listAndCount(ctx, domain.CommentFilter{UserID: userID}, domain.CommentOrderTime, page, size)
	if err != nil {
		return domain.Page[*domain.Comment]{}, err
	}
	return domain.NewPage(comments, total, page, size), nil
}

func (s *Service) GetLatestComments(ctx context.Context, limit int) ([]*domain.Comment, error) {
	if limit < 1 {
		limit = defaultLatestSize
	}
	limit = min(limit, repository.MaxPageSize)
	return s.commentRepo.Latest(ctx, limit)
}

func (s *Service) listAndCount(ctx context.Context, f domain.CommentFilter, order domain.CommentOrder, page, size int) ([]*domain.Comment, int64, error) {
	var (
		comments []*domain.Comment
		total    int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		comments, err = s.commentRepo.List(gctx, f, order, repository.Offset(page, size), size)
		return
	})
	g.Go(func() (err error) {
		total, err = s.commentRepo.Count(gctx, f)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}
