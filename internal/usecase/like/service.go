package like

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Guyuepp/community-engagement/domain"
	"github.com/Guyuepp/community-engagement/internal/repository"
)

const (
	KeyLikeCount = "like:count:%s:%d"
	KeyLikeFlag  = "like:user:%d:%s:%d"

	flagLiked    = "1"
	flagNotLiked = "0"

	// deleteChunk bounds the number of keys sent in one cache delete.
	deleteChunk = 500
)

func countKey(t domain.Target) string {
	return fmt.Sprintf(KeyLikeCount, t.Type, t.ID)
}

func flagKey(userID int64, t domain.Target) string {
	return fmt.Sprintf(KeyLikeFlag, userID, t.Type, t.ID)
}

type Service struct {
	likeRepo domain.LikeRepository
	cache    domain.Cache
	sf       singleflight.Group
}

var _ domain.LikeUsecase = (*Service)(nil)

// NewService will create a new like service object
func NewService(l domain.LikeRepository, c domain.Cache) *Service {
	return &Service{
		likeRepo: l,
		cache:    c,
	}
}

func validateTarget(t domain.Target) error {
	if !t.Type.Likeable() {
		return domain.ErrInvalidTarget
	}
	if t.ID <= 0 {
		return domain.ErrBadParamInput
	}
	return nil
}

func (s *Service) Like(ctx context.Context, p domain.Principal, target domain.Target) error {
	if p.IsZero() {
		return domain.ErrUnauthenticated
	}
	if err := validateTarget(target); err != nil {
		return err
	}

	liked, err := s.HasLiked(ctx, p.ID, target)
	if err != nil {
		return err
	}
	if liked {
		return domain.ErrAlreadyLiked
	}

	err = s.likeRepo.Insert(ctx, &domain.Like{
		UserID:     p.ID,
		TargetID:   target.ID,
		TargetType: target.Type,
	})
	if errors.Is(err, domain.ErrConflict) {
		// 并发点赞, 另一请求已写入
		s.setFlag(ctx, p.ID, target, flagLiked, domain.LikeCacheTTL)
		return domain.ErrAlreadyLiked
	}
	if err != nil {
		return err
	}

	if _, _, err := s.cache.IncrementExisting(ctx, countKey(target), 1); err != nil {
		logrus.Warnf("failed to incr like count in cache, key: %s, err: %v", countKey(target), err)
	}
	s.setFlag(ctx, p.ID, target, flagLiked, domain.LikeCacheTTL)
	return nil
}

func (s *Service) Unlike(ctx context.Context, p domain.Principal, target domain.Target) error {
	if p.IsZero() {
		return domain.ErrUnauthenticated
	}
	if err := validateTarget(target); err != nil {
		return err
	}

	err := s.likeRepo.Delete(ctx, p.ID, target)
	if err != nil && !errors.Is(err, domain.ErrNotLiked) {
		return err
	}
	if err == nil {
		if _, _, err := s.cache.IncrementExisting(ctx, countKey(target), -1); err != nil {
			logrus.Warnf("failed to decr like count in cache, key: %s, err: %v", countKey(target), err)
		}
	}

	if err := s.cache.Delete(ctx, flagKey(p.ID, target)); err != nil {
		logrus.Warnf("failed to delete like flag, key: %s, err: %v", flagKey(p.ID, target), err)
	}
	return nil
}

func (s *Service) setFlag(ctx context.Context, userID int64, target domain.Target, val string, ttl time.Duration) {
	key := flagKey(userID, target)
	if err := s.cache.Set(ctx, key, val, ttl); err != nil {
		logrus.Warnf("failed to set like flag, key: %s, err: %v", key, err)
	}
}

func (s *Service) HasLiked(ctx context.Context, userID int64, target domain.Target) (bool, error) {
	if err := validateTarget(target); err != nil {
		return false, err
	}

	key := flagKey(userID, target)
	val, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logrus.Warnf("cache get error, key: %s, err: %v", key, err)
	} else if ok {
		return val == flagLiked, nil
	}

	liked, err := s.likeRepo.Exists(ctx, userID, target)
	if err != nil {
		return false, err
	}

	flag := flagNotLiked
	if liked {
		flag = flagLiked
	}
	s.setFlag(ctx, userID, target, flag, domain.LikeCacheRefillTTL)
	return liked, nil
}

func (s *Service) BatchHasLiked(ctx context.Context, userID int64, targetType domain.TargetType, targetIDs []int64) (map[int64]bool, error) {
	if !targetType.Likeable() {
		return nil, domain.ErrInvalidTarget
	}

	res := make(map[int64]bool, len(targetIDs))
	missed := make([]int64, 0, len(targetIDs))
	for _, id := range targetIDs {
		if _, seen := res[id]; seen {
			continue
		}
		res[id] = false

		val, ok, err := s.cache.Get(ctx, flagKey(userID, domain.Target{ID: id, Type: targetType}))
		if err != nil || !ok {
			missed = append(missed, id)
			continue
		}
		res[id] = val == flagLiked
	}
	if len(missed) == 0 {
		return res, nil
	}

	liked, err := s.likeRepo.ExistsBatch(ctx, userID, targetType, missed)
	if err != nil {
		return nil, err
	}
	for _, id := range liked {
		res[id] = true
	}
	for _, id := range missed {
		flag := flagNotLiked
		if res[id] {
			flag = flagLiked
		}
		s.setFlag(ctx, userID, domain.Target{ID: id, Type: targetType}, flag, domain.LikeCacheRefillTTL)
	}
	return res, nil
}

func (s *Service) GetLikeCount(ctx context.Context, target domain.Target) (int64, error) {
	if err := validateTarget(target); err != nil {
		return 0, err
	}

	key := countKey(target)
	val, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logrus.Warnf("cache get error, key: %s, err: %v", key, err)
	} else if ok {
		n, err := strconv.ParseInt(val, 10, 64)
		if err == nil {
			return max(n, 0), nil
		}
		logrus.Warnf("corrupt like count in cache, key: %s, val: %q", key, val)
	}

	// 同一 key 的并发未命中只查一次库, 不受首个调用方取消的影响
	sfCtx := context.WithoutCancel(ctx)
	v, err, _ := s.sf.Do(key, func() (any, error) {
		n, err := s.likeRepo.Count(sfCtx, target)
		if err != nil {
			return int64(0), err
		}
		if err := s.cache.Set(sfCtx, key, strconv.FormatInt(n, 10), domain.LikeCacheRefillTTL); err != nil {
			logrus.Warnf("failed to set like count, key: %s, err: %v", key, err)
		}
		return n, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

func (s *Service) ListUserLikes(ctx context.Context, userID int64, targetType domain.TargetType, page, size int) (domain.Page[domain.Like], error) {
	if targetType != "" && !targetType.Likeable() {
		return domain.Page[domain.Like]{}, domain.ErrInvalidTarget
	}
	repository.PageVerify(&page, &size)

	var (
		likes []domain.Like
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		likes, err = s.likeRepo.ListByUser(gctx, userID, targetType, repository.Offset(page, size), size)
		return
	})
	g.Go(func() (err error) {
		total, err = s.likeRepo.CountByUser(gctx, userID, targetType)
		return
	})
	if err := g.Wait(); err != nil {
		return domain.Page[domain.Like]{}, err
	}
	return domain.NewPage(likes, total, page, size), nil
}

func (s *Service) DeleteTargetLikes(ctx context.Context, target domain.Target) (int, error) {
	if err := validateTarget(target); err != nil {
		return 0, err
	}

	userIDs, err := s.likeRepo.DeleteByTarget(ctx, target)
	if err != nil {
		return 0, err
	}

	keys := make([]string, 0, len(userIDs)+1)
	keys = append(keys, countKey(target))
	for _, uid := range userIDs {
		keys = append(keys, flagKey(uid, target))
	}
	s.deleteKeys(ctx, keys)
	return len(userIDs), nil
}

func (s *Service) DeleteUserLikes(ctx context.Context, userID int64) (int, error) {
	targets, err := s.likeRepo.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	keys := make([]string, 0, 2*len(targets))
	for _, t := range targets {
		keys = append(keys, countKey(t), flagKey(userID, t))
	}
	s.deleteKeys(ctx, keys)
	return len(targets), nil
}

func (s *Service) deleteKeys(ctx context.Context, keys []string) {
	for start := 0; start < len(keys); start += deleteChunk {
		end := min(start+deleteChunk, len(keys))
		if err := s.cache.Delete(ctx, keys[start:end]...); err != nil {
			logrus.Warnf("failed to delete %d like keys, err: %v", end-start, err)
		}
	}
}
