package follow

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/Guyuepp/community-engagement/domain"
	"github.com/Guyuepp/community-engagement/internal/repository"
)

type Service struct {
	followRepo domain.FollowRepository
}

var _ domain.FollowUsecase = (*Service)(nil)

// NewService will create a new follow service object
func NewService(f domain.FollowRepository) *Service {
	return &Service{
		followRepo: f,
	}
}

func (s *Service) Follow(ctx context.Context, p domain.Principal, followeeID int64) error {
	if p.IsZero() {
		return domain.ErrUnauthenticated
	}
	if followeeID <= 0 {
		return domain.ErrBadParamInput
	}
	if p.ID == followeeID {
		return domain.ErrSelfFollow
	}

	exists, err := s.followRepo.Exists(ctx, p.ID, followeeID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrAlreadyFollowed
	}

	err = s.followRepo.Insert(ctx, &domain.Follow{
		FollowerID: p.ID,
		FolloweeID: followeeID,
	})
	if errors.Is(err, domain.ErrConflict) {
		return domain.ErrAlreadyFollowed
	}
	return err
}

func (s *Service) Unfollow(ctx context.Context, p domain.Principal, followeeID int64) error {
	if p.IsZero() {
		return domain.ErrUnauthenticated
	}
	if followeeID <= 0 {
		return domain.ErrBadParamInput
	}

	err := s.followRepo.Delete(ctx, p.ID, followeeID)
	if errors.Is(err, domain.ErrNotFollowed) {
		return nil
	}
	return err
}

func (s *Service) HasFollowed(ctx context.Context, followerID, followeeID int64) (bool, error) {
	if followerID == followeeID {
		return false, nil
	}
	return s.followRepo.Exists(ctx, followerID, followeeID)
}

// IsMutualFollow is symmetric in its arguments.
func (s *Service) IsMutualFollow(ctx context.Context, userA, userB int64) (bool, error) {
	ok, err := s.HasFollowed(ctx, userA, userB)
	if err != nil || !ok {
		return false, err
	}
	return s.HasFollowed(ctx, userB, userA)
}

type listFunc func(ctx context.Context, id int64, offset, limit int) ([]domain.Follow, error)
type countFunc func(ctx context.Context, id int64) (int64, error)

func (s *Service) page(ctx context.Context, id int64, page, size int, list listFunc, count countFunc) (domain.Page[domain.Follow], error) {
	repository.PageVerify(&page, &size)

	var (
		records []domain.Follow
		total   int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		records, err = list(gctx, id, repository.Offset(page, size), size)
		return
	})
	g.Go(func() (err error) {
		total, err = count(gctx, id)
		return
	})
	if err := g.Wait(); err != nil {
		return domain.Page[domain.Follow]{}, err
	}
	return domain.NewPage(records, total, page, size), nil
}

func (s *Service) GetFollowing(ctx context.Context, followerID int64, page, size int) (domain.Page[domain.Follow], error) {
	return s.page(ctx, followerID, page, size, s.followRepo.ListFollowing, s.followRepo.CountFollowing)
}

func (s *Service) GetFollowers(ctx context.Context, followeeID int64, page, size int) (domain.Page[domain.Follow], error) {
	return s.page(ctx, followeeID, page, size, s.followRepo.ListFollowers, s.followRepo.CountFollowers)
}

func (s *Service) GetFollowingCount(ctx context.Context, followerID int64) (int64, error) {
	return s.followRepo.CountFollowing(ctx, followerID)
}

func (s *Service) GetFollowersCount(ctx context.Context, followeeID int64) (int64, error) {
	return s.followRepo.CountFollowers(ctx, followeeID)
}

// GetFollowStatus returns the edges from followerID to any of followeeIDs.
// Ids without an edge are simply absent; see domain.FollowStatusMap.
func (s *Service) GetFollowStatus(ctx context.Context, followerID int64, followeeIDs []int64) ([]domain.Follow, error) {
	seen := make(map[int64]struct{}, len(followeeIDs))
	ids := make([]int64, 0, len(followeeIDs))
	for _, id := range followeeIDs {
		if id <= 0 || id == followerID {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return []domain.Follow{}, nil
	}
	return s.followRepo.FindExisting(ctx, followerID, ids)
}
