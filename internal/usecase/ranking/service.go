package ranking

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Guyuepp/community-engagement/domain"
	"github.com/Guyuepp/community-engagement/internal/repository"
)

type Service struct {
	topicRepo domain.TopicRepository
	now       func() time.Time
}

var _ domain.RankingUsecase = (*Service)(nil)

type Option func(*Service)

// WithClock sets the time source the trailing window is measured from.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(t domain.TopicRepository, opts ...Option) *Service {
	s := &Service{
		topicRepo: t,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetHotTopics ranks normal topics by q.HotType. The window, when q.Days > 0,
// is evaluated against the current time on every call.
func (s *Service) GetHotTopics(ctx context.Context, q domain.HotQuery) (domain.Page[domain.Topic], error) {
	if q.HotType == "" {
		q.HotType = domain.HotComprehensive
	}
	if !q.HotType.Valid() || q.CategoryID < 0 {
		return domain.Page[domain.Topic]{}, domain.ErrBadParamInput
	}
	repository.PageVerify(&q.Page, &q.Size)

	f := domain.RankFilter{CategoryID: q.CategoryID}
	if q.Days > 0 {
		f.Since = s.now().AddDate(0, 0, -q.Days)
	}

	var (
		topics []domain.Topic
		total  int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		topics, err = s.topicRepo.ListRanked(gctx, f, q.HotType, repository.Offset(q.Page, q.Size), q.Size)
		return
	})
	g.Go(func() (err error) {
		total, err = s.topicRepo.CountRanked(gctx, f)
		return
	})
	if err := g.Wait(); err != nil {
		return domain.Page[domain.Topic]{}, err
	}
	return domain.NewPage(topics, total, q.Page, q.Size), nil
}

func (s *Service) RecordView(ctx context.Context, topicID int64) error {
	if topicID <= 0 {
		return domain.ErrBadParamInput
	}
	return s.topicRepo.IncrementViews(ctx, topicID)
}
