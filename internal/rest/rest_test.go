package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/community-engagement/domain"
	"github.com/Guyuepp/community-engagement/internal/rest/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// The fakes embed the usecase interfaces; a test calling a method it did
// not stub panics.

type fakeLikeUsecase struct {
	domain.LikeUsecase
	like          func(p domain.Principal, t domain.Target) error
	hasLiked      func(userID int64, t domain.Target) (bool, error)
	batchHasLiked func(userID int64, tt domain.TargetType, ids []int64) (map[int64]bool, error)
	count         func(t domain.Target) (int64, error)
}

func (f *fakeLikeUsecase) Like(_ context.Context, p domain.Principal, t domain.Target) error {
	return f.like(p, t)
}

func (f *fakeLikeUsecase) HasLiked(_ context.Context, userID int64, t domain.Target) (bool, error) {
	return f.hasLiked(userID, t)
}

func (f *fakeLikeUsecase) BatchHasLiked(_ context.Context, userID int64, tt domain.TargetType, ids []int64) (map[int64]bool, error) {
	return f.batchHasLiked(userID, tt, ids)
}

func (f *fakeLikeUsecase) GetLikeCount(_ context.Context, t domain.Target) (int64, error) {
	return f.count(t)
}

type fakeFollowUsecase struct {
	domain.FollowUsecase
	follow    func(p domain.Principal, followeeID int64) error
	status    func(followerID int64, ids []int64) ([]domain.Follow, error)
	following func(userID int64, page, size int) (domain.Page[domain.Follow], error)
	counts    map[int64][2]int64
}

func (f *fakeFollowUsecase) Follow(_ context.Context, p domain.Principal, followeeID int64) error {
	return f.follow(p, followeeID)
}

func (f *fakeFollowUsecase) GetFollowStatus(_ context.Context, followerID int64, ids []int64) ([]domain.Follow, error) {
	return f.status(followerID, ids)
}

func (f *fakeFollowUsecase) GetFollowing(_ context.Context, userID int64, page, size int) (domain.Page[domain.Follow], error) {
	return f.following(userID, page, size)
}

func (f *fakeFollowUsecase) GetFollowingCount(_ context.Context, userID int64) (int64, error) {
	return f.counts[userID][0], nil
}

func (f *fakeFollowUsecase) GetFollowersCount(_ context.Context, userID int64) (int64, error) {
	return f.counts[userID][1], nil
}

type fakeCommentUsecase struct {
	domain.CommentUsecase
	publish     func(p domain.Principal, t domain.Target, content string) (*domain.Comment, error)
	batchDelete func(p domain.Principal, ids []int64) (int64, error)
	list        func(q domain.CommentQuery) (domain.Page[*domain.Comment], error)
}

func (f *fakeCommentUsecase) PublishComment(_ context.Context, p domain.Principal, t domain.Target, content string) (*domain.Comment, error) {
	return f.publish(p, t, content)
}

func (f *fakeCommentUsecase) BatchDeleteComments(_ context.Context, p domain.Principal, ids []int64) (int64, error) {
	return f.batchDelete(p, ids)
}

func (f *fakeCommentUsecase) GetCommentListWithReplies(_ context.Context, q domain.CommentQuery) (domain.Page[*domain.Comment], error) {
	return f.list(q)
}

type fakeRankingUsecase struct {
	domain.RankingUsecase
	hot func(q domain.HotQuery) (domain.Page[domain.Topic], error)
}

func (f *fakeRankingUsecase) GetHotTopics(_ context.Context, q domain.HotQuery) (domain.Page[domain.Topic], error) {
	return f.hot(q)
}

func newRouter(h Handlers) *gin.Engine {
	if h.Like == nil {
		h.Like = NewLikeHandler(&fakeLikeUsecase{})
	}
	if h.Follow == nil {
		h.Follow = NewFollowHandler(&fakeFollowUsecase{})
	}
	if h.Comment == nil {
		h.Comment = NewCommentHandler(&fakeCommentUsecase{})
	}
	if h.Ranking == nil {
		h.Ranking = NewRankingHandler(&fakeRankingUsecase{})
	}
	r := gin.New()
	r.Use(middleware.Principal())
	RegisterRoutes(r, h)
	return r
}

// do sends the request as userID; 0 sends it anonymously.
func do(r *gin.Engine, method, target string, body any, userID int64) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set(middleware.HeaderUserID, strconv.FormatInt(userID, 10))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestGetStatusCode(t *testing.T) {
	batch := multierror.Append(nil,
		fmt.Errorf("comment 1: %w", domain.ErrNotFound),
		fmt.Errorf("comment 2: %w", domain.ErrPermissionDenied),
	)

	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrParentNotFound, http.StatusNotFound},
		{domain.ErrAlreadyLiked, http.StatusConflict},
		{domain.ErrAlreadyFollowed, http.StatusConflict},
		{domain.ErrPermissionDenied, http.StatusForbidden},
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{domain.ErrRateLimitExceeded, http.StatusTooManyRequests},
		{domain.ErrSelfFollow, http.StatusBadRequest},
		{domain.ErrContentTooLong, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", domain.ErrInvalidTarget), http.StatusBadRequest},
		{batch.ErrorOrNil(), http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, getStatusCode(tc.err), "%v", tc.err)
	}
}

func TestLike(t *testing.T) {
	var got domain.Target
	uc := &fakeLikeUsecase{
		like: func(p domain.Principal, target domain.Target) error {
			if target.ID == 2 {
				return domain.ErrAlreadyLiked
			}
			got = target
			return nil
		},
	}
	r := newRouter(Handlers{Like: NewLikeHandler(uc)})

	rec := do(r, http.MethodPost, "/likes", gin.H{"target_id": 1, "target_type": "topic"}, 7)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.Target{ID: 1, Type: domain.TargetTopic}, got)

	rec = do(r, http.MethodPost, "/likes", gin.H{"target_id": 2, "target_type": "topic"}, 7)
	assert.Equal(t, http.StatusConflict, rec.Code)
	var resErr ResponseError
	decode(t, rec, &resErr)
	assert.Equal(t, domain.ErrAlreadyLiked.Error(), resErr.Message)

	rec = do(r, http.MethodPost, "/likes", gin.H{"target_type": "topic"}, 7)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodPost, "/likes", gin.H{"target_id": 1, "target_type": "topic"}, 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLikeStatus(t *testing.T) {
	uc := &fakeLikeUsecase{
		hasLiked: func(userID int64, target domain.Target) (bool, error) {
			return userID == 7 && target.ID == 5, nil
		},
		batchHasLiked: func(userID int64, tt domain.TargetType, ids []int64) (map[int64]bool, error) {
			assert.Equal(t, domain.TargetComment, tt)
			return map[int64]bool{ids[0]: true, ids[1]: false}, nil
		},
	}
	r := newRouter(Handlers{Like: NewLikeHandler(uc)})

	var res struct {
		Status map[string]bool `json:"status"`
	}
	rec := do(r, http.MethodGet, "/likes/status?target_type=topic&target_ids=5", nil, 7)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &res)
	assert.Equal(t, map[string]bool{"5": true}, res.Status)

	rec = do(r, http.MethodGet, "/likes/status?target_type=comment&target_ids=3,4", nil, 7)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &res)
	assert.Equal(t, map[string]bool{"3": true, "4": false}, res.Status)

	rec = do(r, http.MethodGet, "/likes/status?target_type=comment&target_ids=3,x", nil, 7)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLikeCount(t *testing.T) {
	uc := &fakeLikeUsecase{
		count: func(target domain.Target) (int64, error) {
			if target.Type == "poll" {
				return 0, domain.ErrInvalidTarget
			}
			return 42, nil
		},
	}
	r := newRouter(Handlers{Like: NewLikeHandler(uc)})

	rec := do(r, http.MethodGet, "/likes/count?target_type=topic&target_id=9", nil, 0)
	require.Equal(t, http.StatusOK, rec.Code)
	var res struct {
		Count int64 `json:"count"`
	}
	decode(t, rec, &res)
	assert.Equal(t, int64(42), res.Count)

	rec = do(r, http.MethodGet, "/likes/count?target_type=poll&target_id=9", nil, 0)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFollow(t *testing.T) {
	uc := &fakeFollowUsecase{
		follow: func(p domain.Principal, followeeID int64) error {
			if p.ID == followeeID {
				return domain.ErrSelfFollow
			}
			return nil
		},
	}
	r := newRouter(Handlers{Follow: NewFollowHandler(uc)})

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/follows/2", nil, 1).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/follows/1", nil, 1).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/follows/abc", nil, 1).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/follows/2", nil, 0).Code)
}

func TestFollowStatusAndCounts(t *testing.T) {
	uc := &fakeFollowUsecase{
		status: func(followerID int64, ids []int64) ([]domain.Follow, error) {
			return []domain.Follow{{FollowerID: followerID, FolloweeID: 3}}, nil
		},
		counts: map[int64][2]int64{5: {10, 20}},
	}
	r := newRouter(Handlers{Follow: NewFollowHandler(uc)})

	rec := do(r, http.MethodGet, "/follows/status?ids=2,3", nil, 1)
	require.Equal(t, http.StatusOK, rec.Code)
	var res struct {
		Status map[string]bool `json:"status"`
	}
	decode(t, rec, &res)
	assert.Equal(t, map[string]bool{"2": false, "3": true}, res.Status)

	rec = do(r, http.MethodGet, "/users/5/follow-counts", nil, 0)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":5,"following":10,"followers":20}`, rec.Body.String())
}

func TestFollowingPage(t *testing.T) {
	created := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	uc := &fakeFollowUsecase{
		following: func(userID int64, page, size int) (domain.Page[domain.Follow], error) {
			assert.Equal(t, 2, page)
			assert.Equal(t, 1, size)
			return domain.NewPage([]domain.Follow{{FollowerID: userID, FolloweeID: 9, CreatedAt: created}}, 3, page, size), nil
		},
	}
	r := newRouter(Handlers{Follow: NewFollowHandler(uc)})

	rec := do(r, http.MethodGet, "/users/4/following?page=2&size=1", nil, 0)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"records": [{"follower_id":4,"followee_id":9,"created_at":"2024-05-01 08:30:00"}],
		"total": 3, "page": 2, "size": 1, "has_more": true
	}`, rec.Body.String())
}

func TestCreateComment(t *testing.T) {
	uc := &fakeCommentUsecase{
		publish: func(p domain.Principal, target domain.Target, content string) (*domain.Comment, error) {
			if p.ID == 99 {
				return nil, domain.ErrRateLimitExceeded
			}
			return &domain.Comment{ID: 1, TargetID: target.ID, TargetType: target.Type, UserID: p.ID, Level: domain.CommentLevelRoot, Content: content}, nil
		},
	}
	r := newRouter(Handlers{Comment: NewCommentHandler(uc)})

	body := gin.H{"target_id": 3, "target_type": "topic", "content": "hello"}
	rec := do(r, http.MethodPost, "/comments", body, 7)
	require.Equal(t, http.StatusCreated, rec.Code)
	var res struct {
		ID      int64  `json:"id"`
		UserID  int64  `json:"user_id"`
		Level   int    `json:"level"`
		Content string `json:"content"`
	}
	decode(t, rec, &res)
	assert.Equal(t, int64(7), res.UserID)
	assert.Equal(t, domain.CommentLevelRoot, res.Level)
	assert.Equal(t, "hello", res.Content)

	rec = do(r, http.MethodPost, "/comments", body, 99)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestBatchDeleteComments(t *testing.T) {
	uc := &fakeCommentUsecase{
		batchDelete: func(p domain.Principal, ids []int64) (int64, error) {
			var errs *multierror.Error
			for _, id := range ids {
				if id > 100 {
					errs = multierror.Append(errs, fmt.Errorf("comment %d: %w", id, domain.ErrPermissionDenied))
				}
			}
			if err := errs.ErrorOrNil(); err != nil {
				return 0, err
			}
			return int64(len(ids)), nil
		},
	}
	r := newRouter(Handlers{Comment: NewCommentHandler(uc)})

	rec := do(r, http.MethodPost, "/comments/batch-delete", gin.H{"ids": []int64{1, 2}}, 7)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":2}`, rec.Body.String())

	rec = do(r, http.MethodPost, "/comments/batch-delete", gin.H{"ids": []int64{1, 101}}, 7)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "comment 101")

	rec = do(r, http.MethodPost, "/comments/batch-delete", gin.H{"ids": []int64{}}, 7)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFetchComments(t *testing.T) {
	uc := &fakeCommentUsecase{
		list: func(q domain.CommentQuery) (domain.Page[*domain.Comment], error) {
			assert.Equal(t, domain.CommentQuery{
				TargetID:   3,
				TargetType: domain.TargetTopic,
				OrderBy:    domain.CommentOrderHot,
				Page:       1,
				Size:       20,
			}, q)
			root := &domain.Comment{ID: 1, Level: 1, Replies: []*domain.Comment{{ID: 2, ParentID: 1, Level: 2}}}
			return domain.NewPage([]*domain.Comment{root}, 1, q.Page, q.Size), nil
		},
	}
	r := newRouter(Handlers{Comment: NewCommentHandler(uc)})

	rec := do(r, http.MethodGet, "/comments?target_type=topic&target_id=3&order_by=hot&page=1&size=20", nil, 0)
	require.Equal(t, http.StatusOK, rec.Code)
	var res struct {
		Records []struct {
			ID      int64 `json:"id"`
			Replies []struct {
				ID       int64 `json:"id"`
				ParentID int64 `json:"parent_id"`
			} `json:"replies"`
		} `json:"records"`
		HasMore bool `json:"has_more"`
	}
	decode(t, rec, &res)
	require.Len(t, res.Records, 1)
	require.Len(t, res.Records[0].Replies, 1)
	assert.Equal(t, int64(1), res.Records[0].Replies[0].ParentID)
	assert.False(t, res.HasMore)

	rec = do(r, http.MethodGet, "/comments?target_type=topic", nil, 0)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHotTopics(t *testing.T) {
	uc := &fakeRankingUsecase{
		hot: func(q domain.HotQuery) (domain.Page[domain.Topic], error) {
			if !q.HotType.Valid() {
				return domain.Page[domain.Topic]{}, domain.ErrBadParamInput
			}
			topics := []domain.Topic{{ID: 1, Title: "a", Views: 10, Likes: 2, Comments: 1}}
			return domain.NewPage(topics, 1, 1, 10), nil
		},
	}
	r := newRouter(Handlers{Ranking: NewRankingHandler(uc)})

	rec := do(r, http.MethodGet, "/topics/hot?hot_type=comprehensive&days=7", nil, 0)
	require.Equal(t, http.StatusOK, rec.Code)
	var res struct {
		Records []struct {
			HotScore int64 `json:"hot_score"`
		} `json:"records"`
	}
	decode(t, rec, &res)
	require.Len(t, res.Records, 1)
	assert.Equal(t, int64(10*1+2*5+1*10), res.Records[0].HotScore)

	rec = do(r, http.MethodGet, "/topics/hot?hot_type=bogus", nil, 0)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInternalErrorIsHidden(t *testing.T) {
	uc := &fakeLikeUsecase{
		count: func(domain.Target) (int64, error) {
			return 0, errors.New("dial tcp 10.0.0.1:3306: connection refused")
		},
	}
	r := newRouter(Handlers{Like: NewLikeHandler(uc)})

	rec := do(r, http.MethodGet, "/likes/count?target_type=topic&target_id=1", nil, 0)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var res ResponseError
	decode(t, rec, &res)
	assert.Equal(t, domain.ErrInternalServerError.Error(), res.Message)
}

func TestStatusQueriesLimitIDs(t *testing.T) {
	ids := make([]string, maxQueryIDs+1)
	for i := range ids {
		ids[i] = strconv.Itoa(i + 1)
	}

	// the fakes have no stubs, so reaching a usecase would panic
	r := newRouter(Handlers{})
	rec := do(r, http.MethodGet, "/likes/status?target_type=topic&target_ids="+strings.Join(ids, ","), nil, 7)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(r, http.MethodGet, "/follows/status?ids="+strings.Join(ids, ","), nil, 7)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	got, err := parseIDs(strings.Join(ids[:maxQueryIDs], ","))
	require.NoError(t, err)
	assert.Len(t, got, maxQueryIDs)
}
