package domain

import (
	"context"
	"time"
)

// Follow is a directed edge: FollowerID follows FolloweeID.
type Follow struct {
	ID         int64
	FollowerID int64
	FolloweeID int64
	CreatedAt  time.Time
}

// FollowRepository is the durable follow graph.
type FollowRepository interface {
	// Insert stores the edge and bumps both users' counters.
	// Returns ErrConflict if the edge exists and ErrNotFound if either user doesn't.
	Insert(ctx context.Context, f *Follow) error

	// Delete removes the edge and decrements both counters.
	// Returns ErrNotFollowed if there was no edge.
	Delete(ctx context.Context, followerID, followeeID int64) error

	Exists(ctx context.Context, followerID, followeeID int64) (bool, error)

	// FindExisting returns the edges from followerID to any of followeeIDs, in one query.
	FindExisting(ctx context.Context, followerID int64, followeeIDs []int64) ([]Follow, error)

	// ListFollowing and ListFollowers are ordered by edge creation time, newest first.
	ListFollowing(ctx context.Context, followerID int64, offset, limit int) ([]Follow, error)
	ListFollowers(ctx context.Context, followeeID int64, offset, limit int) ([]Follow, error)

	CountFollowing(ctx context.Context, followerID int64) (int64, error)
	CountFollowers(ctx context.Context, followeeID int64) (int64, error)
}

// FollowUsecase is the follow graph.
type FollowUsecase interface {
	Follow(ctx context.Context, p Principal, followeeID int64) error
	Unfollow(ctx context.Context, p Principal, followeeID int64) error
	HasFollowed(ctx context.Context, followerID, followeeID int64) (bool, error)
	IsMutualFollow(ctx context.Context, userA, userB int64) (bool, error)
	GetFollowing(ctx context.Context, followerID int64, page, size int) (Page[Follow], error)
	GetFollowers(ctx context.Context, followeeID int64, page, size int) (Page[Follow], error)
	GetFollowingCount(ctx context.Context, followerID int64) (int64, error)
	GetFollowersCount(ctx context.Context, followeeID int64) (int64, error)
	GetFollowStatus(ctx context.Context, followerID int64, followeeIDs []int64) ([]Follow, error)
}

// FollowStatusMap turns the edges returned by GetFollowStatus into a lookup
// covering every requested id.
func FollowStatusMap(followeeIDs []int64, follows []Follow) map[int64]bool {
	res := make(map[int64]bool, len(followeeIDs))
	for _, id := range followeeIDs {
		res[id] = false
	}
	for _, f := range follows {
		res[f.FolloweeID] = true
	}
	return res
}
