package domain

import (
	"context"
	"time"
)

const (
	// LikeCacheTTL is how long like flags written after a committed like stay cached.
	LikeCacheTTL = 24 * time.Hour

	// LikeCacheRefillTTL applies to values loaded from the store after a cache
	// miss. A concurrent write can land between the load and the fill, so such
	// values live shorter.
	LikeCacheRefillTTL = 10 * time.Minute
)

// Like is a (user, target) edge. At most one exists per triple.
type Like struct {
	ID         int64
	UserID     int64
	TargetID   int64
	TargetType TargetType
	CreatedAt  time.Time
}

// LikeRepository is the durable side of the like engine.
// Every mutation keeps the target's likes counter in the same transaction.
type LikeRepository interface {
	// Insert stores the edge and increments the target's likes counter.
	// Returns ErrConflict if the edge already exists and ErrNotFound if the target row doesn't.
	Insert(ctx context.Context, l *Like) error

	// Delete removes the edge and decrements the target's likes counter.
	// Returns ErrNotLiked if there was no edge.
	Delete(ctx context.Context, userID int64, target Target) error

	Exists(ctx context.Context, userID int64, target Target) (bool, error)

	// ExistsBatch returns the subset of targetIDs the user has liked.
	ExistsBatch(ctx context.Context, userID int64, targetType TargetType, targetIDs []int64) ([]int64, error)

	Count(ctx context.Context, target Target) (int64, error)

	ListByUser(ctx context.Context, userID int64, targetType TargetType, offset, limit int) ([]Like, error)
	CountByUser(ctx context.Context, userID int64, targetType TargetType) (int64, error)

	// DeleteByTarget removes every like of a target, resets its counter,
	// and returns the ids of the users whose likes were removed.
	DeleteByTarget(ctx context.Context, target Target) ([]int64, error)

	// DeleteByUser removes every like of a user, recounts the affected targets,
	// and returns those targets.
	DeleteByUser(ctx context.Context, userID int64) ([]Target, error)
}

// LikeUsecase is the like engine.
type LikeUsecase interface {
	Like(ctx context.Context, p Principal, target Target) error
	Unlike(ctx context.Context, p Principal, target Target) error
	HasLiked(ctx context.Context, userID int64, target Target) (bool, error)
	BatchHasLiked(ctx context.Context, userID int64, targetType TargetType, targetIDs []int64) (map[int64]bool, error)
	GetLikeCount(ctx context.Context, target Target) (int64, error)
	ListUserLikes(ctx context.Context, userID int64, targetType TargetType, page, size int) (Page[Like], error)
	DeleteTargetLikes(ctx context.Context, target Target) (int, error)
	DeleteUserLikes(ctx context.Context, userID int64) (int, error)
}
