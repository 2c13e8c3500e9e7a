package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal server error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("your requested item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("your item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given param is not valid")
	// ErrCacheMiss is returned by cache adapters when a key is absent
	ErrCacheMiss = errors.New("cache miss")
	// ErrUnauthenticated is returned when no principal is attached to the request
	ErrUnauthenticated = errors.New("user not authenticated")
)

var (
	ErrInvalidTarget      = errors.New("invalid target type")
	ErrAlreadyLiked       = errors.New("target already liked")
	ErrNotLiked           = errors.New("target not liked")
	ErrSelfFollow         = errors.New("cannot follow yourself")
	ErrAlreadyFollowed    = errors.New("user already followed")
	ErrNotFollowed        = errors.New("user not followed")
	ErrParentNotFound     = errors.New("parent comment not found")
	ErrInvalidParentLevel = errors.New("only level-1 comments can be replied to")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrRateLimitExceeded  = errors.New("commenting too frequently, try again later")
	ErrContentTooLong     = errors.New("content too long")
)
