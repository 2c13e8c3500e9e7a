package domain

import "time"

// User represents a user entity in the system.
// Only the denormalized follow counters are maintained by this module.
type User struct {
	ID             int64
	Username       string
	Nickname       string
	FollowersCount int64
	FollowingCount int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Principal is the authenticated caller of a core operation.
// It is built once by the transport layer and passed by value.
type Principal struct {
	ID       int64
	Username string
	Level    int
}

// IsZero reports whether no caller was resolved.
func (p Principal) IsZero() bool {
	return p.ID == 0
}
