package response

import "github.com/Guyuepp/community-engagement/domain"

type Follow struct {
	FollowerID int64  `json:"follower_id"`
	FolloweeID int64  `json:"followee_id"`
	CreatedAt  string `json:"created_at"`
}

func NewFollowFromDomain(f domain.Follow) Follow {
	return Follow{
		FollowerID: f.FollowerID,
		FolloweeID: f.FolloweeID,
		CreatedAt:  f.CreatedAt.Format(DateTimeFormat),
	}
}

type FollowCounts struct {
	UserID    int64 `json:"user_id"`
	Following int64 `json:"following"`
	Followers int64 `json:"followers"`
}
