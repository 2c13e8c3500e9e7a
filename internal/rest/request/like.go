package request

import "github.com/Guyuepp/community-engagement/domain"

// Like identifies the target of a like request. It is read from the JSON
// body on POST and from the query string otherwise.
type Like struct {
	TargetID   int64  `json:"target_id" form:"target_id" binding:"required,gt=0"`
	TargetType string `json:"target_type" form:"target_type" binding:"required"`
}

func (r *Like) ToDomain() domain.Target {
	return domain.Target{ID: r.TargetID, Type: domain.TargetType(r.TargetType)}
}

// LikeStatus asks whether the caller liked any of the comma separated TargetIDs.
type LikeStatus struct {
	TargetType string `form:"target_type" binding:"required"`
	TargetIDs  string `form:"target_ids" binding:"required"`
}

type UserLikes struct {
	Page
	TargetType string `form:"target_type" binding:"required"`
}
