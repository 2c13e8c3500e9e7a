package response

import "github.com/Guyuepp/community-engagement/domain"

type Like struct {
	TargetID   int64  `json:"target_id"`
	TargetType string `json:"target_type"`
	CreatedAt  string `json:"created_at"`
}

func NewLikeFromDomain(l domain.Like) Like {
	return Like{
		TargetID:   l.TargetID,
		TargetType: string(l.TargetType),
		CreatedAt:  l.CreatedAt.Format(DateTimeFormat),
	}
}

type LikeCount struct {
	TargetID   int64  `json:"target_id"`
	TargetType string `json:"target_type"`
	Count      int64  `json:"count"`
}
