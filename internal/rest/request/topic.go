package request

import "github.com/Guyuepp/community-engagement/domain"

type HotTopics struct {
	Page
	CategoryID int64  `form:"category_id"`
	Days       int    `form:"days"`
	HotType    string `form:"hot_type"`
}

func (r *HotTopics) ToDomain() domain.HotQuery {
	return domain.HotQuery{
		CategoryID: r.CategoryID,
		Days:       r.Days,
		HotType:    domain.HotType(r.HotType),
		Page:       r.Page.Page,
		Size:       r.Page.Size,
	}
}
