package response

import "github.com/Guyuepp/community-engagement/domain"

const DateTimeFormat = "2006-01-02 15:04:05"

// Page is the JSON shape of every paginated list.
type Page[T any] struct {
	Records []T   `json:"records"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Size    int   `json:"size"`
	HasMore bool  `json:"has_more"`
}

// NewPage converts each record of p with conv.
func NewPage[S, T any](p domain.Page[S], conv func(S) T) Page[T] {
	records := make([]T, 0, len(p.Records))
	for _, r := range p.Records {
		records = append(records, conv(r))
	}
	return Page[T]{
		Records: records,
		Total:   p.Total,
		Page:    p.Page,
		Size:    p.Size,
		HasMore: p.HasMore,
	}
}
