package domain

// Page is an offset-paginated slice of records.
type Page[T any] struct {
	Records []T
	Total   int64
	Page    int
	Size    int
	HasMore bool
}

// NewPage wraps records and computes HasMore as page*size < total.
func NewPage[T any](records []T, total int64, page, size int) Page[T] {
	if records == nil {
		records = []T{}
	}
	return Page[T]{
		Records: records,
		Total:   total,
		Page:    page,
		Size:    size,
		HasMore: int64(page)*int64(size) < total,
	}
}
