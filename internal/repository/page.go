package repository

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// PageVerify clamps page to >= 1 and size to [1, MaxPageSize].
func PageVerify(page, size *int) {
	if *page < 1 {
		*page = DefaultPage
	}
	if *size < 1 {
		*size = DefaultPageSize
	}
	if *size > MaxPageSize {
		*size = MaxPageSize
	}
}

// Offset converts a 1-based page into a row offset.
func Offset(page, size int) int {
	return (page - 1) * size
}
