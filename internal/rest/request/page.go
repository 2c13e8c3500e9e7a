package request

// Page is the offset pagination carried in the query string.
// Out of range values are clamped by the usecases.
type Page struct {
	Page int `form:"page"`
	Size int `form:"size"`
}
