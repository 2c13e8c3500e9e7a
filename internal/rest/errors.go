package rest

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/community-engagement/domain"
	"github.com/Guyuepp/community-engagement/internal/rest/middleware"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// getStatusCode maps the domain errors returned by the usecases to HTTP codes.
// Wrapped and joined errors are matched too, so a batch failure that carries a
// permission error reports 403 before 404.
func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrParentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrAlreadyLiked),
		errors.Is(err, domain.ErrAlreadyFollowed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrBadParamInput),
		errors.Is(err, domain.ErrInvalidTarget),
		errors.Is(err, domain.ErrSelfFollow),
		errors.Is(err, domain.ErrInvalidParentLevel),
		errors.Is(err, domain.ErrContentTooLong),
		errors.Is(err, domain.ErrNotLiked),
		errors.Is(err, domain.ErrNotFollowed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes err as a ResponseError. Unknown errors are logged
// and hidden behind ErrInternalServerError.
func abortWithError(c *gin.Context, err error) {
	code := getStatusCode(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		middleware.Logger(c).WithError(err).Error("request failed")
		msg = domain.ErrInternalServerError.Error()
	}
	c.AbortWithStatusJSON(code, ResponseError{Message: msg})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
}

// paramID parses a positive int64 path parameter.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return 0, false
	}
	return id, true
}

// maxQueryIDs bounds the ids accepted by one status query.
const maxQueryIDs = 100

// parseIDs reads a comma separated id list such as "1,2,3".
func parseIDs(raw string) ([]int64, error) {
	if raw == "" {
		return nil, domain.ErrBadParamInput
	}
	parts := strings.Split(raw, ",")
	if len(parts) > maxQueryIDs {
		return nil, domain.ErrBadParamInput
	}
	ids := make([]int64, 0, len(parts))
	for _, s := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, domain.ErrBadParamInput
		}
		ids = append(ids, id)
	}
	return ids, nil
}
