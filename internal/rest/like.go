package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/community-engagement/domain"
	"github.com/Guyuepp/community-engagement/internal/rest/middleware"
	"github.com/Guyuepp/community-engagement/internal/rest/request"
	"github.com/Guyuepp/community-engagement/internal/rest/response"
)

// LikeHandler represent the httphandler for likes
type LikeHandler struct {
	Service domain.LikeUsecase
}

func NewLikeHandler(svc domain.LikeUsecase) *LikeHandler {
	return &LikeHandler{
		Service: svc,
	}
}

// Like will like the target in the body for the caller
func (h *LikeHandler) Like(c *gin.Context) {
	var req request.Like
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.Service.Like(c.Request.Context(), middleware.GetPrincipal(c), req.ToDomain()); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": true})
}

// Unlike reads the target from the query string
func (h *LikeHandler) Unlike(c *gin.Context) {
	var req request.Like
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.Service.Unlike(c.Request.Context(), middleware.GetPrincipal(c), req.ToDomain()); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Status answers, for every requested id, whether the caller liked it.
func (h *LikeHandler) Status(c *gin.Context) {
	var req request.LikeStatus
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	ids, err := parseIDs(req.TargetIDs)
	if err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	userID := middleware.GetPrincipal(c).ID
	targetType := domain.TargetType(req.TargetType)

	if len(ids) == 1 {
		liked, err := h.Service.HasLiked(ctx, userID, domain.Target{ID: ids[0], Type: targetType})
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": map[int64]bool{ids[0]: liked}})
		return
	}

	status, err := h.Service.BatchHasLiked(ctx, userID, targetType, ids)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (h *LikeHandler) Count(c *gin.Context) {
	var req request.Like
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	n, err := h.Service.GetLikeCount(c.Request.Context(), req.ToDomain())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.LikeCount{
		TargetID:   req.TargetID,
		TargetType: req.TargetType,
		Count:      n,
	})
}

// ListByUser pages over the likes a user gave to one target type.
func (h *LikeHandler) ListByUser(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req request.UserLikes
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	page, err := h.Service.ListUserLikes(c.Request.Context(), userID, domain.TargetType(req.TargetType), req.Page.Page, req.Size)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewPage(page, response.NewLikeFromDomain))
}
