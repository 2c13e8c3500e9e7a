package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/Guyuepp/community-engagement/domain"
	"github.com/Guyuepp/community-engagement/internal/rest/middleware"
	"github.com/Guyuepp/community-engagement/internal/rest/request"
	"github.com/Guyuepp/community-engagement/internal/rest/response"
)

// FollowHandler represent the httphandler for the follow graph
type FollowHandler struct {
	Service domain.FollowUsecase
}

func NewFollowHandler(svc domain.FollowUsecase) *FollowHandler {
	return &FollowHandler{
		Service: svc,
	}
}

func (h *FollowHandler) Follow(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Service.Follow(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"followed": true})
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Service.Unfollow(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FollowHandler) Following(c *gin.Context) {
	h.list(c, h.Service.GetFollowing)
}

func (h *FollowHandler) Followers(c *gin.Context) {
	h.list(c, h.Service.GetFollowers)
}

func (h *FollowHandler) list(c *gin.Context, fetch func(ctx context.Context, userID int64, page, size int) (domain.Page[domain.Follow], error)) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req request.Page
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	page, err := fetch(c.Request.Context(), userID, req.Page, req.Size)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewPage(page, response.NewFollowFromDomain))
}

// Counts returns both follow counters of a user.
func (h *FollowHandler) Counts(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}

	res := response.FollowCounts{UserID: userID}
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		res.Following, err = h.Service.GetFollowingCount(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		res.Followers, err = h.Service.GetFollowersCount(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Status reports which of the comma separated user ids the caller follows.
func (h *FollowHandler) Status(c *gin.Context) {
	ids, err := parseIDs(c.Query("ids"))
	if err != nil {
		badRequest(c, err)
		return
	}

	p := middleware.GetPrincipal(c)
	follows, err := h.Service.GetFollowStatus(c.Request.Context(), p.ID, ids)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": domain.FollowStatusMap(ids, follows)})
}

// Mutual reports whether the caller and :id follow each other.
func (h *FollowHandler) Mutual(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	mutual, err := h.Service.IsMutualFollow(c.Request.Context(), middleware.GetPrincipal(c).ID, id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mutual": mutual})
}
