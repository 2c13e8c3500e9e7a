package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/community-engagement/domain"
	"github.com/Guyuepp/community-engagement/internal/rest/middleware"
	"github.com/Guyuepp/community-engagement/internal/rest/request"
	"github.com/Guyuepp/community-engagement/internal/rest/response"
)

type CommentHandler struct {
	Service domain.CommentUsecase
}

func NewCommentHandler(svc domain.CommentUsecase) *CommentHandler {
	return &CommentHandler{
		Service: svc,
	}
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req request.Comment
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	comment, err := h.Service.PublishComment(c.Request.Context(), middleware.GetPrincipal(c), req.Target(), req.Content)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.NewSingleCommentFromDomain(comment))
}

func (h *CommentHandler) CreateReply(c *gin.Context) {
	parentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req request.Reply
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	reply, err := h.Service.PublishReply(c.Request.Context(), middleware.GetPrincipal(c), req.Target(), parentID, req.ReplyUserID, req.Content)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.NewSingleCommentFromDomain(reply))
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req request.UpdateComment
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	comment, err := h.Service.UpdateComment(c.Request.Context(), middleware.GetPrincipal(c), id, req.Content)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewSingleCommentFromDomain(comment))
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Service.DeleteComment(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BatchDeleteComments deletes all requested comments or none of them.
func (h *CommentHandler) BatchDeleteComments(c *gin.Context) {
	var req request.BatchDeleteComments
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	n, err := h.Service.BatchDeleteComments(c.Request.Context(), middleware.GetPrincipal(c), req.IDs)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

// FetchComments lists root comments of a target with their first replies
func (h *CommentHandler) FetchComments(c *gin.Context) {
	var req request.CommentList
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	page, err := h.Service.GetCommentListWithReplies(c.Request.Context(), req.ToDomain())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewPage(page, response.NewCommentFromDomain))
}

func (h *CommentHandler) FetchReplies(c *gin.Context) {
	parentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req request.Page
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	page, err := h.Service.GetReplyList(c.Request.Context(), parentID, req.Page, req.Size)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewPage(page, response.NewSingleCommentFromDomain))
}

func (h *CommentHandler) Count(c *gin.Context) {
	var req request.CommentCount
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	target := domain.Target{ID: req.TargetID, Type: domain.TargetType(req.TargetType)}
	n, err := h.Service.GetCommentCount(c.Request.Context(), target, req.UserID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *CommentHandler) FetchUserComments(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req request.Page
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	page, err := h.Service.GetUserComments(c.Request.Context(), userID, req.Page, req.Size)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewPage(page, response.NewSingleCommentFromDomain))
}

// FetchLatest returns the newest comments site-wide; a bad limit falls back to the default.
func (h *CommentHandler) FetchLatest(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		limit = 0
	}

	list, err := h.Service.GetLatestComments(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewCommentsFromDomain(list))
}
