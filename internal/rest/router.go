package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/community-engagement/internal/rest/middleware"
)

type Handlers struct {
	Like    *LikeHandler
	Follow  *FollowHandler
	Comment *CommentHandler
	Ranking *RankingHandler
}

// RegisterRoutes mounts every handler on r. Mutations and per-caller
// queries go through middleware.RequireAuth.
func RegisterRoutes(r gin.IRouter, h Handlers) {
	auth := middleware.RequireAuth()

	likes := r.Group("/likes")
	likes.POST("", auth, h.Like.Like)
	likes.DELETE("", auth, h.Like.Unlike)
	likes.GET("/status", auth, h.Like.Status)
	likes.GET("/count", h.Like.Count)

	follows := r.Group("/follows")
	follows.GET("/status", auth, h.Follow.Status)
	follows.POST("/:id", auth, h.Follow.Follow)
	follows.DELETE("/:id", auth, h.Follow.Unfollow)
	follows.GET("/:id/mutual", auth, h.Follow.Mutual)

	users := r.Group("/users/:id")
	users.GET("/following", h.Follow.Following)
	users.GET("/followers", h.Follow.Followers)
	users.GET("/follow-counts", h.Follow.Counts)
	users.GET("/likes", h.Like.ListByUser)
	users.GET("/comments", h.Comment.FetchUserComments)

	comments := r.Group("/comments")
	comments.GET("", h.Comment.FetchComments)
	comments.GET("/count", h.Comment.Count)
	comments.GET("/latest", h.Comment.FetchLatest)
	comments.POST("", auth, h.Comment.CreateComment)
	comments.POST("/batch-delete", auth, h.Comment.BatchDeleteComments)
	comments.GET("/:id/replies", h.Comment.FetchReplies)
	comments.POST("/:id/replies", auth, h.Comment.CreateReply)
	comments.PUT("/:id", auth, h.Comment.UpdateComment)
	comments.DELETE("/:id", auth, h.Comment.DeleteComment)

	topics := r.Group("/topics")
	topics.GET("/hot", h.Ranking.HotTopics)
	topics.POST("/:id/views", h.Ranking.RecordView)
}
