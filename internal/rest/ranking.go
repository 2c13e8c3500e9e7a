package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/community-engagement/domain"
	"github.com/Guyuepp/community-engagement/internal/rest/request"
	"github.com/Guyuepp/community-engagement/internal/rest/response"
)

type RankingHandler struct {
	Service domain.RankingUsecase
}

func NewRankingHandler(svc domain.RankingUsecase) *RankingHandler {
	return &RankingHandler{
		Service: svc,
	}
}

// HotTopics will fetch a page of the hot ranking
func (h *RankingHandler) HotTopics(c *gin.Context) {
	var req request.HotTopics
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	q := req.ToDomain()
	page, err := h.Service.GetHotTopics(c.Request.Context(), q)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewPage(page, response.NewTopicConverter(q.HotType)))
}

func (h *RankingHandler) RecordView(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Service.RecordView(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
