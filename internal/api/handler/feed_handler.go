package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/microblog/internal/api/middleware"
	"github.com/d60-Lab/microblog/pkg/response"
)

// Feed 当前用户动态流：本人 + 所关注用户的短文，按时间倒序分页
// @Summary 动态流
// @Tags 动态
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/feed [get]
func (h *Handler) Feed(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "not signed in")
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	list, totalPages, err := h.feedSvc.Feed(c.Request.Context(), userID, page, h.pageSize)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{
		"page":        page,
		"page_size":   h.pageSize,
		"total_pages": totalPages,
		"list":        list,
	})
}
