package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/microblog/internal/api/middleware"
	"github.com/d60-Lab/microblog/pkg/pagination"
	"github.com/d60-Lab/microblog/pkg/response"
)

type followRequest struct {
	FolloweeID string `json:"followee_id" binding:"required"`
}

// Follow 建立关注（关注边 + 粉丝冗余边同事务落库）
// @Summary 关注用户
// @Tags 关系链
// @Accept json
// @Produce json
// @Param request body followRequest true "关注信息"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/relationships [post]
func (h *Handler) Follow(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "not signed in")
		return
	}
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.relSvc.Follow(c.Request.Context(), userID, req.FolloweeID); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, nil)
}

// Unfollow 取消关注（边不存在时为 no-op）
// @Summary 取消关注
// @Tags 关系链
// @Produce json
// @Param followee_id path string true "被关注方ID"
// @Success 200 {object} response.Response
// @Router /api/v1/relationships/{followee_id} [delete]
func (h *Handler) Unfollow(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "not signed in")
		return
	}
	if err := h.relSvc.Unfollow(c.Request.Context(), userID, c.Param("followee_id")); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, nil)
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/users/{user_id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	userID := c.Param("user_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	list, total, err := h.relSvc.ListFollowing(c.Request.Context(), userID, page, h.pageSize)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{
		"page":        page,
		"page_size":   h.pageSize,
		"total_pages": pagination.PageCount(total, h.pageSize),
		"list":        list,
	})
}

// ListFollowers 查询某用户的粉丝（配置了 redis 时走粉丝索引缓存）
// @Summary 查询粉丝列表
// @Tags 关系链
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/users/{user_id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	userID := c.Param("user_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	if h.followerCache != nil {
		list, err := h.followerCache.FetchFollowers(c.Request.Context(), userID, page, h.pageSize)
		if err != nil {
			h.fail(c, err)
			return
		}
		response.Success(c, gin.H{"page": page, "page_size": h.pageSize, "list": list})
		return
	}

	list, total, err := h.relSvc.ListFans(c.Request.Context(), userID, page, h.pageSize)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{
		"page":        page,
		"page_size":   h.pageSize,
		"total_pages": pagination.PageCount(total, h.pageSize),
		"list":        list,
	})
}
