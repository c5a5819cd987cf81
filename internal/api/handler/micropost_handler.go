package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/microblog/internal/api/middleware"
	"github.com/d60-Lab/microblog/pkg/pagination"
	"github.com/d60-Lab/microblog/pkg/response"
)

type createMicropostRequest struct {
	Content string `json:"content" binding:"required,max=140"`
}

// CreateMicropost 发布短文
// @Summary 发布短文
// @Tags 短文
// @Accept json
// @Produce json
// @Param request body createMicropostRequest true "短文内容"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/microposts [post]
func (h *Handler) CreateMicropost(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "not signed in")
		return
	}
	var req createMicropostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.postSvc.Create(c.Request.Context(), userID, req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, post)
}

// DeleteMicropost 删除短文（仅限作者本人）
// @Summary 删除短文
// @Tags 短文
// @Param id path string true "短文ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/microposts/{id} [delete]
func (h *Handler) DeleteMicropost(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "not signed in")
		return
	}
	if err := h.postSvc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, nil)
}

// ListUserMicroposts 查询某用户的短文（新→旧）
// @Summary 用户短文列表
// @Tags 短文
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/users/{user_id}/microposts [get]
func (h *Handler) ListUserMicroposts(c *gin.Context) {
	userID := c.Param("user_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	list, total, err := h.postSvc.ListByUser(c.Request.Context(), userID, page, h.pageSize)
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
