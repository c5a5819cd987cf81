package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/microblog/internal/api/middleware"
	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/pkg/pagination"
	"github.com/d60-Lab/microblog/pkg/response"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type updateUserRequest struct {
	Name     string `json:"name" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Admin       bool      `json:"admin"`
	GravatarURL string    `json:"gravatar_url"`
	CreatedAt   time.Time `json:"created_at"`
}

func toUserView(u *model.User) userView {
	return userView{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Admin:       u.Admin,
		GravatarURL: u.GravatarURL(50),
		CreatedAt:   u.CreatedAt,
	}
}

// Register 注册用户
// @Summary 注册
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body registerRequest true "注册信息"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/users [post]
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.userSvc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	token, err := middleware.GenerateToken(u.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, gin.H{"user": toUserView(u), "token": token})
}

// Login 登录换取 token
// @Summary 登录
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/sessions [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.userSvc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	token, err := middleware.GenerateToken(u.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"user": toUserView(u), "token": token})
}

// GetUser 查询用户资料
// @Summary 用户资料
// @Tags 用户
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{user_id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.userSvc.Get(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, toUserView(u))
}

// ListUsers 用户列表
// @Summary 用户列表
// @Tags 用户
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response
// @Router /api/v1/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	users, total, err := h.userSvc.List(c.Request.Context(), page, h.pageSize)
	if err != nil {
		h.fail(c, err)
		return
	}
	views := make([]userView, len(users))
	for i, u := range users {
		views[i] = toUserView(u)
	}
	response.Success(c, gin.H{
		"page":        page,
		"page_size":   h.pageSize,
		"total_pages": pagination.PageCount(total, h.pageSize),
		"list":        views,
	})
}

// UpdateUser 编辑资料（仅限本人；密码留空表示不修改）
// @Summary 编辑资料
// @Tags 用户
// @Accept json
// @Produce json
// @Param user_id path string true "用户ID"
// @Param request body updateUserRequest true "资料"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/users/{user_id} [patch]
func (h *Handler) UpdateUser(c *gin.Context) {
	requesterID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "not signed in")
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.userSvc.Update(c.Request.Context(), c.Param("user_id"), requesterID, req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, toUserView(u))
}

// DeleteUser 注销用户（仅管理员，级联删除关注边与短文）
// @Summary 注销用户
// @Tags 用户
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{user_id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	requesterID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "not signed in")
		return
	}
	if err := h.userSvc.Destroy(c.Request.Context(), c.Param("user_id"), requesterID); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, nil)
}
