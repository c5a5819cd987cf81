package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/d60-Lab/microblog/internal/service"
	"github.com/d60-Lab/microblog/pkg/response"
)

// Handler 聚合全部 HTTP 处理函数
type Handler struct {
	userSvc       service.UserService
	relSvc        service.RelationshipService
	postSvc       service.MicropostService
	feedSvc       service.FeedService
	followerCache *service.FollowerCache // 可为 nil（未配置 redis）
	pageSize      int
}

func New(userSvc service.UserService, relSvc service.RelationshipService, postSvc service.MicropostService, feedSvc service.FeedService, followerCache *service.FollowerCache, pageSize int) *Handler {
	if pageSize < 1 {
		pageSize = 30
	}
	return &Handler{
		userSvc:       userSvc,
		relSvc:        relSvc,
		postSvc:       postSvc,
		feedSvc:       feedSvc,
		followerCache: followerCache,
		pageSize:      pageSize,
	}
}

// fail 把业务错误映射到 HTTP 状态
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFollowSelf),
		errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, service.ErrContentTooLong),
		errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInvalidPassword):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrNotOwner),
		errors.Is(err, service.ErrNotAdmin),
		errors.Is(err, service.ErrDestroySelf),
		errors.Is(err, service.ErrNotSelf):
		response.Forbidden(c, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.NotFound(c, "record not found")
	default:
		response.InternalError(c, err)
	}
}
