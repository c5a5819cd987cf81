package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/microblog/config"
	"github.com/d60-Lab/microblog/internal/api/handler"
	"github.com/d60-Lab/microblog/internal/api/middleware"
)

// NewRouter 组装路由和通用中间件
func NewRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(
		middleware.Recovery(),
		gzip.Gzip(gzip.DefaultCompression),
		otelgin.Middleware("microblog"),
		middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/users", h.Register)
		v1.POST("/sessions", h.Login)
		v1.GET("/users", h.ListUsers)
		v1.GET("/users/:user_id", h.GetUser)
		v1.GET("/users/:user_id/microposts", h.ListUserMicroposts)
		v1.GET("/users/:user_id/following", h.ListFollowing)
		v1.GET("/users/:user_id/followers", h.ListFollowers)
	}

	auth := v1.Group("", middleware.AuthRequired())
	{
		auth.PATCH("/users/:user_id", h.UpdateUser)
		auth.DELETE("/users/:user_id", h.DeleteUser)
		auth.POST("/relationships", h.Follow)
		auth.DELETE("/relationships/:followee_id", h.Unfollow)
		auth.POST("/microposts", h.CreateMicropost)
		auth.DELETE("/microposts/:id", h.DeleteMicropost)
		auth.GET("/feed", h.Feed)
	}

	return r
}
