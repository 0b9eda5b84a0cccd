package api

import (
	"Propermint/internal/api/middleware"
	"Propermint/internal/pkg/consts"
	"Propermint/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)
	r.Use(middleware.AuditMiddleware())

	auth := middleware.AuthMiddleware(group.TokenBlacklist)
	authOptional := middleware.AuthOptionalMiddleware()

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		postGroup := apiGroup.Group("/posts")
		{
			readGroup := postGroup.Group("")
			readGroup.Use(authOptional)
			{
				readGroup.GET("/:post_id", group.PostHandler.GetPost)
				readGroup.GET("/:post_id/comments", group.ReactionHandler.ListComments)
			}

			authGroup := postGroup.Group("")
			authGroup.Use(auth)
			{
				authGroup.POST("", group.PostHandler.CreatePost)
				authGroup.PUT("/:post_id", group.PostHandler.UpdatePost)
				authGroup.DELETE("/:post_id", group.PostHandler.DeletePost)
				authGroup.POST("/:post_id/comments", group.ReactionHandler.CreateComment)
				authGroup.POST("/:post_id/like", group.ReactionHandler.LikePost)
			}

			// 需要登录 & 拥有审核角色
			auditGroup := authGroup.Group("")
			auditGroup.Use(middleware.CheckRoles(consts.RoleAdmin, consts.RoleAudit))
			{
				auditGroup.PUT("/:post_id/suppress", group.PostHandler.SuppressPost)
			}
		}

		commentGroup := apiGroup.Group("/comments")
		commentGroup.Use(auth)
		{
			commentGroup.DELETE("/:comment_id", group.ReactionHandler.DeleteComment)
			commentGroup.POST("/:comment_id/like", group.ReactionHandler.LikeComment)
		}

		channelGroup := apiGroup.Group("/channels/:channel_id")
		channelGroup.Use(authOptional)
		{
			channelGroup.GET("/posts", group.PostHandler.ListChannelPosts)
			channelGroup.GET("/users/:author/posts", group.PostHandler.ListUserPosts)
		}

		sessionGroup := apiGroup.Group("/session")
		sessionGroup.Use(auth)
		{
			sessionGroup.POST("/logout", group.SessionHandler.Logout)
		}
	}

	return r
}
