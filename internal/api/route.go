package api

import (
	"Mundero/internal/api/middleware"
	"Mundero/internal/pkg/consts"
	"Mundero/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/user")
		{
			// 无需登录即可访问的接口
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.POST("/login", group.UserHandler.Login)
			userGroup.GET("/:user_id/simple", group.UserHandler.GetUserSimpleInfoById)
			userGroup.GET("/batch/simple", group.UserHandler.GetUserSimpleInfoByIds)

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.UserHandler.Logout)
				authGroup.GET("/info", group.UserHandler.GetUserInfo)
				authGroup.PUT("/info", group.UserHandler.UpdateProfile)
				authGroup.POST("/avatar", group.UserHandler.UploadAvatar)
				authGroup.POST("/cancel", group.UserHandler.CancelUser)
			}

			// 需要登录 & 拥有 admin 角色
			adminGroup := authGroup.Group("")
			adminGroup.Use(middleware.CheckRoles(consts.AppRoleAdmin))
			{
				adminGroup.POST("/ban", group.UserHandler.BanUser)
			}
		}

		postGroup := apiGroup.Group("/posts")
		{
			authOptGroup := postGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/feed", group.FeedHandler.GetFeed)
				authOptGroup.GET("/search", group.FeedHandler.SearchPosts)
				authOptGroup.GET("/detail/:post_id", group.FeedHandler.GetPost)
				authOptGroup.GET("/:post_id/comments", group.FeedHandler.GetComments)
			}

			authGroup := postGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.FeedHandler.CreatePost)
				authGroup.PUT("/:post_id", group.FeedHandler.UpdatePost)
				authGroup.DELETE("/:post_id", group.FeedHandler.DeletePost)

				authGroup.POST("/:post_id/like", group.FeedHandler.LikePost)
				authGroup.DELETE("/:post_id/like", group.FeedHandler.UnlikePost)
				authGroup.POST("/:post_id/comments", group.FeedHandler.AddComment)
				authGroup.DELETE("/comments/:comment_id", group.FeedHandler.DeleteComment)
				authGroup.POST("/:post_id/share", group.FeedHandler.SharePost)
				authGroup.POST("/:post_id/view", group.FeedHandler.TrackView)

				authGroup.POST("/:post_id/report", group.ModerationHandler.ReportPost)
			}

			// 审核队列与显隐操作
			moderationGroup := authGroup.Group("/moderation")
			moderationGroup.Use(middleware.CheckRoles(consts.AppRoleAdmin))
			{
				moderationGroup.GET("/queue", group.ModerationHandler.GetQueue)
				moderationGroup.PUT("/:post_id/visibility", group.ModerationHandler.SetVisibility)
			}
		}

		communityGroup := apiGroup.Group("/communities")
		{
			communityGroup.GET("", group.CommunityHandler.List)
			communityGroup.GET("/:community_id", group.CommunityHandler.Get)
			communityGroup.GET("/:community_id/members", group.CommunityHandler.ListMembers)

			authGroup := communityGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.CommunityHandler.Create)
				authGroup.PUT("/:community_id", group.CommunityHandler.Update)
				authGroup.DELETE("/:community_id", group.CommunityHandler.Delete)

				authGroup.POST("/:community_id/join", group.CommunityHandler.Join)
				authGroup.POST("/:community_id/leave", group.CommunityHandler.Leave)
				authGroup.POST("/:community_id/approve", group.CommunityHandler.Approve)
				authGroup.POST("/:community_id/reject", group.CommunityHandler.Reject)
				authGroup.POST("/:community_id/ban", group.CommunityHandler.BanMember)
				authGroup.PUT("/:community_id/role", group.CommunityHandler.ChangeMemberRole)
			}
		}

		analyticsGroup := apiGroup.Group("/analytics")
		analyticsGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(consts.AppRoleAdmin))
		{
			analyticsGroup.GET("/feed", group.AnalyticsHandler.GetFeedAnalytics)
			analyticsGroup.POST("/feed/refresh", group.AnalyticsHandler.RefreshFeedAnalytics)
			analyticsGroup.GET("/matrix", group.AnalyticsHandler.GetActivityMatrix)

			analyticsGroup.GET("/alerts", group.AlertHandler.GetAlerts)
			analyticsGroup.POST("/alerts/generate", group.AlertHandler.GenerateAlerts)
			analyticsGroup.DELETE("/alerts/:alert_id", group.AlertHandler.DismissAlert)
		}

		wsGroup := apiGroup.Group("/ws")
		{
			wsGroup.GET("", group.WSHandler.Connect)
		}

		mediaGroup := apiGroup.Group("/media")
		{
			mediaGroup.Use(middleware.AuthMiddleware())
			mediaGroup.POST("/upload", group.MediaHandler.Upload)
		}
	}

	return r
}
