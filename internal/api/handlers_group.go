package api

import "Mundero/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler       *handler.UserHandler
	FeedHandler       *handler.FeedHandler
	CommunityHandler  *handler.CommunityHandler
	ModerationHandler *handler.ModerationHandler
	AnalyticsHandler  *handler.AnalyticsHandler
	AlertHandler      *handler.AlertHandler
	MediaHandler      *handler.MediaHandler
	WSHandler         *handler.WsHandler
}
