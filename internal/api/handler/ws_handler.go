package handler

import (
	"Mundero/internal/pkg/consts"
	"Mundero/internal/pkg/redis"
	"Mundero/internal/pkg/response"
	"Mundero/internal/pkg/security"
	"Mundero/internal/service"
	"context"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WsHandler struct{}

func NewWsHandler() *WsHandler {
	return &WsHandler{}
}

// Connect 订阅实时信息流与预警推送
func (s *WsHandler) Connect(c *gin.Context) {
	// 鉴权
	token := c.Query("token")
	if token == "" {
		response.Error(c, service.UnauthorizedError)
		return
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		log.Warn("WS 鉴权失败", "err", err)
		response.Error(c, service.UnauthorizedError)
		return
	}
	userID := claims.UserID

	// 升级 Websocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WS 协议升级失败", "err", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	// 订阅预警频道与信息流频道，community_id 为空时只看全局流
	channels := []string{
		consts.AlertChannelKey,
		consts.FeedChannelKey + "global",
	}
	if communityID := c.Query("community_id"); communityID != "" {
		channels = append(channels, consts.FeedChannelKey+communityID)
	}

	pubsub := redis.Subscribe(context.Background(), channels...)
	defer func() {
		_ = pubsub.Close()
	}()

	log.Info("用户 WS 连接已建立", "userID", userID, "channels", len(channels))

	stopChan := make(chan struct{})

	// 读循环：监听客户端主动断开
	go func() {
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				close(stopChan)
				return
			}
		}
	}()

	// 写循环：监听 Redis 并推送至客户端
	redisCh := pubsub.Channel()
	for {
		select {
		case msg := <-redisCh:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload))
			if err != nil {
				log.Error("WS 推送失败", "userID", userID, "err", err)
				return
			}
		case <-stopChan:
			log.Info("用户 WS 连接已断开", "userID", userID)
			return
		}
	}
}
