package websocket

import (
	"net/http"
	"strings"

	"ShoeEdge/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// originChecker 空列表放行所有来源（本机展示页、开发环境）
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[strings.ToLower(strings.TrimRight(o, "/"))] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			// 非浏览器客户端不带 Origin
			return true
		}
		_, ok := set[strings.ToLower(origin)]
		return ok
	}
}

// ServeWS GET /ws  (需带 JWT，middleware 注入 address)
func ServeWS(hub *Hub, allowedOrigins ...string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(allowedOrigins),
	}

	return func(c *gin.Context) {
		owner := c.GetString("address")
		if owner == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			utils.Log.Warn("ws upgrade failed", "owner", owner, "err", err)
			return
		}

		client := &Client{
			Owner: owner,
			Conn:  conn,
			Send:  make(chan OutgoingMessage, 32),
			Hub:   hub,
		}
		if !hub.join(client) {
			_ = conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()
	}
}
