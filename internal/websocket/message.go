package websocket

import "encoding/json"

// 推送事件名
const (
	EventShoe   = "shoe"
	EventAdvice = "advice"
	EventError  = "error"
)

type OutgoingMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// IncomingMessage Data 保持原始 JSON，由游戏层按事件解析
type IncomingMessage struct {
	From  string          `json:"from"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}
